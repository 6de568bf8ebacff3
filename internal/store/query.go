package store

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SortKey enumerates the columns a history listing may be ordered by.
// Anything outside this set falls back to SortByTimestamp.
type SortKey int

const (
	SortByTimestamp SortKey = iota
	SortByQuality
	SortByArea
	SortByGarage
	SortByBasement
	SortByYear
	SortByPrediction
)

// Sort describes the requested ordering of a history listing.
type Sort struct {
	Key  SortKey
	Desc bool
}

// DefaultSort is newest first, the ordering the history page shows without
// any query parameters.
var DefaultSort = Sort{Key: SortByTimestamp, Desc: true}

// Filters holds exact-match feature predicates keyed by query-parameter name.
// Only keys present in filterColumns ever make it into a query.
type Filters map[string]int

// filterKeys fixes the order filter clauses are emitted in, so the same
// request always builds the same SQL.
var filterKeys = []string{"quality", "area", "garage", "basement", "year"}

var filterColumns = map[string]string{
	"quality":  "overall_qual",
	"area":     "gr_liv_area",
	"garage":   "garage_cars",
	"basement": "total_bsmt_sf",
	"year":     "year_built",
}

var sortColumns = map[SortKey]string{
	SortByTimestamp:  "predicted_on",
	SortByQuality:    "overall_qual",
	SortByArea:       "gr_liv_area",
	SortByGarage:     "garage_cars",
	SortByBasement:   "total_bsmt_sf",
	SortByYear:       "year_built",
	SortByPrediction: "prediction",
}

var sortKeysByName = map[string]SortKey{
	"timestamp":       SortByTimestamp,
	"quality":         SortByQuality,
	"area":            SortByArea,
	"garage":          SortByGarage,
	"basement":        SortByBasement,
	"year":            SortByYear,
	"predicted_value": SortByPrediction,
}

// ParseFilters extracts the recognized feature filters from request query
// parameters. Unknown keys and non-numeric values are ignored, not errors.
func ParseFilters(values url.Values) Filters {
	filters := Filters{}
	for _, key := range filterKeys {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		filters[key] = n
	}
	return filters
}

// ParseSort resolves the sort/order query parameters. An unrecognized sort
// key yields DefaultSort; order is descending unless "asc" is given.
func ParseSort(key, order string) Sort {
	k, ok := sortKeysByName[key]
	if !ok {
		return DefaultSort
	}
	return Sort{Key: k, Desc: strings.ToLower(order) != "asc"}
}

// buildListQuery assembles the SELECT for a history listing. Column names
// come exclusively from the whitelist maps above; request input only ever
// appears as positional arguments.
func buildListQuery(ownerID uuid.UUID, filters Filters, sort Sort) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, user_id, overall_qual, gr_liv_area, garage_cars, total_bsmt_sf, year_built, prediction, predicted_on FROM history WHERE user_id = $1`)
	args := []any{ownerID}

	for _, key := range filterKeys {
		value, ok := filters[key]
		if !ok {
			continue
		}
		args = append(args, value)
		fmt.Fprintf(&sb, " AND %s = $%d", filterColumns[key], len(args))
	}

	column, ok := sortColumns[sort.Key]
	if !ok {
		column = sortColumns[DefaultSort.Key]
		sort = DefaultSort
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	// Secondary id key keeps the order stable when the sort column ties.
	fmt.Fprintf(&sb, " ORDER BY %s %s, id ASC", column, direction)

	return sb.String(), args
}

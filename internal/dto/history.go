package dto

import (
	"time"

	"AMESAI_BACK-END/internal/models"
)

// HistoryEntryResponse represents one stored prediction in API responses
type HistoryEntryResponse struct {
	ID          string  `json:"id"`
	OverallQual int     `json:"overall_qual"`
	GrLivArea   int     `json:"gr_liv_area"`
	GarageCars  int     `json:"garage_cars"`
	TotalBsmtSF int     `json:"total_bsmt_sf"`
	YearBuilt   int     `json:"year_built"`
	Prediction  float64 `json:"prediction"`
	PredictedOn string  `json:"predicted_on"`
}

// HistoryListResponse wraps a history listing
type HistoryListResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
	Count   int                    `json:"count"`
}

// NewHistoryEntryResponse converts a history row into its API representation
func NewHistoryEntryResponse(e *models.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:          e.ID.String(),
		OverallQual: e.OverallQual,
		GrLivArea:   e.GrLivArea,
		GarageCars:  e.GarageCars,
		TotalBsmtSF: e.TotalBsmtSF,
		YearBuilt:   e.YearBuilt,
		Prediction:  e.Prediction,
		PredictedOn: e.PredictedOn.Format(time.RFC3339),
	}
}

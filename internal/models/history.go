package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry represents one stored prediction made by a user
type HistoryEntry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	OverallQual int       `json:"overall_qual" db:"overall_qual"`
	GrLivArea   int       `json:"gr_liv_area" db:"gr_liv_area"`
	GarageCars  int       `json:"garage_cars" db:"garage_cars"`
	TotalBsmtSF int       `json:"total_bsmt_sf" db:"total_bsmt_sf"`
	YearBuilt   int       `json:"year_built" db:"year_built"`
	Prediction  float64   `json:"prediction" db:"prediction"`
	PredictedOn time.Time `json:"predicted_on" db:"predicted_on"`
}

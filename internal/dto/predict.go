package dto

import "AMESAI_BACK-END/internal/predictor"

// PredictRequest carries the five housing features for a price estimate
type PredictRequest struct {
	OverallQual int `json:"overall_qual" validate:"required,min=1,max=10"`
	GrLivArea   int `json:"gr_liv_area" validate:"min=0"`
	GarageCars  int `json:"garage_cars" validate:"min=0,max=4"`
	TotalBsmtSF int `json:"total_bsmt_sf" validate:"min=0"`
	YearBuilt   int `json:"year_built" validate:"min=1900,max=2030"`
}

// Features converts the request into the predictor's input type
func (r PredictRequest) Features() predictor.Features {
	return predictor.Features{
		OverallQual: r.OverallQual,
		GrLivArea:   r.GrLivArea,
		GarageCars:  r.GarageCars,
		TotalBsmtSF: r.TotalBsmtSF,
		YearBuilt:   r.YearBuilt,
	}
}

// PredictResponse carries the computed estimate. Entry is set only on the
// authenticated route, which persists the prediction.
type PredictResponse struct {
	Prediction   float64               `json:"prediction"`
	ModelVersion string                `json:"model_version,omitempty"`
	Entry        *HistoryEntryResponse `json:"entry,omitempty"`
}

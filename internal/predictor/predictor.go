// Package predictor evaluates the pre-trained linear pricing model. The
// artifact is a JSON export of the model's intercept and the coefficient for
// each of the five input features; training happens offline.
package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrModelUnavailable is returned by Predict when the artifact failed to
// load at startup. The rest of the application keeps serving.
var ErrModelUnavailable = errors.New("prediction model unavailable")

// Features are the five numeric inputs of the pricing model, named after the
// Ames housing dataset columns it was trained on.
type Features struct {
	OverallQual int `json:"overall_qual"`
	GrLivArea   int `json:"gr_liv_area"`
	GarageCars  int `json:"garage_cars"`
	TotalBsmtSF int `json:"total_bsmt_sf"`
	YearBuilt   int `json:"year_built"`
}

// Validate checks every feature against its allowed range and returns a
// field -> message map. An empty map means the input is valid.
func (f Features) Validate() map[string]string {
	fields := map[string]string{}
	if f.OverallQual < 1 || f.OverallQual > 10 {
		fields["overall_qual"] = "Overall quality must be between 1 and 10"
	}
	if f.GrLivArea < 0 {
		fields["gr_liv_area"] = "Area cannot be negative"
	}
	if f.GarageCars < 0 || f.GarageCars > 4 {
		fields["garage_cars"] = "Garage capacity must be between 0 and 4"
	}
	if f.TotalBsmtSF < 0 {
		fields["total_bsmt_sf"] = "Area cannot be negative"
	}
	if f.YearBuilt < 1900 || f.YearBuilt > 2030 {
		fields["year_built"] = "Year must be between 1900 and 2030"
	}
	return fields
}

type artifact struct {
	Version      string             `json:"version"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

var featureNames = []string{"overall_qual", "gr_liv_area", "garage_cars", "total_bsmt_sf", "year_built"}

// Predictor holds a loaded model. The zero value is the degraded state and
// answers every Predict call with ErrModelUnavailable.
type Predictor struct {
	intercept float64
	coef      map[string]float64
	version   string
	loaded    bool
}

// Unavailable returns a predictor in the degraded state, used when the
// artifact could not be loaded at startup.
func Unavailable() *Predictor {
	return &Predictor{}
}

// Load reads a model artifact from path. The artifact must carry a
// coefficient for every feature.
func Load(path string) (*Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	for _, name := range featureNames {
		if _, ok := a.Coefficients[name]; !ok {
			return nil, fmt.Errorf("model artifact missing coefficient %q", name)
		}
	}

	return &Predictor{
		intercept: a.Intercept,
		coef:      a.Coefficients,
		version:   a.Version,
		loaded:    true,
	}, nil
}

// Available reports whether a model artifact is loaded.
func (p *Predictor) Available() bool {
	return p.loaded
}

// Version returns the loaded artifact's version string.
func (p *Predictor) Version() string {
	return p.version
}

// Predict computes the price estimate for the given features. The caller is
// expected to have validated them first.
func (p *Predictor) Predict(f Features) (float64, error) {
	if !p.loaded {
		return 0, ErrModelUnavailable
	}

	estimate := p.intercept +
		p.coef["overall_qual"]*float64(f.OverallQual) +
		p.coef["gr_liv_area"]*float64(f.GrLivArea) +
		p.coef["garage_cars"]*float64(f.GarageCars) +
		p.coef["total_bsmt_sf"]*float64(f.TotalBsmtSF) +
		p.coef["year_built"]*float64(f.YearBuilt)

	return estimate, nil
}

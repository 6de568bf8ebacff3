package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"AMESAI_BACK-END/internal/dto"
	"AMESAI_BACK-END/internal/predictor"
	"AMESAI_BACK-END/internal/store"
)

func loadTestModel(t *testing.T) *predictor.Predictor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	artifact := `{
		"version": "test-1",
		"intercept": -791234.56,
		"coefficients": {
			"overall_qual": 23815.44,
			"gr_liv_area": 49.62,
			"garage_cars": 13977.1,
			"total_bsmt_sf": 31.27,
			"year_built": 353.58
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))
	p, err := predictor.Load(path)
	require.NoError(t, err)
	return p
}

func newPredictHandler(history *fakeHistory, model *predictor.Predictor) *PredictHandler {
	return NewPredictHandler(history, model, zap.NewNop().Sugar())
}

func TestPredictRecordsHistoryEntry(t *testing.T) {
	history := newFakeHistory()
	h := newPredictHandler(history, loadTestModel(t))
	aliceID := uuid.New()

	rec := httptest.NewRecorder()
	h.Predict(rec, authedRequest(http.MethodPost, "/api/predictions",
		jsonBody(t, dto.PredictRequest{OverallQual: 7, GrLivArea: 1500, GarageCars: 2, TotalBsmtSF: 1000, YearBuilt: 2000}),
		aliceID))

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeJSON[dto.PredictResponse](t, rec)
	assert.Greater(t, resp.Prediction, 0.0)
	assert.Equal(t, "test-1", resp.ModelVersion)
	require.NotNil(t, resp.Entry)

	entries, err := history.List(context.Background(), aliceID, nil, store.DefaultSort)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 7, entries[0].OverallQual)
	assert.Equal(t, 1500, entries[0].GrLivArea)
	assert.Equal(t, 2, entries[0].GarageCars)
	assert.Equal(t, 1000, entries[0].TotalBsmtSF)
	assert.Equal(t, 2000, entries[0].YearBuilt)
	assert.Equal(t, resp.Prediction, entries[0].Prediction)
}

func TestPredictRejectsNegativeArea(t *testing.T) {
	history := newFakeHistory()
	h := newPredictHandler(history, loadTestModel(t))

	rec := httptest.NewRecorder()
	h.Predict(rec, authedRequest(http.MethodPost, "/api/predictions",
		jsonBody(t, dto.PredictRequest{OverallQual: 5, GrLivArea: -500, GarageCars: 2, TotalBsmtSF: 800, YearBuilt: 2000}),
		uuid.New()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[dto.ValidationErrorResponse](t, rec)
	assert.Contains(t, resp.Fields, "gr_liv_area")

	// Nothing was persisted.
	assert.Empty(t, history.entries)
}

func TestPredictRejectsFutureYear(t *testing.T) {
	history := newFakeHistory()
	h := newPredictHandler(history, loadTestModel(t))

	rec := httptest.NewRecorder()
	h.Predict(rec, authedRequest(http.MethodPost, "/api/predictions",
		jsonBody(t, dto.PredictRequest{OverallQual: 5, GrLivArea: 1500, GarageCars: 2, TotalBsmtSF: 800, YearBuilt: 3000}),
		uuid.New()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[dto.ValidationErrorResponse](t, rec)
	assert.Contains(t, resp.Fields, "year_built")
	assert.Empty(t, history.entries)
}

func TestPredictRequiresPrincipal(t *testing.T) {
	h := newPredictHandler(newFakeHistory(), loadTestModel(t))

	rec := httptest.NewRecorder()
	h.Predict(rec, httptest.NewRequest(http.MethodPost, "/api/predictions",
		jsonBody(t, dto.PredictRequest{OverallQual: 7, GrLivArea: 1500, GarageCars: 2, TotalBsmtSF: 1000, YearBuilt: 2000})))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPredictModelUnavailable(t *testing.T) {
	history := newFakeHistory()
	h := newPredictHandler(history, predictor.Unavailable())

	rec := httptest.NewRecorder()
	h.Predict(rec, authedRequest(http.MethodPost, "/api/predictions",
		jsonBody(t, dto.PredictRequest{OverallQual: 7, GrLivArea: 1500, GarageCars: 2, TotalBsmtSF: 1000, YearBuilt: 2000}),
		uuid.New()))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, history.entries)
}

func TestPredictAnonymousDoesNotPersist(t *testing.T) {
	history := newFakeHistory()
	h := newPredictHandler(history, loadTestModel(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict",
		jsonBody(t, dto.PredictRequest{OverallQual: 7, GrLivArea: 1500, GarageCars: 2, TotalBsmtSF: 1000, YearBuilt: 2000}))
	h.PredictAnonymous(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[dto.PredictResponse](t, rec)
	assert.Greater(t, resp.Prediction, 0.0)
	assert.Nil(t, resp.Entry)
	assert.Empty(t, history.entries)
}

func TestPredictAnonymousValidates(t *testing.T) {
	h := newPredictHandler(newFakeHistory(), loadTestModel(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict",
		jsonBody(t, dto.PredictRequest{OverallQual: 0, GrLivArea: 1500, GarageCars: 2, TotalBsmtSF: 1000, YearBuilt: 2000}))
	h.PredictAnonymous(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[dto.ValidationErrorResponse](t, rec)
	assert.Contains(t, resp.Fields, "overall_qual")
}

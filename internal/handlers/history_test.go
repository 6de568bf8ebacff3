package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"AMESAI_BACK-END/internal/dto"
	"AMESAI_BACK-END/internal/models"
)

func newHistoryHandler(history *fakeHistory) *HistoryHandler {
	return NewHistoryHandler(history, zap.NewNop().Sugar())
}

func recordEntry(t *testing.T, history *fakeHistory, ownerID uuid.UUID, qual, area, garage, basement, year int, prediction float64) *models.HistoryEntry {
	t.Helper()
	entry, err := history.Record(context.Background(), &models.HistoryEntry{
		UserID:      ownerID,
		OverallQual: qual,
		GrLivArea:   area,
		GarageCars:  garage,
		TotalBsmtSF: basement,
		YearBuilt:   year,
		Prediction:  prediction,
		PredictedOn: time.Now(),
	})
	require.NoError(t, err)
	return entry
}

func TestListScopedToOwner(t *testing.T) {
	history := newFakeHistory()
	aliceID, bobID := uuid.New(), uuid.New()
	aliceEntry := recordEntry(t, history, aliceID, 7, 1500, 2, 1000, 2000, 200000)
	recordEntry(t, history, bobID, 5, 900, 1, 0, 1950, 120000)

	h := newHistoryHandler(history)
	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/history", nil, aliceID))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[dto.HistoryListResponse](t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, aliceEntry.ID.String(), resp.Entries[0].ID)
}

func TestListAppliesFilters(t *testing.T) {
	history := newFakeHistory()
	ownerID := uuid.New()
	match := recordEntry(t, history, ownerID, 7, 1500, 2, 1000, 2000, 200000)
	recordEntry(t, history, ownerID, 7, 1200, 1, 800, 2000, 150000)
	recordEntry(t, history, ownerID, 5, 1500, 2, 1000, 1980, 130000)

	h := newHistoryHandler(history)
	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/history?quality=7&garage=2", nil, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[dto.HistoryListResponse](t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, match.ID.String(), resp.Entries[0].ID)
}

func TestListIgnoresUnknownFilterParams(t *testing.T) {
	history := newFakeHistory()
	ownerID := uuid.New()
	recordEntry(t, history, ownerID, 7, 1500, 2, 1000, 2000, 200000)
	recordEntry(t, history, ownerID, 5, 900, 1, 0, 1950, 120000)

	h := newHistoryHandler(history)
	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/history?color=blue&quality=abc", nil, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[dto.HistoryListResponse](t, rec)
	assert.Equal(t, 2, resp.Count)
}

func TestListSortByPredictionDescending(t *testing.T) {
	history := newFakeHistory()
	ownerID := uuid.New()
	recordEntry(t, history, ownerID, 5, 900, 1, 0, 1950, 120000)
	recordEntry(t, history, ownerID, 7, 1500, 2, 1000, 2000, 200000)
	recordEntry(t, history, ownerID, 6, 1100, 2, 600, 1990, 160000)

	h := newHistoryHandler(history)
	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/history?sort=predicted_value&order=desc", nil, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)
	firstBody := rec.Body.String()
	resp := decodeJSON[dto.HistoryListResponse](t, rec)
	require.Equal(t, 3, resp.Count)
	for i := 1; i < len(resp.Entries); i++ {
		assert.GreaterOrEqual(t, resp.Entries[i-1].Prediction, resp.Entries[i].Prediction)
	}

	// Repeated calls on unchanged data return the same order.
	again := httptest.NewRecorder()
	h.List(again, authedRequest(http.MethodGet, "/api/history?sort=predicted_value&order=desc", nil, ownerID))
	assert.Equal(t, firstBody, again.Body.String())
}

func TestListUnknownSortKeyFallsBackToTimestamp(t *testing.T) {
	history := newFakeHistory()
	ownerID := uuid.New()
	older, err := history.Record(context.Background(), &models.HistoryEntry{
		UserID: ownerID, OverallQual: 5, GrLivArea: 900, YearBuilt: 1950,
		Prediction: 120000, PredictedOn: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	newer, err := history.Record(context.Background(), &models.HistoryEntry{
		UserID: ownerID, OverallQual: 7, GrLivArea: 1500, YearBuilt: 2000,
		Prediction: 200000, PredictedOn: time.Now(),
	})
	require.NoError(t, err)

	h := newHistoryHandler(history)
	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/history?sort=bogus", nil, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[dto.HistoryListResponse](t, rec)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, newer.ID.String(), resp.Entries[0].ID)
	assert.Equal(t, older.ID.String(), resp.Entries[1].ID)
}

func TestListRequiresPrincipal(t *testing.T) {
	h := newHistoryHandler(newFakeHistory())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteEntry(t *testing.T) {
	history := newFakeHistory()
	ownerID := uuid.New()
	entry := recordEntry(t, history, ownerID, 7, 1500, 2, 1000, 2000, 200000)

	h := newHistoryHandler(history)
	rec := httptest.NewRecorder()
	h.Entry(rec, authedRequest(http.MethodDelete, "/api/history/"+entry.ID.String(), nil, ownerID))

	require.Equal(t, http.StatusOK, rec.Code)
	_, err := history.Get(context.Background(), entry.ID)
	assert.Error(t, err)
}

func TestDeleteEntryOwnedByAnotherUser(t *testing.T) {
	history := newFakeHistory()
	aliceID, bobID := uuid.New(), uuid.New()
	bobEntry := recordEntry(t, history, bobID, 5, 900, 1, 0, 1950, 120000)

	h := newHistoryHandler(history)
	rec := httptest.NewRecorder()
	h.Entry(rec, authedRequest(http.MethodDelete, "/api/history/"+bobEntry.ID.String(), nil, aliceID))

	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The entry is left intact.
	_, err := history.Get(context.Background(), bobEntry.ID)
	assert.NoError(t, err)
}

func TestDeleteEntryNotFound(t *testing.T) {
	h := newHistoryHandler(newFakeHistory())

	rec := httptest.NewRecorder()
	h.Entry(rec, authedRequest(http.MethodDelete, "/api/history/"+uuid.NewString(), nil, uuid.New()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEntryInvalidID(t *testing.T) {
	h := newHistoryHandler(newFakeHistory())

	rec := httptest.NewRecorder()
	h.Entry(rec, authedRequest(http.MethodDelete, "/api/history/not-a-uuid", nil, uuid.New()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

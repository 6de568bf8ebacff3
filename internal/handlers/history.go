package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"AMESAI_BACK-END/internal/dto"
	"AMESAI_BACK-END/internal/middleware"
	"AMESAI_BACK-END/internal/store"
	"AMESAI_BACK-END/internal/utils"
)

// HistoryHandler manages the prediction history endpoints
type HistoryHandler struct {
	history store.History
	logger  *zap.SugaredLogger
}

// NewHistoryHandler creates a new HistoryHandler instance
func NewHistoryHandler(history store.History, logger *zap.SugaredLogger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger}
}

// List returns the caller's prediction history
// @Summary List own prediction history
// @Description Query params quality/area/garage/basement/year are exact-match filters; sort + order pick the ordering
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param quality query int false "Filter by overall quality"
// @Param area query int false "Filter by living area"
// @Param garage query int false "Filter by garage capacity"
// @Param basement query int false "Filter by basement area"
// @Param year query int false "Filter by construction year"
// @Param sort query string false "Sort key: timestamp, quality, area, garage, basement, year, predicted_value"
// @Param order query string false "asc or desc (default desc)"
// @Success 200 {object} dto.HistoryListResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/history [get]
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	query := r.URL.Query()
	filters := store.ParseFilters(query)
	sort := store.ParseSort(query.Get("sort"), query.Get("order"))

	entries, err := h.history.List(r.Context(), userID, filters, sort)
	if err != nil {
		h.logger.Errorw("list history", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to load history", "Please try again later")
		return
	}

	resp := dto.HistoryListResponse{Entries: make([]dto.HistoryEntryResponse, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.NewHistoryEntryResponse(&entries[i]))
	}
	resp.Count = len(resp.Entries)

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// Entry handles /api/history/{id}
// @Summary Delete one history entry
// @Description Deletes a single entry; only its owner may do so
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param id path string true "History entry id"
// @Success 200 {object} dto.MessageResponse "Entry deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Entry owned by another user"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Router /api/history/{id} [delete]
func (h *HistoryHandler) Entry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	idPart := strings.TrimPrefix(r.URL.Path, "/api/history/")
	entryID, err := uuid.Parse(idPart)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Entry not found", "Invalid history entry id")
		return
	}

	if err := h.history.Delete(r.Context(), entryID, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.WriteErrorResponse(w, http.StatusNotFound, "Entry not found", "No history entry with that id")
		case errors.Is(err, store.ErrForbidden):
			utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", "This entry belongs to another user")
		default:
			h.logger.Errorw("delete history entry", "err", err, "entry_id", entryID)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Deletion failed", "Please try again later")
		}
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Entry deleted"})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"AMESAI_BACK-END/internal/dto"
	"AMESAI_BACK-END/internal/middleware"
	"AMESAI_BACK-END/internal/models"
	"AMESAI_BACK-END/internal/predictor"
	"AMESAI_BACK-END/internal/store"
	"AMESAI_BACK-END/internal/utils"
)

// PredictHandler serves price estimates from the pre-trained model
type PredictHandler struct {
	history store.History
	model   *predictor.Predictor
	logger  *zap.SugaredLogger
}

// NewPredictHandler creates a new PredictHandler instance
func NewPredictHandler(history store.History, model *predictor.Predictor, logger *zap.SugaredLogger) *PredictHandler {
	return &PredictHandler{history: history, model: model, logger: logger}
}

func (h *PredictHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request) (dto.PredictRequest, bool) {
	var req dto.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return req, false
	}
	if fields := req.Features().Validate(); len(fields) > 0 {
		utils.WriteValidationErrorResponse(w, fields)
		return req, false
	}
	return req, true
}

// Predict computes an estimate and records it in the user's history
// @Summary Predict a house price
// @Description Validates the five features, computes an estimate, and persists a history entry
// @Tags predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PredictRequest true "Housing features"
// @Success 201 {object} dto.PredictResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid features"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 503 {object} dto.ErrorResponse "Model unavailable"
// @Router /api/predictions [post]
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}

	estimate, err := h.model.Predict(req.Features())
	if err != nil {
		if errors.Is(err, predictor.ErrModelUnavailable) {
			utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Prediction unavailable", "The pricing model is not loaded")
			return
		}
		h.logger.Errorw("predict", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Prediction failed", "Please try again later")
		return
	}

	entry, err := h.history.Record(r.Context(), &models.HistoryEntry{
		UserID:      userID,
		OverallQual: req.OverallQual,
		GrLivArea:   req.GrLivArea,
		GarageCars:  req.GarageCars,
		TotalBsmtSF: req.TotalBsmtSF,
		YearBuilt:   req.YearBuilt,
		Prediction:  estimate,
	})
	if err != nil {
		h.logger.Errorw("record history entry", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Prediction failed", "Please try again later")
		return
	}

	entryResp := dto.NewHistoryEntryResponse(entry)
	utils.WriteJSONResponse(w, http.StatusCreated, dto.PredictResponse{
		Prediction:   estimate,
		ModelVersion: h.model.Version(),
		Entry:        &entryResp,
	})
}

// PredictAnonymous computes an estimate without touching any user data
// @Summary Predict a house price (stateless)
// @Description JSON-in/JSON-out prediction; nothing is persisted
// @Tags predictions
// @Accept json
// @Produce json
// @Param request body dto.PredictRequest true "Housing features"
// @Success 200 {object} dto.PredictResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid features"
// @Failure 503 {object} dto.ErrorResponse "Model unavailable"
// @Router /api/predict [post]
func (h *PredictHandler) PredictAnonymous(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}

	estimate, err := h.model.Predict(req.Features())
	if err != nil {
		if errors.Is(err, predictor.ErrModelUnavailable) {
			utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Prediction unavailable", "The pricing model is not loaded")
			return
		}
		h.logger.Errorw("predict", "err", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Prediction failed", "Please try again later")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.PredictResponse{
		Prediction:   estimate,
		ModelVersion: h.model.Version(),
	})
}

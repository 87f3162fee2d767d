// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/laev/remem-api/internal/api/shared"
	"github.com/laev/remem-api/internal/platform/logger"
	"github.com/laev/remem-api/internal/service/review"
)

// ItemHandler handles review-item HTTP requests.
type ItemHandler struct {
	reviewService review.ReviewService
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(reviewService review.ReviewService, logger *slog.Logger) *ItemHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ItemHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		logger:        logger.With(slog.String("component", "item_handler")),
	}
}

// CreateItem handles POST /api/review-items requests.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req AddItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := h.reviewService.CreateItem(r.Context(), userID, req.MainText, req.SubText, req.Offset)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("item created",
		slog.String("user_id", userID.String()),
		slog.String("item_id", item.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// GetItems handles GET /api/review-items requests.
// Without a query parameter it returns every item of the caller together
// with its derived review state. With ?datetime=<RFC3339> it returns the
// plain items due at that instant.
func (h *ItemHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if raw := r.URL.Query().Get("datetime"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			log.Debug("invalid datetime query parameter", slog.String("value", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Invalid datetime: must be RFC3339")
			return
		}

		items, err := h.reviewService.ListDueAt(r.Context(), userID, at)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to list due items")
			return
		}

		responses := make([]ItemResponse, 0, len(items))
		for _, item := range items {
			responses = append(responses, itemToResponse(item))
		}
		shared.RespondWithJSON(w, r, http.StatusOK, responses)
		return
	}

	views, err := h.reviewService.ListAll(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list items")
		return
	}

	responses := make([]ItemViewResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, viewToResponse(view))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UpdateMemorization handles PATCH /api/review-items/{id}/memorization
// requests. It records a recall outcome for the item and responds with 204
// on success.
func (h *ItemHandler) UpdateMemorization(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	itemID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateMemorizationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	err = h.reviewService.RecordOutcome(r.Context(), userID, itemID, *req.IsMemorized, req.Offset)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("outcome recorded",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.Bool("is_memorized", *req.IsMemorized))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem handles DELETE /api/review-items/{id} requests.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	itemID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.reviewService.DeleteItem(r.Context(), userID, itemID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("item deleted",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()))
	w.WriteHeader(http.StatusNoContent)
}

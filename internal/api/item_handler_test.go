package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laev/remem-api/internal/api/shared"
	"github.com/laev/remem-api/internal/domain"
	"github.com/laev/remem-api/internal/domain/schedule"
	"github.com/laev/remem-api/internal/service/review"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newItemRequest builds a request with the authenticated user and chi URL
// parameters injected the way the router would.
func newItemRequest(
	method, target string,
	body []byte,
	userID uuid.UUID,
	itemID string,
) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	if itemID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", itemID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	if userID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))
	}

	return req
}

func TestCreateItem(t *testing.T) {
	userID := uuid.New()

	validBody := []byte(`{"main_text":"bonjour","sub_text":"hello","utc_offset":"+09:00"}`)

	tests := []struct {
		name           string
		userIDInCtx    uuid.UUID
		body           []byte
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Success",
			userIDInCtx:    userID,
			body:           validBody,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing User ID",
			userIDInCtx:    uuid.Nil,
			body:           validBody,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed JSON",
			userIDInCtx:    userID,
			body:           []byte(`{"main_text":`),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Main Text",
			userIDInCtx:    userID,
			body:           []byte(`{"sub_text":"hello","utc_offset":"+09:00"}`),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Offset",
			userIDInCtx:    userID,
			body:           []byte(`{"main_text":"bonjour"}`),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Offset",
			userIDInCtx:    userID,
			body:           []byte(`{"main_text":"bonjour","utc_offset":"+19:00"}`),
			serviceError:   schedule.ErrInvalidOffset,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service Failure",
			userIDInCtx:    userID,
			body:           validBody,
			serviceError:   errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &review.MockReviewService{
				CreateItemFunc: func(ctx context.Context, ownerID uuid.UUID, mainText, subText, offset string) (*domain.Item, error) {
					if tc.serviceError != nil {
						return nil, tc.serviceError
					}
					return &domain.Item{
						ID:          uuid.New(),
						OwnerID:     ownerID,
						MainText:    mainText,
						SubText:     subText,
						IsRecurring: true,
						CreatedAt:   time.Now().UTC(),
					}, nil
				},
			}

			handler := NewItemHandler(mockService, testLogger())
			req := newItemRequest(http.MethodPost, "/api/review-items", tc.body, tc.userIDInCtx, "")
			rr := httptest.NewRecorder()

			handler.CreateItem(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusCreated {
				var resp ItemResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, "bonjour", resp.MainText)
				assert.Equal(t, "hello", resp.SubText)
				assert.True(t, resp.IsRecurring)
				assert.NotEqual(t, uuid.Nil, resp.ID)
			}
		})
	}
}

func TestGetItems(t *testing.T) {
	userID := uuid.New()

	t.Run("list all returns derived views", func(t *testing.T) {
		item := &domain.Item{
			ID:          uuid.New(),
			OwnerID:     userID,
			MainText:    "bonjour",
			IsRecurring: true,
			CreatedAt:   time.Now().UTC(),
		}

		mockService := &review.MockReviewService{
			ListAllFunc: func(ctx context.Context, ownerID uuid.UUID) ([]*review.ItemView, error) {
				assert.Equal(t, userID, ownerID)
				return []*review.ItemView{
					{
						Item:           item,
						SuccessCount:   2,
						FailCount:      1,
						MemorizedDates: []time.Time{time.Now().UTC()},
					},
				}, nil
			},
		}

		handler := NewItemHandler(mockService, testLogger())
		req := newItemRequest(http.MethodGet, "/api/review-items", nil, userID, "")
		rr := httptest.NewRecorder()

		handler.GetItems(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		body := rr.Body.String()

		var views []ItemViewResponse
		require.NoError(t, json.NewDecoder(strings.NewReader(body)).Decode(&views))
		require.Len(t, views, 1)
		assert.Equal(t, item.ID, views[0].ID)
		assert.Equal(t, 2, views[0].SuccessCount)
		assert.Equal(t, 1, views[0].FailCount)
		assert.Len(t, views[0].MemorizedDates, 1)

		// Empty date slices serialize as arrays, not null.
		assert.Contains(t, body, `"upcoming_review_dates":[]`)
		assert.Contains(t, body, `"skipped_dates":[]`)
	})

	t.Run("datetime parameter lists due items", func(t *testing.T) {
		at := time.Date(2024, 11, 18, 12, 0, 0, 0, time.UTC)

		mockService := &review.MockReviewService{
			ListDueAtFunc: func(ctx context.Context, ownerID uuid.UUID, got time.Time) ([]*domain.Item, error) {
				assert.True(t, got.Equal(at))
				return []*domain.Item{
					{ID: uuid.New(), OwnerID: ownerID, MainText: "bonjour", IsRecurring: true},
				}, nil
			},
		}

		handler := NewItemHandler(mockService, testLogger())
		target := "/api/review-items?datetime=" + at.Format(time.RFC3339)
		req := newItemRequest(http.MethodGet, target, nil, userID, "")
		rr := httptest.NewRecorder()

		handler.GetItems(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var items []ItemResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, "bonjour", items[0].MainText)
	})

	t.Run("invalid datetime parameter", func(t *testing.T) {
		handler := NewItemHandler(&review.MockReviewService{}, testLogger())
		req := newItemRequest(http.MethodGet, "/api/review-items?datetime=yesterday", nil, userID, "")
		rr := httptest.NewRecorder()

		handler.GetItems(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing user ID", func(t *testing.T) {
		handler := NewItemHandler(&review.MockReviewService{}, testLogger())
		req := newItemRequest(http.MethodGet, "/api/review-items", nil, uuid.Nil, "")
		rr := httptest.NewRecorder()

		handler.GetItems(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUpdateMemorization(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	validBody := []byte(`{"is_memorized":true,"utc_offset":"Z"}`)

	tests := []struct {
		name           string
		userIDInCtx    uuid.UUID
		itemIDParam    string
		body           []byte
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Success",
			userIDInCtx:    userID,
			itemIDParam:    itemID.String(),
			body:           validBody,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Missing User ID",
			userIDInCtx:    uuid.Nil,
			itemIDParam:    itemID.String(),
			body:           validBody,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Item ID",
			userIDInCtx:    userID,
			itemIDParam:    "not-a-uuid",
			body:           validBody,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing is_memorized Field",
			userIDInCtx:    userID,
			itemIDParam:    itemID.String(),
			body:           []byte(`{"utc_offset":"Z"}`),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Item Not Found",
			userIDInCtx:    userID,
			itemIDParam:    itemID.String(),
			body:           validBody,
			serviceError:   review.ErrItemNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Item Not Owned",
			userIDInCtx:    userID,
			itemIDParam:    itemID.String(),
			body:           validBody,
			serviceError:   review.ErrItemNotOwned,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Concurrency Conflict",
			userIDInCtx:    userID,
			itemIDParam:    itemID.String(),
			body:           validBody,
			serviceError:   review.ErrConcurrencyConflict,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Outcome Already Recorded",
			userIDInCtx:    userID,
			itemIDParam:    itemID.String(),
			body:           validBody,
			serviceError:   review.ErrOutcomeAlreadyRecorded,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var recorded bool
			mockService := &review.MockReviewService{
				RecordOutcomeFunc: func(ctx context.Context, ownerID, gotItemID uuid.UUID, wasMemorized bool, offset string) error {
					recorded = true
					assert.Equal(t, userID, ownerID)
					assert.Equal(t, itemID, gotItemID)
					assert.True(t, wasMemorized)
					assert.Equal(t, "Z", offset)
					return tc.serviceError
				},
			}

			handler := NewItemHandler(mockService, testLogger())
			req := newItemRequest(http.MethodPatch,
				"/api/review-items/"+tc.itemIDParam+"/memorization",
				tc.body, tc.userIDInCtx, tc.itemIDParam)
			rr := httptest.NewRecorder()

			handler.UpdateMemorization(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusNoContent {
				assert.True(t, recorded, "expected the service to be called")
				assert.Zero(t, rr.Body.Len(), "expected empty body")
			}
		})
	}
}

func TestDeleteItem(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	tests := []struct {
		name           string
		userIDInCtx    uuid.UUID
		itemIDParam    string
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Success",
			userIDInCtx:    userID,
			itemIDParam:    itemID.String(),
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Missing User ID",
			userIDInCtx:    uuid.Nil,
			itemIDParam:    itemID.String(),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Item ID",
			userIDInCtx:    userID,
			itemIDParam:    "42",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Item Not Found",
			userIDInCtx:    userID,
			itemIDParam:    itemID.String(),
			serviceError:   review.ErrItemNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Item Not Owned",
			userIDInCtx:    userID,
			itemIDParam:    itemID.String(),
			serviceError:   review.ErrItemNotOwned,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &review.MockReviewService{
				DeleteItemFunc: func(ctx context.Context, ownerID, gotItemID uuid.UUID) error {
					assert.Equal(t, userID, ownerID)
					assert.Equal(t, itemID, gotItemID)
					return tc.serviceError
				},
			}

			handler := NewItemHandler(mockService, testLogger())
			req := newItemRequest(http.MethodDelete,
				"/api/review-items/"+tc.itemIDParam, nil, tc.userIDInCtx, tc.itemIDParam)
			rr := httptest.NewRecorder()

			handler.DeleteItem(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusNoContent {
				assert.Zero(t, rr.Body.Len(), "expected empty body")
			}
		})
	}
}

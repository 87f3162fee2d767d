package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/laev/remem-api/internal/domain"
	"github.com/laev/remem-api/internal/service/review"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT access token used for API authorization
	Token string `json:"token"`
}

// AddItemRequest defines the payload for creating a review item.
type AddItemRequest struct {
	MainText string `json:"main_text"  validate:"required"`
	SubText  string `json:"sub_text"`
	Offset   string `json:"utc_offset" validate:"required"`
}

// UpdateMemorizationRequest defines the payload for recording a recall
// outcome. IsMemorized is a pointer so that an absent field fails
// validation instead of defaulting to false.
type UpdateMemorizationRequest struct {
	IsMemorized *bool  `json:"is_memorized" validate:"required"`
	Offset      string `json:"utc_offset"   validate:"required"`
}

// ItemResponse represents the response data for a review item.
type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	MainText    string    `json:"main_text"`
	SubText     string    `json:"sub_text,omitempty"`
	IsRecurring bool      `json:"is_recurring"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemViewResponse extends ItemResponse with the derived review state the
// "list all" endpoint exposes.
type ItemViewResponse struct {
	ItemResponse

	SuccessCount        int         `json:"success_count"`
	FailCount           int         `json:"fail_count"`
	UpcomingReviewDates []time.Time `json:"upcoming_review_dates"`
	MemorizedDates      []time.Time `json:"memorized_dates"`
	NotMemorizedDates   []time.Time `json:"not_memorized_dates"`
	SkippedDates        []time.Time `json:"skipped_dates"`
}

// itemToResponse converts a domain item to its response form.
func itemToResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		MainText:    item.MainText,
		SubText:     item.SubText,
		IsRecurring: item.IsRecurring,
		CreatedAt:   item.CreatedAt,
	}
}

// viewToResponse converts a derived item view to its response form.
// Nil date slices are rendered as empty arrays, not null.
func viewToResponse(view *review.ItemView) ItemViewResponse {
	resp := ItemViewResponse{
		ItemResponse:        itemToResponse(view.Item),
		SuccessCount:        view.SuccessCount,
		FailCount:           view.FailCount,
		UpcomingReviewDates: view.UpcomingReviewDates,
		MemorizedDates:      view.MemorizedDates,
		NotMemorizedDates:   view.NotMemorizedDates,
		SkippedDates:        view.SkippedDates,
	}

	if resp.UpcomingReviewDates == nil {
		resp.UpcomingReviewDates = []time.Time{}
	}
	if resp.MemorizedDates == nil {
		resp.MemorizedDates = []time.Time{}
	}
	if resp.NotMemorizedDates == nil {
		resp.NotMemorizedDates = []time.Time{}
	}
	if resp.SkippedDates == nil {
		resp.SkippedDates = []time.Time{}
	}

	return resp
}

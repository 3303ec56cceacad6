package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/catalog"
	commentHttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"request_id"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
	}
}

// BookingRefResponse is the short booking shown next to an item.
type BookingRefResponse struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func newBookingRefResponse(ref *catalog.BookingRef) *BookingRefResponse {
	if ref == nil {
		return nil
	}
	return &BookingRefResponse{ID: ref.ID, BookerID: ref.BookerID, Start: ref.Start, End: ref.End}
}

// ItemViewResponse is an item with booking annotations and comments.
type ItemViewResponse struct {
	ItemResponse
	LastBooking *BookingRefResponse           `json:"last_booking"`
	NextBooking *BookingRefResponse           `json:"next_booking"`
	Comments    []commentHttp.CommentResponse `json:"comments"`
}

func NewItemViewResponse(v *catalog.ItemView) ItemViewResponse {
	return ItemViewResponse{
		ItemResponse: NewItemResponse(v.Item),
		LastBooking:  newBookingRefResponse(v.LastBooking),
		NextBooking:  newBookingRefResponse(v.NextBooking),
		Comments:     response.NewList(v.Comments, commentHttp.NewCommentResponse),
	}
}

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"request_id" binding:"omitempty,min=1"`
}

// Validate performs custom validation for CreateItemRequest.
func (r *CreateItemRequest) Validate() error {
	return nil
}

// UpdateItemRequest uses pointers to distinguish between "field not sent" and "field sent".
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// Validate performs custom validation for UpdateItemRequest.
func (r *UpdateItemRequest) Validate() error {
	return nil
}

// SearchItemsRequest defines query parameters for GET /items/search.
type SearchItemsRequest struct {
	request.ListParams
	Text string `form:"text"`
}

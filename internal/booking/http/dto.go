package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// Tag is a brief id + name reference to a related entity.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64     `json:"id"`
	Item   Tag       `json:"item"`
	Booker Tag       `json:"booker"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Item:   Tag{ID: b.ItemID, Name: b.ItemName},
		Booker: Tag{ID: b.BookerID, Name: b.BookerName},
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
	}
}

// CreateBookingRequest leaves the dates optional so that missing dates are reported
// as a booking date error rather than a binding error.
type CreateBookingRequest struct {
	ItemID int64      `json:"item_id" binding:"required,min=1"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// Validate performs custom validation for CreateBookingRequest.
func (r *CreateBookingRequest) Validate() error {
	return nil
}

// UpdateStatusRequest defines the query of PATCH /bookings/:id.
type UpdateStatusRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	State string `form:"state"`
}

// StateOrDefault returns the requested state, ALL when none was given.
func (r *ListBookingsRequest) StateOrDefault() string {
	if r.State == "" {
		return string(booking.StateAll)
	}
	return r.State
}

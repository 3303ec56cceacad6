package item

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(apperror.KindItemNotFound, http.StatusNotFound, "item not found")
	ErrNotOwner        = apperror.New(apperror.KindInvalidUser, http.StatusNotFound, "only the owner can edit the item")
	ErrRequestNotFound = apperror.New(apperror.KindRequestNotFound, http.StatusNotFound, "item request not found")
)

// Item is a thing a user offers for booking.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64 // request this item was listed in answer to, if any
	CreatedAt   time.Time
}

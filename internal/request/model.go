package request

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindRequestNotFound, http.StatusNotFound, "item request not found")
	ErrEmptyDescription = apperror.New(apperror.KindEmptyDescription, http.StatusBadRequest, "empty description")
)

// Request is a user's call for an item that is not listed yet.
type Request struct {
	ID          int64
	Description string
	RequesterID int64
	CreatedAt   time.Time

	// Items listed in answer to this request.
	Items []*item.Item
}

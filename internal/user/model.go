package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindUserNotFound, http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed = apperror.New(apperror.KindEmailConflict, http.StatusConflict, "email already used")
	ErrEmailRequired    = apperror.New(apperror.KindInvalidInput, http.StatusBadRequest, "email is required")
	ErrNameRequired     = apperror.New(apperror.KindInvalidInput, http.StatusBadRequest, "name is required")
)

// User represents a user in the system.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

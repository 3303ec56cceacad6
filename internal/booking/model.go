package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
)

var (
	ErrNotFound       = apperror.New(apperror.KindBookingNotFound, http.StatusNotFound, "booking not found")
	ErrNotParticipant = apperror.New(apperror.KindInvalidUser, http.StatusNotFound, "user is neither the owner nor the booker")
	ErrNotOwner       = apperror.New(apperror.KindInvalidUser, http.StatusNotFound, "only the item owner can change the booking status")
	ErrNotAvailable   = apperror.New(apperror.KindNotAvailable, http.StatusBadRequest, "item is not available")
	ErrWrongDate      = apperror.New(apperror.KindWrongDate, http.StatusBadRequest, "wrong booking dates")
	ErrAlreadyDecided = apperror.New(apperror.KindNotAllowedAction, http.StatusBadRequest, "booking status is already set")
	ErrUnknownState   = apperror.New(apperror.KindInvalidStatus, http.StatusBadRequest, "unknown state")

	// ErrOwnItem is returned when an owner tries to book their own item.
	// It carries the user-not-found kind and message so ownership is not revealed.
	ErrOwnItem = apperror.New(apperror.KindUserNotFound, http.StatusNotFound, "user not found")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// State selects a bucket of bookings relative to the current time or by status.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState parses a state filter. Matching is case-sensitive.
func ParseState(s string) (State, error) {
	switch st := State(s); st {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return st, nil
	default:
		return "", apperror.WithMessage(ErrUnknownState, "Unknown state: "+s)
	}
}

// Scope tells whose bookings a list covers.
type Scope int

const (
	ScopeBooker Scope = iota // bookings made by the user
	ScopeOwner               // bookings of the user's items
)

type Booking struct {
	ID         int64
	ItemID     int64
	ItemName   string
	OwnerID    int64
	BookerID   int64
	BookerName string
	Start      time.Time
	End        time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Filter struct {
	Scope  Scope
	UserID int64
	State  State
	Now    time.Time
	Page   pagination.Page
}

// Neighbours holds the approved bookings of one item closest to now on either side.
type Neighbours struct {
	Last *Booking // latest approved booking that started before now
	Next *Booking // earliest approved booking that starts after now
}

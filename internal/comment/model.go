package comment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrBlankText         = apperror.New(apperror.KindNotAllowedAction, http.StatusBadRequest, "comment text must not be blank")
	ErrNoFinishedBooking = apperror.New(apperror.KindNotAvailable, http.StatusBadRequest, "only users who have finished renting the item can comment")
)

type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	CreatedAt  time.Time
}

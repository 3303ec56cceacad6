package http

import (
	"time"

	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
	"github.com/nekogravitycat/shareit-backend/internal/request"
)

type RequestResponse struct {
	ID          int64                   `json:"id"`
	Description string                  `json:"description"`
	RequesterID int64                   `json:"requester_id"`
	Created     time.Time               `json:"created"`
	Items       []itemHttp.ItemResponse `json:"items"`
}

func NewRequestResponse(r *request.Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		RequesterID: r.RequesterID,
		Created:     r.CreatedAt,
		Items:       response.NewList(r.Items, itemHttp.NewItemResponse),
	}
}

// CreateRequestRequest carries the description. Blank descriptions are rejected by the service.
type CreateRequestRequest struct {
	Description string `json:"description"`
}

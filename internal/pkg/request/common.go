package request

import "github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	return nil
}

// ListParams holds the from/size query parameters shared by list endpoints.
// Range checks are left to the services so that the error kind stays consistent.
type ListParams struct {
	From *int `form:"from"`
	Size *int `form:"size"`
}

// Values returns from and size with defaults applied to missing parameters.
func (p ListParams) Values() (from, size int) {
	from, size = pagination.DefaultFrom, pagination.DefaultSize
	if p.From != nil {
		from = *p.From
	}
	if p.Size != nil {
		size = *p.Size
	}
	return from, size
}

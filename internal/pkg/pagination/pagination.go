// Package pagination converts from/size offsets into page requests.
package pagination

import (
	"net/http"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

const (
	DefaultFrom = 0
	DefaultSize = 10
)

var ErrIncorrect = apperror.New(apperror.KindIncorrectPagination, http.StatusBadRequest, "incorrect pagination")

// Page is a zero-based page index and page size.
//
// The index is from/size (integer division), so a from that is not a multiple of
// size selects the page containing it rather than skipping exactly from rows.
type Page struct {
	Index int
	Size  int
}

// New validates from and size and converts them into a Page.
func New(from, size int) (Page, error) {
	if from < 0 || size < 1 {
		return Page{}, ErrIncorrect
	}
	return Page{Index: from / size, Size: size}, nil
}

// Offset returns the number of rows before the page.
func (p Page) Offset() uint64 {
	return uint64(p.Index) * uint64(p.Size)
}

// Limit returns the number of rows in the page.
func (p Page) Limit() uint64 {
	return uint64(p.Size)
}

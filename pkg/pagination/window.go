package pagination

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned when a page window violates page >= 1 or
// page_size > 0.
var ErrInvalidWindow = errors.New("invalid page window")

// FirstPage is the index of the first page. Pages are 1-indexed.
const FirstPage = 1

// Window identifies one page of a listing.
type Window struct {
	Page     int
	PageSize int
}

// Validate checks the window invariants.
func (w Window) Validate() error {
	if w.Page < FirstPage {
		return fmt.Errorf("%w: page must be >= %d (got %d)", ErrInvalidWindow, FirstPage, w.Page)
	}
	if w.PageSize <= 0 {
		return fmt.Errorf("%w: page_size must be > 0 (got %d)", ErrInvalidWindow, w.PageSize)
	}
	return nil
}

// WithDefaults fills zero fields with page 1 and the given page size.
func (w Window) WithDefaults(pageSize int) Window {
	if w.Page == 0 {
		w.Page = FirstPage
	}
	if w.PageSize == 0 {
		w.PageSize = pageSize
	}
	return w
}

// Offset returns the index of the first item on the page. It overflows for
// windows far past any real collection; Paginate checks the page index first.
func (w Window) Offset() int {
	return (w.Page - 1) * w.PageSize
}

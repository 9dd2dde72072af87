package pagination

import (
	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
)

// LastPage returns ceil(total/pageSize), or 1 for an empty collection.
func LastPage(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return FirstPage
	}
	last := total / pageSize
	if total%pageSize != 0 {
		last++
	}
	return max(last, FirstPage)
}

// BuildMetadata synthesizes backend-shaped metadata for a window over total
// records. CurrentPage echoes the requested page even when it is past the
// last page.
func BuildMetadata(total int, w Window) catalog.Metadata {
	return catalog.Metadata{
		CurrentPage:  w.Page,
		PageSize:     w.PageSize,
		FirstPage:    FirstPage,
		LastPage:     LastPage(total, w.PageSize),
		TotalRecords: total,
	}
}

// Paginate returns the items inside the window and the matching metadata.
// A window past the end yields an empty, non-nil page. The window must be
// valid.
func Paginate[T any](items []T, w Window) ([]T, catalog.Metadata) {
	meta := BuildMetadata(len(items), w)

	// Check the page index before computing Offset.
	if len(items) == 0 || w.Page-1 > (len(items)-1)/w.PageSize {
		return []T{}, meta
	}
	start := w.Offset()
	end := start + min(w.PageSize, len(items)-start)

	page := make([]T, end-start)
	copy(page, items[start:end])
	return page, meta
}

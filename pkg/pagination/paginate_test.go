package pagination

import (
	"errors"
	"math"
	"testing"
)

func ids(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPaginate_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		items        []int
		window       Window
		expectedPage []int
		lastPage     int
	}{
		{
			name:         "single category fits one page",
			items:        ids(5),
			window:       Window{Page: 1, PageSize: 12},
			expectedPage: []int{1, 2, 3, 4, 5},
			lastPage:     1,
		},
		{
			name:         "middle page",
			items:        ids(5),
			window:       Window{Page: 2, PageSize: 2},
			expectedPage: []int{3, 4},
			lastPage:     3,
		},
		{
			name:         "short last page",
			items:        ids(5),
			window:       Window{Page: 3, PageSize: 2},
			expectedPage: []int{5},
			lastPage:     3,
		},
		{
			name:         "out of range page",
			items:        ids(5),
			window:       Window{Page: 10, PageSize: 2},
			expectedPage: []int{},
			lastPage:     3,
		},
		{
			name:         "empty collection",
			items:        nil,
			window:       Window{Page: 1, PageSize: 12},
			expectedPage: []int{},
			lastPage:     1,
		},
		{
			name:         "page far past the end",
			items:        ids(5),
			window:       Window{Page: math.MaxInt, PageSize: 2},
			expectedPage: []int{},
			lastPage:     3,
		},
		{
			name:         "huge page and size",
			items:        ids(5),
			window:       Window{Page: math.MaxInt / 2, PageSize: math.MaxInt / 2},
			expectedPage: []int{},
			lastPage:     1,
		},
		{
			name:         "page size near max",
			items:        ids(5),
			window:       Window{Page: 1, PageSize: math.MaxInt},
			expectedPage: []int{1, 2, 3, 4, 5},
			lastPage:     1,
		},
		{
			name:         "exact multiple",
			items:        ids(6),
			window:       Window{Page: 2, PageSize: 3},
			expectedPage: []int{4, 5, 6},
			lastPage:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, meta := Paginate(tt.items, tt.window)

			if page == nil {
				t.Fatal("Paginate() returned nil page, want non-nil")
			}
			if !equalInts(page, tt.expectedPage) {
				t.Errorf("page = %v, want %v", page, tt.expectedPage)
			}
			if meta.CurrentPage != tt.window.Page {
				t.Errorf("CurrentPage = %d, want %d", meta.CurrentPage, tt.window.Page)
			}
			if meta.PageSize != tt.window.PageSize {
				t.Errorf("PageSize = %d, want %d", meta.PageSize, tt.window.PageSize)
			}
			if meta.FirstPage != 1 {
				t.Errorf("FirstPage = %d, want 1", meta.FirstPage)
			}
			if meta.LastPage != tt.lastPage {
				t.Errorf("LastPage = %d, want %d", meta.LastPage, tt.lastPage)
			}
			if meta.TotalRecords != len(tt.items) {
				t.Errorf("TotalRecords = %d, want %d", meta.TotalRecords, len(tt.items))
			}
		})
	}
}

func TestPaginate_LengthInvariant(t *testing.T) {
	for total := 0; total <= 25; total++ {
		items := ids(total)
		for size := 1; size <= 7; size++ {
			for page := 1; page <= 8; page++ {
				got, meta := Paginate(items, Window{Page: page, PageSize: size})

				expected := min(size, max(0, total-(page-1)*size))
				if len(got) != expected {
					t.Fatalf("total=%d size=%d page=%d: len = %d, want %d", total, size, page, len(got), expected)
				}

				expectedLast := 1
				if total > 0 {
					expectedLast = (total + size - 1) / size
				}
				if meta.LastPage != expectedLast {
					t.Fatalf("total=%d size=%d: LastPage = %d, want %d", total, size, meta.LastPage, expectedLast)
				}
			}
		}
	}
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	items := ids(4)
	page, _ := Paginate(items, Window{Page: 1, PageSize: 2})
	page[0] = 99

	if items[0] != 1 {
		t.Errorf("input mutated through page: %v", items)
	}
}

func TestWindow_Validate(t *testing.T) {
	tests := []struct {
		name        string
		window      Window
		expectError bool
	}{
		{"valid", Window{Page: 1, PageSize: 12}, false},
		{"page zero", Window{Page: 0, PageSize: 12}, true},
		{"negative page", Window{Page: -1, PageSize: 12}, true},
		{"size zero", Window{Page: 1, PageSize: 0}, true},
		{"negative size", Window{Page: 2, PageSize: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if tt.expectError {
				if !errors.Is(err, ErrInvalidWindow) {
					t.Errorf("Validate() = %v, want ErrInvalidWindow", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestWindow_WithDefaults(t *testing.T) {
	w := Window{}.WithDefaults(20)
	if w.Page != 1 || w.PageSize != 20 {
		t.Errorf("WithDefaults = %+v, want {1 20}", w)
	}

	w = Window{Page: 3, PageSize: 5}.WithDefaults(20)
	if w.Page != 3 || w.PageSize != 5 {
		t.Errorf("WithDefaults overrode explicit values: %+v", w)
	}

	w = Window{Page: -1}.WithDefaults(20)
	if w.Validate() == nil {
		t.Error("negative page must stay invalid after WithDefaults")
	}
}

func TestLastPage(t *testing.T) {
	tests := []struct {
		total, size, expected int
	}{
		{0, 12, 1},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{100, 100, 1},
		{101, 100, 2},
		{5, math.MaxInt, 1},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt, math.MaxInt - 1, 2},
	}

	for _, tt := range tests {
		if got := LastPage(tt.total, tt.size); got != tt.expected {
			t.Errorf("LastPage(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.expected)
		}
	}
}

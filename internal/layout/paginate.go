package layout

import "errors"

var ErrInvalidCapacity = errors.New("capacity must be positive")

type Pagination[T any] struct {
	TotalPages int
	Pages      [][]T
}

// Paginate splits rows into consecutive pages of at most capacity rows.
// Empty input still yields one empty page.
func Paginate[T any](rows []T, capacity int) (Pagination[T], error) {
	if capacity <= 0 {
		return Pagination[T]{}, ErrInvalidCapacity
	}
	if len(rows) == 0 {
		return Pagination[T]{TotalPages: 1, Pages: [][]T{{}}}, nil
	}

	total := (len(rows) + capacity - 1) / capacity
	pages := make([][]T, 0, total)
	for start := 0; start < len(rows); start += capacity {
		end := min(start+capacity, len(rows))
		page := make([]T, end-start)
		copy(page, rows[start:end])
		pages = append(pages, page)
	}
	return Pagination[T]{TotalPages: total, Pages: pages}, nil
}

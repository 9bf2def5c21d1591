package service

import "math"

const (
	filterAll       = "all"
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
	// maxPage keeps (page-1)*maxPageSize within int.
	maxPage = math.MaxInt/maxPageSize + 1
)

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func totalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

package shared

// NormalizePagination clamps page/pageSize. A pageSize of 0 keeps the
// unpaginated listing behavior.
func NormalizePagination(page, pageSize int) (int, int) {
	if pageSize <= 0 {
		return 1, 0
	}
	if page < 1 {
		page = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

package news

// MaxDisplayPages caps how many page links a listing shows, whatever the
// upstream total.
const MaxDisplayPages = 12

// CountPages returns ceil(totalResults / pageSize) using integer arithmetic.
// Non-positive inputs yield 0 pages.
func CountPages(totalResults, pageSize int) int {
	if totalResults <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalResults + pageSize - 1) / pageSize
}

// Clamp bounds requested to totalPages. When totalPages is 0 there is no
// known upper bound and requested is returned unchanged. Callers redirect
// requested < 1 to page 1 before clamping.
func Clamp(requested, totalPages int) int {
	if totalPages >= 1 && requested > totalPages {
		return totalPages
	}
	return requested
}

// DisplayPages is the number of page links shown for totalPages.
func DisplayPages(totalPages int) int {
	return min(totalPages, MaxDisplayPages)
}

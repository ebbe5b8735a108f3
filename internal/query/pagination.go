package query

// Paginate clamps a page/per-page pair and converts it to limit/offset.
// Page values below 1 snap to the first page; perPage is bounded to [1, max].
func Paginate(page, perPage, max int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > max {
		perPage = max
	}
	return perPage, (page - 1) * perPage
}

// ClampPage returns the effective page number after clamping, so responses
// echo the page that was actually served.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

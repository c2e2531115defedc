package utils

// Page sizes accepted by list endpoints.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ClampPerPage falls back to DefaultPerPage below 1 and caps at MaxPerPage.
func ClampPerPage(perPage int) int {
	switch {
	case perPage < 1:
		return DefaultPerPage
	case perPage > MaxPerPage:
		return MaxPerPage
	default:
		return perPage
	}
}

// PageCount is the number of pages needed for total rows.
func PageCount(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// PageOffset treats pages below 1 as the first page.
func PageOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

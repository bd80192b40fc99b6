package function

import "strconv"

// CheckPage parses the page query parameter. Missing or non-numeric values
// fall back to the first page.
func CheckPage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// CheckID parses an integer path segment such as a question or category id.
func CheckID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

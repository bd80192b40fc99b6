package function

const QuestionsPerPage = 10

// Paginate returns items[(page-1)*QuestionsPerPage : page*QuestionsPerPage]
// clipped to the slice. Pages past the end, or below 1, are empty.
func Paginate[T any](items []T, page int) []T {
	// compare before multiplying, a huge page would overflow the offset
	if page < 1 || page-1 >= (len(items)+QuestionsPerPage-1)/QuestionsPerPage {
		return []T{}
	}
	start := (page - 1) * QuestionsPerPage
	end := min(start+QuestionsPerPage, len(items))
	return items[start:end]
}

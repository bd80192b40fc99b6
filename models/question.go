package models

// Question is stored as-is from the create request, so every column but the id may be NULL.
type Question struct {
	ID         int     `json:"id" gorm:"primary_key"`
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *int    `json:"category"`
	Difficulty *int    `json:"difficulty"`
}

// QuestionFilter narrows a question query. Zero value selects every question.
type QuestionFilter struct {
	Category *int
	// case-insensitive substring of the question text
	Search  string
	Exclude []int
}

// InCategory returns a filter for one category id.
func InCategory(id int) QuestionFilter {
	return QuestionFilter{Category: &id}
}

package models

const (
	EventQuestionCreated = "question.created"
	EventQuestionDeleted = "question.deleted"
)

type QuestionEvent struct {
	Type           string `json:"type"`
	QuestionID     int    `json:"question_id"`
	TotalQuestions *int   `json:"total_questions,omitempty"`
}

package models

// Answer is one selectable option of a quiz question.
type Answer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a quiz question with its ordered answers.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

// AnswerSubmission is one answered question in the check-test payload.
// Unanswered questions are omitted from the payload entirely.
type AnswerSubmission struct {
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId"`
}

package models

// Student is the identity-like summary the leaderboard endpoint returns.
// The flag fields are optional there, so they stay plain booleans that
// default to false when omitted.
type Student struct {
	SubjectID         string `json:"id"`
	TelegramID        string `json:"telegramId"`
	Username          string `json:"username"`
	Group             string `json:"group"`
	Coins             int    `json:"coins"`
	IsTranscribed     bool   `json:"isTranscribed,omitempty"`
	IsTexted          bool   `json:"isTexted,omitempty"`
	IsImageGeneration bool   `json:"isImageGeneration,omitempty"`
	IsAr              bool   `json:"isAr,omitempty"`
	IsQuiz            bool   `json:"isQuiz,omitempty"`
}

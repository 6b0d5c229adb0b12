package models

// Identity is the authenticated user record returned by the event API.
// Coins and the reward flags are server-authoritative: the client never
// computes them, it only replaces its copy with server responses.
type Identity struct {
	SubjectID         string `json:"id"`
	TelegramID        string `json:"telegramId"`
	Username          string `json:"username"`
	Group             string `json:"group"`
	Coins             int    `json:"coins"`
	AvatarURL         string `json:"avatarUrl,omitempty"`
	IsTranscribed     bool   `json:"isTranscribed"`
	IsTexted          bool   `json:"isTexted"`
	IsImageGeneration bool   `json:"isImageGeneration"`
	IsAr              bool   `json:"isAr"`
	IsQuiz            bool   `json:"isQuiz"`
}

// Clone returns a copy so callers can't mutate stored state through a pointer.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// Feature names a one-time activity whose completion flag lives on Identity.
type Feature string

const (
	FeatureTranscribed     Feature = "isTranscribed"
	FeatureTexted          Feature = "isTexted"
	FeatureImageGeneration Feature = "isImageGeneration"
	FeatureAr              Feature = "isAr"
	FeatureQuiz            Feature = "isQuiz"
)

// Features lists every claimable feature in a stable order.
func Features() []Feature {
	return []Feature{
		FeatureTranscribed,
		FeatureTexted,
		FeatureImageGeneration,
		FeatureAr,
		FeatureQuiz,
	}
}

// Valid reports whether f is one of the known features.
func (f Feature) Valid() bool {
	switch f {
	case FeatureTranscribed, FeatureTexted, FeatureImageGeneration, FeatureAr, FeatureQuiz:
		return true
	}
	return false
}

// Label returns the user-facing name of the activity.
func (f Feature) Label() string {
	switch f {
	case FeatureTranscribed:
		return "Audio → Text"
	case FeatureTexted:
		return "Text → Text"
	case FeatureImageGeneration:
		return "Text → Image"
	case FeatureAr:
		return "AR activity"
	case FeatureQuiz:
		return "Quiz"
	default:
		return string(f)
	}
}

// Flag reads the completion flag for f from the identity.
func (i *Identity) Flag(f Feature) bool {
	if i == nil {
		return false
	}
	switch f {
	case FeatureTranscribed:
		return i.IsTranscribed
	case FeatureTexted:
		return i.IsTexted
	case FeatureImageGeneration:
		return i.IsImageGeneration
	case FeatureAr:
		return i.IsAr
	case FeatureQuiz:
		return i.IsQuiz
	}
	return false
}

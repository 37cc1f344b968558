package wizard

import (
	"slices"
	"strings"
	"time"
)

// OtherPrefix marks the free text entry of a multi-select question.
const OtherPrefix = "Other: "

// Answers maps question ids to a string, or a string list for multi-select
// questions.
type Answers map[string]any

// Text returns the answer of a single value question.
func (a Answers) Text(id string) string {
	s, _ := a[id].(string)
	return s
}

// List returns the selected options of a multi-select question, the other
// entry included.
func (a Answers) List(id string) []string {
	switch v := a[id].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Other returns the free text of a multi-select question without prefix.
func (a Answers) Other(id string) string {
	for _, v := range a.List(id) {
		if text, ok := strings.CutPrefix(v, OtherPrefix); ok {
			return text
		}
	}
	return ""
}

func (a Answers) empty(id string) bool {
	switch v := a[id].(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return len(a.List(id)) == 0
	}
}

func (a Answers) clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		if list, ok := v.([]string); ok {
			v = slices.Clone(list)
		} else if _, ok := v.([]any); ok {
			v = a.List(k)
		}
		out[k] = v
	}
	return out
}

// StartInfo is collected before the questionnaire starts.
type StartInfo struct {
	Industry string `json:"industry"`
	Country  string `json:"country"`
}

// Session is the persisted state of one questionnaire run.
type Session struct {
	ID          string    `json:"id"`
	Industry    string    `json:"industry"`
	Country     string    `json:"country"`
	Answers     Answers   `json:"answers"`
	StepIndex   int       `json:"stepIndex"`
	LastDraftID string    `json:"lastDraftId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the session outlived its TTL at now. A zero
// ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) answers() Answers {
	if s.Answers == nil {
		s.Answers = Answers{}
	}
	return s.Answers
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Answers = s.Answers.clone()
	return &out
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// House is one of the four sorting categories.
type House string

const (
	Gryffindor House = "Gryffindor"
	Hufflepuff House = "Hufflepuff"
	Ravenclaw  House = "Ravenclaw"
	Slytherin  House = "Slytherin"
)

var houses = [...]House{Gryffindor, Hufflepuff, Ravenclaw, Slytherin}

// Houses returns the houses in canonical order. The first entry wins an all-zero tally.
func Houses() []House {
	out := make([]House, len(houses))
	copy(out, houses[:])
	return out
}

// Wire returns the upper-case form the profile service expects.
func (h House) Wire() string {
	return strings.ToUpper(string(h))
}

// ParseHouse accepts a house name in any casing.
func ParseHouse(raw string) (House, error) {
	for _, h := range houses {
		if strings.EqualFold(string(h), strings.TrimSpace(raw)) {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownHouse, raw)
}

// isHouse reports whether h is exactly one of the canonical names. Tally keys
// are compared verbatim, so weights must use them.
func isHouse(h House) bool {
	for _, c := range houses {
		if c == h {
			return true
		}
	}
	return false
}

// User identifies the player being sorted. SessionID scopes the access token
// to the connection or command that supplied it; an empty SessionID never
// resolves a credential.
type User struct {
	ID        string
	Username  string
	SessionID string
}

// AnswerOption is a selectable answer; houses missing from Points contribute nothing.
type AnswerOption struct {
	Text   string        `json:"text"`
	Points map[House]int `json:"housePoints"`
}

// Question models a sorting question with its ordered options.
type Question struct {
	ID      int            `json:"id"`
	Prompt  string         `json:"text"`
	Options []AnswerOption `json:"options"`
}

// QuestionBank is the ordered question set served to every quiz attempt.
type QuestionBank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Validate checks the invariants the engine relies on.
func (b QuestionBank) Validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("%w: bank %q has no questions", ErrInvalidQuestionBank, b.ID)
	}
	seen := make(map[int]struct{}, len(b.Questions))
	for _, q := range b.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuestionBank, q.ID)
		}
		seen[q.ID] = struct{}{}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", ErrInvalidQuestionBank, q.ID)
		}
		for _, opt := range q.Options {
			for h, pts := range opt.Points {
				if !isHouse(h) {
					return fmt.Errorf("%w: question %d: %w: %q", ErrInvalidQuestionBank, q.ID, ErrUnknownHouse, h)
				}
				if pts <= 0 {
					return fmt.Errorf("%w: question %d awards %d to %s", ErrInvalidQuestionBank, q.ID, pts, h)
				}
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate shared configuration.
func (b QuestionBank) Clone() QuestionBank {
	out := QuestionBank{ID: b.ID, Questions: make([]Question, len(b.Questions))}
	for i, q := range b.Questions {
		cq := Question{ID: q.ID, Prompt: q.Prompt, Options: make([]AnswerOption, len(q.Options))}
		for j, opt := range q.Options {
			points := make(map[House]int, len(opt.Points))
			for h, p := range opt.Points {
				points[h] = p
			}
			cq.Options[j] = AnswerOption{Text: opt.Text, Points: points}
		}
		out.Questions[i] = cq
	}
	return out
}

// Tally accumulates house points for one quiz attempt.
type Tally map[House]int

// Add sums an option's points into the tally component-wise.
func (t Tally) Add(points map[House]int) {
	for h, p := range points {
		t[h] += p
	}
}

// Score returns the house score, zero when absent.
func (t Tally) Score(h House) int {
	return t[h]
}

// Profile is the updated player profile returned by the profile service.
type Profile struct {
	ID               int64    `json:"id"`
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	House            House    `json:"house"`
	HouseDisplay     string   `json:"houseDisplay,omitempty"`
	Level            int      `json:"level"`
	XP               int      `json:"xp"`
	AvatarURL        string   `json:"avatarUrl,omitempty"`
	CurrentLatitude  *float64 `json:"currentLatitude,omitempty"`
	CurrentLongitude *float64 `json:"currentLongitude,omitempty"`
	LastSeen         string   `json:"lastSeen,omitempty"`
}

// SortingResult is the recorded outcome of a successful assignment.
type SortingResult struct {
	UserID     string    `json:"userId"`
	House      House     `json:"house"`
	Random     bool      `json:"random"`
	AssignedAt time.Time `json:"assignedAt"`
}

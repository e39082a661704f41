package queries

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
)

const (
	feedbackTable = "feedback"

	// MinFeedbackLength and MaxFeedbackLength bound feedback text, in runes.
	MinFeedbackLength = 10
	MaxFeedbackLength = 500
)

// InvalidFeedbackError rejects feedback text before it reaches the backend.
// Key is the message catalog key describing the problem; Limit is the bound
// that was crossed.
type InvalidFeedbackError struct {
	Key   string
	Limit int
}

func (e *InvalidFeedbackError) Error() string {
	return fmt.Sprintf("invalid feedback: %s (limit %d)", e.Key, e.Limit)
}

// ValidateFeedback checks the trimmed text length.
func ValidateFeedback(text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	switch {
	case n < MinFeedbackLength:
		return &InvalidFeedbackError{Key: "feedback.too_short", Limit: MinFeedbackLength}
	case n > MaxFeedbackLength:
		return &InvalidFeedbackError{Key: "feedback.too_long", Limit: MaxFeedbackLength}
	}
	return nil
}

type feedbackRow struct {
	Feedback string  `json:"feedback"`
	UserID   *string `json:"user_id"`
}

// Feedback submits user feedback.
type Feedback struct {
	remote backend.Tables
}

func NewFeedback(remote backend.Tables) *Feedback {
	return &Feedback{remote: remote}
}

// Submit validates and stores text. An empty userID stores an anonymous row.
func (f *Feedback) Submit(ctx context.Context, text, userID string) error {
	if err := ValidateFeedback(text); err != nil {
		return err
	}
	row := feedbackRow{Feedback: strings.TrimSpace(text)}
	if id := strings.TrimSpace(userID); id != "" {
		row.UserID = &id
	}
	if err := f.remote.Execute(ctx, backend.From(feedbackTable).Insert([]feedbackRow{row}), nil); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	return nil
}

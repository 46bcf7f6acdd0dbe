package assessment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInsufficientQuestions  = errors.New("insufficient core questions")
	ErrMissingAttentionChecks = errors.New("missing attention checks")
	ErrCorruptQuestionSet     = errors.New("corrupt question set")
	ErrInvalidAnswerValue     = errors.New("invalid answer value")
	ErrUnknownQuestionID      = errors.New("unknown question id")
	ErrIncompleteAssessment   = errors.New("incomplete assessment")
)

// IncompleteError is returned by Finalize when answers are missing.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %d unanswered (%s)", ErrIncompleteAssessment, len(e.Missing), strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncompleteAssessment
}

package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"valid-assessment-backend/internal/assessment"
)

// Question is a question bank row. Dimension is stored as its long name and
// mapped through assessment.ParseDimension when the bank is loaded.
type Question struct {
	ID            uint      `json:"-" gorm:"primaryKey"`
	QuestionID    string    `json:"id" gorm:"column:question_id;not null;uniqueIndex"`
	Text          string    `json:"text" gorm:"not null"`
	Dimension     string    `json:"dimension" gorm:"not null;index"`
	Category      string    `json:"category"`
	Reverse       bool      `json:"reverse" gorm:"default:false"`
	CorrectAnswer *int      `json:"correct_answer,omitempty"`
	Position      int       `json:"-" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewQuestion converts a core question into a row.
func NewQuestion(q assessment.Question, position int) Question {
	return Question{
		QuestionID:    q.ID,
		Text:          q.Text,
		Dimension:     q.Dimension.String(),
		Category:      q.Category,
		Reverse:       q.Reverse,
		CorrectAnswer: q.CorrectAnswer,
		Position:      position,
	}
}

// ToAssessment maps the row back to a core question.
func (q Question) ToAssessment() (assessment.Question, error) {
	d, err := assessment.ParseDimension(q.Dimension)
	if err != nil {
		return assessment.Question{}, fmt.Errorf("question %s: %w", q.QuestionID, err)
	}
	return assessment.Question{
		ID:            q.QuestionID,
		Text:          q.Text,
		Dimension:     d,
		Category:      q.Category,
		Reverse:       q.Reverse,
		CorrectAnswer: q.CorrectAnswer,
	}, nil
}

// AssessmentRecord is a persisted completion snapshot.
type AssessmentRecord struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SessionID    string         `json:"session_id" gorm:"not null;unique"`
	Email        string         `json:"email" gorm:"index"`
	Persona      string         `json:"persona" gorm:"index"`
	Secondary    string         `json:"secondary"`
	Confidence   string         `json:"confidence"`
	Verdict      string         `json:"verdict"`
	Demographics datatypes.JSON `json:"demographics" gorm:"type:jsonb"`
	Answers      datatypes.JSON `json:"answers" gorm:"type:jsonb"`
	Scores       datatypes.JSON `json:"scores" gorm:"type:jsonb"`
	Quality      datatypes.JSON `json:"quality" gorm:"type:jsonb"`
	Flags        datatypes.JSON `json:"flags" gorm:"type:jsonb"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at" gorm:"index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewAssessmentRecord flattens a snapshot and its quality verdict into a row.
func NewAssessmentRecord(snap assessment.Snapshot, qa assessment.QualityAssessment) (*AssessmentRecord, error) {
	rec := &AssessmentRecord{
		SessionID:   snap.SessionID,
		Email:       snap.Demographics.Email,
		Persona:     string(snap.Persona.Primary),
		Secondary:   string(snap.Persona.Secondary),
		Confidence:  string(snap.Persona.Confidence),
		Verdict:     string(qa.Verdict),
		StartedAt:   snap.StartedAt,
		CompletedAt: snap.CompletedAt,
	}
	fields := []struct {
		dst *datatypes.JSON
		v   interface{}
	}{
		{&rec.Demographics, snap.Demographics},
		{&rec.Answers, snap.Answers},
		{&rec.Scores, snap.Scores},
		{&rec.Quality, snap.Quality},
		{&rec.Flags, qa.Flags},
	}
	for _, f := range fields {
		raw, err := json.Marshal(f.v)
		if err != nil {
			return nil, fmt.Errorf("encode record %s: %w", snap.SessionID, err)
		}
		*f.dst = datatypes.JSON(raw)
	}
	return rec, nil
}

// Snapshot decodes the row back into the core snapshot.
func (r *AssessmentRecord) Snapshot() (assessment.Snapshot, error) {
	snap := assessment.Snapshot{
		SessionID: r.SessionID,
		Persona: assessment.PersonaResult{
			Primary:    assessment.Persona(r.Persona),
			Secondary:  assessment.Persona(r.Secondary),
			Confidence: assessment.Confidence(r.Confidence),
			IsBalanced: assessment.Persona(r.Persona) == assessment.PersonaBalanced,
		},
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
	fields := []struct {
		src datatypes.JSON
		dst interface{}
	}{
		{r.Demographics, &snap.Demographics},
		{r.Answers, &snap.Answers},
		{r.Scores, &snap.Scores},
		{r.Quality, &snap.Quality},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return assessment.Snapshot{}, fmt.Errorf("decode record %s: %w", r.SessionID, err)
		}
	}
	return snap, nil
}

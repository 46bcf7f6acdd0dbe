package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"valid-assessment-backend/internal/db"
	"valid-assessment-backend/internal/db/query"
	"valid-assessment-backend/internal/model"
)

var ErrRecordNotFound = errors.New("assessment record not found")

const recordsTable = "assessment_records"

// RecordFilter narrows record listings. Zero fields match everything.
type RecordFilter struct {
	Persona string
	Verdict string
	Since   time.Time
	// Until is exclusive.
	Until time.Time
	Limit int
}

// Predicate renders the filter as a parameterized WHERE clause.
func (f RecordFilter) Predicate() *query.FilterPredicate {
	fp := query.NewFilterPredicate()
	add := func(build func()) {
		if !fp.Empty() {
			fp.And()
		}
		build()
	}
	if f.Persona != "" {
		add(func() { fp.Equal("persona", f.Persona) })
	}
	if f.Verdict != "" {
		add(func() { fp.Equal("verdict", f.Verdict) })
	}
	if !f.Since.IsZero() {
		add(func() { fp.GreaterOrEqual("completed_at", f.Since) })
	}
	if !f.Until.IsZero() {
		add(func() { fp.LessThan("completed_at", f.Until) })
	}
	return fp
}

// PersonaCount is one row of the persona distribution.
type PersonaCount struct {
	Persona string `json:"persona"`
	Total   int64  `json:"total"`
}

type AssessmentRepository interface {
	Save(ctx context.Context, rec *model.AssessmentRecord) error
	FindBySessionID(ctx context.Context, sessionID string) (*model.AssessmentRecord, error)
	List(ctx context.Context, f RecordFilter) ([]model.AssessmentRecord, error)
	PersonaDistribution(ctx context.Context, f RecordFilter) ([]PersonaCount, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(gdb *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: gdb}
}

// Save inserts the record, or replaces an earlier copy of the same session.
// Replays from the offline queue rely on this.
func (r *assessmentRepository) Save(ctx context.Context, rec *model.AssessmentRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		UpdateAll: true,
	}).Create(rec).Error
}

func (r *assessmentRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.AssessmentRecord, error) {
	var rec model.AssessmentRecord
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *assessmentRepository) List(ctx context.Context, f RecordFilter) ([]model.AssessmentRecord, error) {
	var records []model.AssessmentRecord
	tx := r.db.WithContext(ctx).Order("completed_at DESC")
	if fp := f.Predicate(); !fp.Empty() {
		where, args := fp.Build()
		tx = tx.Where(where, args...)
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}
	err := tx.Find(&records).Error
	return records, err
}

func (r *assessmentRepository) PersonaDistribution(ctx context.Context, f RecordFilter) ([]PersonaCount, error) {
	qb := query.NewQueryBuilder().
		Select("persona", "COUNT(*) AS total").
		From(recordsTable).
		WherePredicate(f.Predicate()).
		GroupBy("persona").
		OrderBy("total DESC", "persona")

	rows, err := db.NewQueryExecutor(r.db.WithContext(ctx)).Select(qb)
	if err != nil {
		return nil, err
	}
	out := make([]PersonaCount, 0, len(rows))
	for _, row := range rows {
		pc := PersonaCount{}
		switch v := row["persona"].(type) {
		case string:
			pc.Persona = v
		case []byte:
			pc.Persona = string(v)
		}
		if n, ok := row["total"].(int64); ok {
			pc.Total = n
		}
		out = append(out, pc)
	}
	return out, nil
}

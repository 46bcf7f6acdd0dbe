package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"valid-assessment-backend/internal/assessment"
	"valid-assessment-backend/internal/model"
)

type QuestionRepository interface {
	// Seed inserts bank rows that are not stored yet.
	Seed(ctx context.Context, bank assessment.Bank) (int64, error)
	LoadBank(ctx context.Context) (assessment.Bank, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(gdb *gorm.DB) QuestionRepository {
	return &questionRepository{db: gdb}
}

func (r *questionRepository) Seed(ctx context.Context, bank assessment.Bank) (int64, error) {
	rows := make([]model.Question, 0, len(bank))
	for i, q := range bank {
		rows = append(rows, model.NewQuestion(q, i))
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}},
		DoNothing: true,
	}).Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *questionRepository) LoadBank(ctx context.Context) (assessment.Bank, error) {
	var rows []model.Question
	if err := r.db.WithContext(ctx).Order("position, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	bank := make(assessment.Bank, 0, len(rows))
	for _, row := range rows {
		q, err := row.ToAssessment()
		if err != nil {
			return nil, fmt.Errorf("load bank: %w", err)
		}
		bank = append(bank, q)
	}
	return bank, nil
}

package main

import (
	"context"

	"valid-assessment-backend/internal/assessment"
	"valid-assessment-backend/internal/repository"
	"valid-assessment-backend/utilities"
)

// seedQuestionBank stores the built-in bank rows that are missing.
func seedQuestionBank(ctx context.Context, questionRepo repository.QuestionRepository) {
	n, err := questionRepo.Seed(ctx, assessment.DefaultBank())
	if err != nil {
		utilities.Error("failed to seed question bank: %v", err)
		return
	}
	utilities.Info("question bank seeded, %d new rows", n)
}

// loadQuestionBank reads the stored bank and keeps fallback when the stored
// one cannot build a valid question set.
func loadQuestionBank(ctx context.Context, questionRepo repository.QuestionRepository, fallback assessment.Bank) assessment.Bank {
	bank, err := questionRepo.LoadBank(ctx)
	if err != nil {
		utilities.Error("failed to load question bank, using built-in bank: %v", err)
		return fallback
	}
	ids := [2]string{assessment.FirstAttentionCheckID, assessment.SecondAttentionCheckID}
	if err := assessment.ValidateBank(bank, ids); err != nil {
		utilities.Error("stored question bank is invalid, using built-in bank: %v", err)
		return fallback
	}
	utilities.Info("loaded %d questions from the database", len(bank))
	return bank
}

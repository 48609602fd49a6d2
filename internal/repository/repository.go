// Package repository handles all interactions with the database.
//
// It declares the question and answer stores used by the service layer.
// The SQL lives in the backend packages (postgres, sqlite); every error they
// return is a *sqlerr.StorageError.
package repository

import (
	"context"

	"github.com/deppfellow/qa-service/internal/model"
	"github.com/google/uuid"
)

// QuestionRepository stores questions. There is no update operation.
type QuestionRepository interface {
	// CreateQuestion assigns an id and creation time and stores the question.
	CreateQuestion(ctx context.Context, title, description string) (model.Question, error)

	// ListQuestions returns every question, oldest first. The slice is
	// never nil.
	ListQuestions(ctx context.Context) ([]model.Question, error)

	// DeleteQuestion removes the question if it exists. Deleting an unknown
	// id succeeds, and answers of the question are left in place.
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
}

// AnswerRepository stores answers. There is no update operation.
type AnswerRepository interface {
	// CreateAnswer stores an answer for an existing question. A missing
	// question is reported as a foreign key violation.
	CreateAnswer(ctx context.Context, questionID uuid.UUID, content string) (model.Answer, error)

	// ListAnswers returns the answers of a question, oldest first. The
	// slice is never nil.
	ListAnswers(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error)

	// DeleteAnswer removes the answer if it exists. Deleting an unknown id
	// succeeds.
	DeleteAnswer(ctx context.Context, id uuid.UUID) error
}

package postgres

import (
	"context"

	"github.com/deppfellow/qa-service/internal/model"
	"github.com/deppfellow/qa-service/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type QuestionRepository struct {
	db DBTX
}

func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, title, description string) (model.Question, error) {
	const query = `
	INSERT INTO question (id, title, description, created_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id, title, description, created_at;
	`

	var out model.Question
	if err := r.db.QueryRow(ctx, query, uuid.New(), title, description, now()).Scan(
		&out.ID,
		&out.Title,
		&out.Description,
		&out.CreatedAt,
	); err != nil {
		return model.Question{}, sqlerr.Wrap("create_question", err)
	}

	out.CreatedAt = out.CreatedAt.UTC()
	return out, nil
}

func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]model.Question, error) {
	const query = `
	SELECT id, title, description, created_at
	FROM question
	ORDER BY created_at ASC, id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, sqlerr.Wrap("list_questions", err)
	}

	questions, err := pgx.CollectRows(rows, scanQuestion)
	if err != nil {
		return nil, sqlerr.Wrap("list_questions", err)
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM question WHERE id = $1;`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return sqlerr.Wrap("delete_question", err)
	}
	return nil
}

func scanQuestion(row pgx.CollectableRow) (model.Question, error) {
	var q model.Question
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedAt); err != nil {
		return model.Question{}, err
	}
	q.CreatedAt = q.CreatedAt.UTC()
	return q, nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/deppfellow/qa-service/internal/model"
	"github.com/deppfellow/qa-service/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AnswerRepository struct {
	db DBTX
}

func NewAnswerRepository(db DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// CreateAnswer inserts the answer only if its question exists. The check
// and the insert are one statement; no row back means the question is
// missing.
func (r *AnswerRepository) CreateAnswer(ctx context.Context, questionID uuid.UUID, content string) (model.Answer, error) {
	const query = `
	INSERT INTO answer (id, question_id, content, created_at)
	SELECT $1::uuid, $2::uuid, $3::varchar, $4::timestamptz
	WHERE EXISTS (SELECT 1 FROM question WHERE id = $2::uuid)
	RETURNING id, question_id, content, created_at;
	`

	var out model.Answer
	err := r.db.QueryRow(ctx, query, uuid.New(), questionID, content, now()).Scan(
		&out.ID,
		&out.QuestionID,
		&out.Content,
		&out.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Answer{}, sqlerr.ForeignKey("create_answer", "answer", "question_id")
	}
	if err != nil {
		return model.Answer{}, sqlerr.Wrap("create_answer", err)
	}

	out.CreatedAt = out.CreatedAt.UTC()
	return out, nil
}

func (r *AnswerRepository) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	const query = `
	SELECT id, question_id, content, created_at
	FROM answer
	WHERE question_id = $1
	ORDER BY created_at ASC, id ASC;
	`

	rows, err := r.db.Query(ctx, query, questionID)
	if err != nil {
		return nil, sqlerr.Wrap("list_answers", err)
	}

	answers, err := pgx.CollectRows(rows, scanAnswer)
	if err != nil {
		return nil, sqlerr.Wrap("list_answers", err)
	}
	if answers == nil {
		answers = []model.Answer{}
	}
	return answers, nil
}

func (r *AnswerRepository) DeleteAnswer(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM answer WHERE id = $1;`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return sqlerr.Wrap("delete_answer", err)
	}
	return nil
}

func scanAnswer(row pgx.CollectableRow) (model.Answer, error) {
	var a model.Answer
	if err := row.Scan(&a.ID, &a.QuestionID, &a.Content, &a.CreatedAt); err != nil {
		return model.Answer{}, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

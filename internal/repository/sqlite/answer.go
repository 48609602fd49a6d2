package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deppfellow/qa-service/internal/model"
	"github.com/deppfellow/qa-service/internal/sqlerr"
	"github.com/google/uuid"
)

type AnswerRepository struct {
	db DBTX
}

func NewAnswerRepository(db DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// CreateAnswer inserts the answer only if its question exists, in a single
// statement. No row back means the question is missing.
func (r *AnswerRepository) CreateAnswer(ctx context.Context, questionID uuid.UUID, content string) (model.Answer, error) {
	const query = `
	INSERT INTO answer (id, question_id, content, created_at)
	SELECT ?1, ?2, ?3, ?4
	WHERE EXISTS (SELECT 1 FROM question WHERE id = ?2)
	RETURNING id, question_id, content, created_at;
	`

	row := r.db.QueryRowContext(ctx, query, uuid.NewString(), questionID.String(), content, toMicros(now()))

	out, err := scanAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Answer{}, sqlerr.ForeignKey("create_answer", "answer", "question_id")
	}
	if err != nil {
		return model.Answer{}, sqlerr.Wrap("create_answer", err)
	}
	return out, nil
}

func (r *AnswerRepository) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	const query = `
	SELECT id, question_id, content, created_at
	FROM answer
	WHERE question_id = ?
	ORDER BY created_at ASC, id ASC;
	`

	rows, err := r.db.QueryContext(ctx, query, questionID.String())
	if err != nil {
		return nil, sqlerr.Wrap("list_answers", err)
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, sqlerr.Wrap("list_answers", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlerr.Wrap("list_answers", err)
	}
	return answers, nil
}

func (r *AnswerRepository) DeleteAnswer(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM answer WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, query, id.String()); err != nil {
		return sqlerr.Wrap("delete_answer", err)
	}
	return nil
}

func scanAnswer(row rowScanner) (model.Answer, error) {
	var (
		a          model.Answer
		id         string
		questionID string
		createdAt  int64
	)
	if err := row.Scan(&id, &questionID, &a.Content, &createdAt); err != nil {
		return model.Answer{}, err
	}

	var err error
	if a.ID, err = uuid.Parse(id); err != nil {
		return model.Answer{}, err
	}
	if a.QuestionID, err = uuid.Parse(questionID); err != nil {
		return model.Answer{}, err
	}
	a.CreatedAt = fromMicros(createdAt)
	return a, nil
}

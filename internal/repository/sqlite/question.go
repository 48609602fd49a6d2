package sqlite

import (
	"context"

	"github.com/deppfellow/qa-service/internal/model"
	"github.com/deppfellow/qa-service/internal/sqlerr"
	"github.com/google/uuid"
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
	VALUES (?, ?, ?, ?)
	RETURNING id, title, description, created_at;
	`

	row := r.db.QueryRowContext(ctx, query, uuid.NewString(), title, description, toMicros(now()))

	out, err := scanQuestion(row)
	if err != nil {
		return model.Question{}, sqlerr.Wrap("create_question", err)
	}
	return out, nil
}

func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]model.Question, error) {
	const query = `
	SELECT id, title, description, created_at
	FROM question
	ORDER BY created_at ASC, id ASC;
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, sqlerr.Wrap("list_questions", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, sqlerr.Wrap("list_questions", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlerr.Wrap("list_questions", err)
	}
	return questions, nil
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM question WHERE id = ?;`

	if _, err := r.db.ExecContext(ctx, query, id.String()); err != nil {
		return sqlerr.Wrap("delete_question", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (model.Question, error) {
	var (
		q         model.Question
		id        string
		createdAt int64
	)
	if err := row.Scan(&id, &q.Title, &q.Description, &createdAt); err != nil {
		return model.Question{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.Question{}, err
	}
	q.ID = parsed
	q.CreatedAt = fromMicros(createdAt)
	return q, nil
}

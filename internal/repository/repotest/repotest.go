// Package repotest holds the behaviour every question and answer store
// must share. Backend packages run it against a fresh database.
package repotest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/qa-service/internal/repository"
	"github.com/deppfellow/qa-service/internal/sqlerr"
	"github.com/google/uuid"
)

// Stores is a pair of repositories sharing one empty database.
type Stores struct {
	Questions repository.QuestionRepository
	Answers   repository.AnswerRepository
}

// Factory returns stores backed by an empty database private to t.
type Factory func(t *testing.T) Stores

// Run executes the shared suite. Each subtest gets its own stores.
func Run(t *testing.T, newStores Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s Stores)
	}{
		{"CreateQuestionAssignsIDAndTime", testCreateQuestionAssignsIDAndTime},
		{"CreateQuestionIDsAreUnique", testCreateQuestionIDsAreUnique},
		{"CreateQuestionAtMaxLength", testCreateQuestionAtMaxLength},
		{"ListQuestionsEmpty", testListQuestionsEmpty},
		{"ListQuestionsOrdered", testListQuestionsOrdered},
		{"CreateThenDeleteCounts", testCreateThenDeleteCounts},
		{"DeleteUnknownQuestion", testDeleteUnknownQuestion},
		{"DeleteQuestionTwice", testDeleteQuestionTwice},
		{"CreateAnswerForMissingQuestion", testCreateAnswerForMissingQuestion},
		{"CreateAnswerForDeletedQuestion", testCreateAnswerForDeletedQuestion},
		{"ListAnswersScopedToQuestion", testListAnswersScopedToQuestion},
		{"ListAnswersUnknownQuestion", testListAnswersUnknownQuestion},
		{"DeleteAnswer", testDeleteAnswer},
		{"DeleteQuestionKeepsAnswers", testDeleteQuestionKeepsAnswers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStores(t))
		})
	}
}

func testCreateQuestionAssignsIDAndTime(t *testing.T, s Stores) {
	ctx := context.Background()
	before := time.Now().UTC().Truncate(time.Microsecond)

	q, err := s.Questions.CreateQuestion(ctx, "title", "description")
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if q.ID == uuid.Nil {
		t.Fatal("expected a generated id")
	}
	if q.Title != "title" || q.Description != "description" {
		t.Fatalf("question = %+v, want stored title and description", q)
	}
	if q.CreatedAt.Before(before) {
		t.Fatalf("created_at = %v, want >= %v", q.CreatedAt, before)
	}
	if q.CreatedAt.Location() != time.UTC {
		t.Fatalf("created_at location = %v, want UTC", q.CreatedAt.Location())
	}

	list, err := s.Questions.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
	if list[0].ID != q.ID || !list[0].CreatedAt.Equal(q.CreatedAt) {
		t.Fatalf("listed %+v, want %+v", list[0], q)
	}
}

func testCreateQuestionIDsAreUnique(t *testing.T, s Stores) {
	ctx := context.Background()
	seen := make(map[uuid.UUID]bool)

	for i := 0; i < 10; i++ {
		q, err := s.Questions.CreateQuestion(ctx, "same", "same")
		if err != nil {
			t.Fatalf("create question %d: %v", i, err)
		}
		if seen[q.ID] {
			t.Fatalf("duplicate id %s", q.ID)
		}
		seen[q.ID] = true
	}
}

func testCreateQuestionAtMaxLength(t *testing.T, s Stores) {
	ctx := context.Background()
	long := strings.Repeat("x", 255)

	q, err := s.Questions.CreateQuestion(ctx, long, long)
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if q.Title != long {
		t.Fatalf("title length = %d, want 255", len(q.Title))
	}
}

func testListQuestionsEmpty(t *testing.T, s Stores) {
	list, err := s.Questions.ListQuestions(context.Background())
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if list == nil {
		t.Fatal("expected an empty, non-nil slice")
	}
	if len(list) != 0 {
		t.Fatalf("len(list) = %d, want 0", len(list))
	}
}

func testListQuestionsOrdered(t *testing.T, s Stores) {
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Questions.CreateQuestion(ctx, "title", "description"); err != nil {
			t.Fatalf("create question %d: %v", i, err)
		}
	}

	list, err := s.Questions.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	for i := 1; i < len(list); i++ {
		prev, cur := list[i-1], list[i]
		if cur.CreatedAt.Before(prev.CreatedAt) {
			t.Fatalf("list not ordered by created_at at %d", i)
		}
		if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID.String() < prev.ID.String() {
			t.Fatalf("ties not ordered by id at %d", i)
		}
	}
}

func testCreateThenDeleteCounts(t *testing.T, s Stores) {
	ctx := context.Background()
	const created, deleted = 6, 4

	var ids []uuid.UUID
	for i := 0; i < created; i++ {
		q, err := s.Questions.CreateQuestion(ctx, "title", "description")
		if err != nil {
			t.Fatalf("create question %d: %v", i, err)
		}
		ids = append(ids, q.ID)
	}
	for _, id := range ids[:deleted] {
		if err := s.Questions.DeleteQuestion(ctx, id); err != nil {
			t.Fatalf("delete question %s: %v", id, err)
		}
	}

	list, err := s.Questions.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(list) != created-deleted {
		t.Fatalf("len(list) = %d, want %d", len(list), created-deleted)
	}
	for _, q := range list {
		for _, gone := range ids[:deleted] {
			if q.ID == gone {
				t.Fatalf("deleted question %s still listed", gone)
			}
		}
	}
}

func testDeleteUnknownQuestion(t *testing.T, s Stores) {
	ctx := context.Background()

	if _, err := s.Questions.CreateQuestion(ctx, "title", "description"); err != nil {
		t.Fatalf("create question: %v", err)
	}
	if err := s.Questions.DeleteQuestion(ctx, uuid.New()); err != nil {
		t.Fatalf("delete unknown question: %v", err)
	}

	list, err := s.Questions.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
}

func testDeleteQuestionTwice(t *testing.T, s Stores) {
	ctx := context.Background()

	q, err := s.Questions.CreateQuestion(ctx, "title", "description")
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.Questions.DeleteQuestion(ctx, q.ID); err != nil {
			t.Fatalf("delete question (attempt %d): %v", i+1, err)
		}
	}
}

func requireForeignKeyViolation(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected a foreign key violation")
	}
	if !errors.Is(err, sqlerr.ErrForeignKeyViolation) {
		t.Fatalf("err = %v, want foreign key violation", err)
	}
	if !errors.Is(err, sqlerr.ErrStorage) {
		t.Fatalf("err = %v, want storage error", err)
	}
	if sqlerr.ErrCode(err) != sqlerr.ForeignKeyViolation {
		t.Fatalf("code = %q, want %q", sqlerr.ErrCode(err), sqlerr.ForeignKeyViolation)
	}
}

func testCreateAnswerForMissingQuestion(t *testing.T, s Stores) {
	_, err := s.Answers.CreateAnswer(context.Background(), uuid.New(), "content")
	requireForeignKeyViolation(t, err)
}

func testCreateAnswerForDeletedQuestion(t *testing.T, s Stores) {
	ctx := context.Background()

	q, err := s.Questions.CreateQuestion(ctx, "title", "description")
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if err := s.Questions.DeleteQuestion(ctx, q.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}

	_, err = s.Answers.CreateAnswer(ctx, q.ID, "content")
	requireForeignKeyViolation(t, err)

	answers, err := s.Answers.ListAnswers(ctx, q.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 0 {
		t.Fatalf("len(answers) = %d, want 0", len(answers))
	}
}

func testListAnswersScopedToQuestion(t *testing.T, s Stores) {
	ctx := context.Background()

	q1, err := s.Questions.CreateQuestion(ctx, "first", "description")
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	q2, err := s.Questions.CreateQuestion(ctx, "second", "description")
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	before := time.Now().UTC().Truncate(time.Microsecond)
	a, err := s.Answers.CreateAnswer(ctx, q1.ID, "content")
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}
	if a.ID == uuid.Nil || a.QuestionID != q1.ID || a.Content != "content" {
		t.Fatalf("answer = %+v", a)
	}
	if a.CreatedAt.Before(before) {
		t.Fatalf("created_at = %v, want >= %v", a.CreatedAt, before)
	}

	answers, err := s.Answers.ListAnswers(ctx, q1.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 1 || answers[0].ID != a.ID {
		t.Fatalf("answers = %+v, want exactly %s", answers, a.ID)
	}

	other, err := s.Answers.ListAnswers(ctx, q2.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("unrelated question lists %d answers", len(other))
	}
}

func testListAnswersUnknownQuestion(t *testing.T, s Stores) {
	answers, err := s.Answers.ListAnswers(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if answers == nil || len(answers) != 0 {
		t.Fatalf("answers = %#v, want empty non-nil slice", answers)
	}
}

func testDeleteAnswer(t *testing.T, s Stores) {
	ctx := context.Background()

	q, err := s.Questions.CreateQuestion(ctx, "title", "description")
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	keep, err := s.Answers.CreateAnswer(ctx, q.ID, "keep")
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}
	drop, err := s.Answers.CreateAnswer(ctx, q.ID, "drop")
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}

	if err := s.Answers.DeleteAnswer(ctx, drop.ID); err != nil {
		t.Fatalf("delete answer: %v", err)
	}
	if err := s.Answers.DeleteAnswer(ctx, drop.ID); err != nil {
		t.Fatalf("delete answer again: %v", err)
	}
	if err := s.Answers.DeleteAnswer(ctx, uuid.New()); err != nil {
		t.Fatalf("delete unknown answer: %v", err)
	}

	answers, err := s.Answers.ListAnswers(ctx, q.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 1 || answers[0].ID != keep.ID {
		t.Fatalf("answers = %+v, want only %s", answers, keep.ID)
	}
}

func testDeleteQuestionKeepsAnswers(t *testing.T, s Stores) {
	ctx := context.Background()

	q, err := s.Questions.CreateQuestion(ctx, "title", "description")
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	a, err := s.Answers.CreateAnswer(ctx, q.ID, "content")
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}

	if err := s.Questions.DeleteQuestion(ctx, q.ID); err != nil {
		t.Fatalf("delete question with answers: %v", err)
	}

	answers, err := s.Answers.ListAnswers(ctx, q.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 1 || answers[0].ID != a.ID {
		t.Fatalf("answers = %+v, want orphaned %s", answers, a.ID)
	}
}

// Package model holds the records persisted by the repositories and the
// request payloads accepted by the HTTP layer.
package model

import (
	"time"

	"github.com/deppfellow/qa-service/internal/validation"
	"github.com/google/uuid"
)

// Question is a stored question.
type Question struct {
	ID          uuid.UUID `json:"question_uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Answer is a stored answer. QuestionID referenced an existing question
// when the answer was written; the question may have been deleted since.
type Answer struct {
	ID         uuid.UUID `json:"answer_uuid"`
	QuestionID uuid.UUID `json:"question_uuid"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// ------------------------------------------------------------

type CreateQuestionRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=255"`
}

func (r *CreateQuestionRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

// ListQuestionsRequest carries no fields.
type ListQuestionsRequest struct{}

func (r *ListQuestionsRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

type DeleteQuestionRequest struct {
	QuestionID string `json:"question_uuid" validate:"required,uuid"`
}

func (r *DeleteQuestionRequest) Validate() error {
	return validation.Struct(r)
}

// ID returns the parsed question id. It is only meaningful after Validate.
func (r *DeleteQuestionRequest) ID() uuid.UUID {
	return uuid.MustParse(r.QuestionID)
}

// ------------------------------------------------------------

type CreateAnswerRequest struct {
	QuestionID string `json:"question_uuid" validate:"required,uuid"`
	Content    string `json:"content" validate:"required,max=255"`
}

func (r *CreateAnswerRequest) Validate() error {
	return validation.Struct(r)
}

// QuestionUUID returns the parsed question id. It is only meaningful after Validate.
func (r *CreateAnswerRequest) QuestionUUID() uuid.UUID {
	return uuid.MustParse(r.QuestionID)
}

// ------------------------------------------------------------

// ListAnswersRequest accepts the question id from the JSON body or from the
// query string.
type ListAnswersRequest struct {
	QuestionID string `json:"question_uuid" query:"question_uuid" validate:"required,uuid"`
}

func (r *ListAnswersRequest) Validate() error {
	return validation.Struct(r)
}

// QuestionUUID returns the parsed question id. It is only meaningful after Validate.
func (r *ListAnswersRequest) QuestionUUID() uuid.UUID {
	return uuid.MustParse(r.QuestionID)
}

// ------------------------------------------------------------

type DeleteAnswerRequest struct {
	AnswerID string `json:"answer_uuid" validate:"required,uuid"`
}

func (r *DeleteAnswerRequest) Validate() error {
	return validation.Struct(r)
}

// ID returns the parsed answer id. It is only meaningful after Validate.
func (r *DeleteAnswerRequest) ID() uuid.UUID {
	return uuid.MustParse(r.AnswerID)
}

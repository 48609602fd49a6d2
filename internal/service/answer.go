package service

import (
	"github.com/deppfellow/qa-service/internal/middleware"
	"github.com/deppfellow/qa-service/internal/model"
	"github.com/deppfellow/qa-service/internal/repository"
	"github.com/labstack/echo/v4"
)

type AnswerService struct {
	answers repository.AnswerRepository
}

func NewAnswerService(answers repository.AnswerRepository) *AnswerService {
	return &AnswerService{
		answers: answers,
	}
}

// CreateAnswer stores an answer. A missing question comes back from the
// store as a foreign key violation and is mapped to 400 by the error handler.
func (as *AnswerService) CreateAnswer(c echo.Context, payload *model.CreateAnswerRequest) (*model.Answer, error) {
	answer, err := as.answers.CreateAnswer(c.Request().Context(), payload.QuestionUUID(), payload.Content)
	if err != nil {
		return nil, err
	}

	middleware.GetLogger(c).Info().
		Str("event", "answer_created").
		Str("answer_id", answer.ID.String()).
		Str("question_id", answer.QuestionID.String()).
		Msg("answer created")

	return &answer, nil
}

func (as *AnswerService) ListAnswers(c echo.Context, payload *model.ListAnswersRequest) ([]model.Answer, error) {
	return as.answers.ListAnswers(c.Request().Context(), payload.QuestionUUID())
}

func (as *AnswerService) DeleteAnswer(c echo.Context, payload *model.DeleteAnswerRequest) error {
	if err := as.answers.DeleteAnswer(c.Request().Context(), payload.ID()); err != nil {
		return err
	}

	middleware.GetLogger(c).Info().
		Str("event", "answer_deleted").
		Str("answer_id", payload.AnswerID).
		Msg("answer deleted")

	return nil
}

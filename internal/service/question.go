package service

import (
	"github.com/deppfellow/qa-service/internal/middleware"
	"github.com/deppfellow/qa-service/internal/model"
	"github.com/deppfellow/qa-service/internal/repository"
	"github.com/labstack/echo/v4"
)

type QuestionService struct {
	questions repository.QuestionRepository
}

func NewQuestionService(questions repository.QuestionRepository) *QuestionService {
	return &QuestionService{
		questions: questions,
	}
}

func (qs *QuestionService) CreateQuestion(c echo.Context, payload *model.CreateQuestionRequest) (*model.Question, error) {
	question, err := qs.questions.CreateQuestion(c.Request().Context(), payload.Title, payload.Description)
	if err != nil {
		return nil, err
	}

	middleware.GetLogger(c).Info().
		Str("event", "question_created").
		Str("question_id", question.ID.String()).
		Msg("question created")

	return &question, nil
}

func (qs *QuestionService) ListQuestions(c echo.Context, _ *model.ListQuestionsRequest) ([]model.Question, error) {
	return qs.questions.ListQuestions(c.Request().Context())
}

func (qs *QuestionService) DeleteQuestion(c echo.Context, payload *model.DeleteQuestionRequest) error {
	if err := qs.questions.DeleteQuestion(c.Request().Context(), payload.ID()); err != nil {
		return err
	}

	middleware.GetLogger(c).Info().
		Str("event", "question_deleted").
		Str("question_id", payload.QuestionID).
		Msg("question deleted")

	return nil
}

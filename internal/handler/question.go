package handler

import (
	"github.com/deppfellow/qa-service/internal/model"
	"github.com/deppfellow/qa-service/internal/server"
	"github.com/deppfellow/qa-service/internal/service"
	"github.com/labstack/echo/v4"
)

type QuestionHandler struct {
	Handler
	questionService *service.QuestionService
}

func NewQuestionHandler(s *server.Server, questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		Handler:         NewHandler(s),
		questionService: questionService,
	}
}

func (h *QuestionHandler) CreateQuestion(c echo.Context, payload *model.CreateQuestionRequest) (*model.Question, error) {
	return h.questionService.CreateQuestion(c, payload)
}

func (h *QuestionHandler) ListQuestions(c echo.Context, payload *model.ListQuestionsRequest) ([]model.Question, error) {
	return h.questionService.ListQuestions(c, payload)
}

// DeleteQuestion succeeds whether or not the question exists. Answers of
// the question are left in place.
func (h *QuestionHandler) DeleteQuestion(c echo.Context, payload *model.DeleteQuestionRequest) error {
	return h.questionService.DeleteQuestion(c, payload)
}

package handler

import (
	"github.com/deppfellow/qa-service/internal/model"
	"github.com/deppfellow/qa-service/internal/server"
	"github.com/deppfellow/qa-service/internal/service"
	"github.com/labstack/echo/v4"
)

type AnswerHandler struct {
	Handler
	answerService *service.AnswerService
}

func NewAnswerHandler(s *server.Server, answerService *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{
		Handler:       NewHandler(s),
		answerService: answerService,
	}
}

// CreateAnswer fails with 400 QUESTION_NOT_FOUND when the question does
// not exist.
func (h *AnswerHandler) CreateAnswer(c echo.Context, payload *model.CreateAnswerRequest) (*model.Answer, error) {
	return h.answerService.CreateAnswer(c, payload)
}

// ListAnswers reads question_uuid from the JSON body or the query string.
// An unknown question yields an empty list.
func (h *AnswerHandler) ListAnswers(c echo.Context, payload *model.ListAnswersRequest) ([]model.Answer, error) {
	return h.answerService.ListAnswers(c, payload)
}

func (h *AnswerHandler) DeleteAnswer(c echo.Context, payload *model.DeleteAnswerRequest) error {
	return h.answerService.DeleteAnswer(c, payload)
}

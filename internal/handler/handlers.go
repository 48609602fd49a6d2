package handler

import (
	"github.com/deppfellow/qa-service/internal/server"
	"github.com/deppfellow/qa-service/internal/service"
)

// Handlers groups every HTTP handler so the router receives one object.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Question: NewQuestionHandler(s, services.Question),
		Answer:   NewAnswerHandler(s, services.Answer),
	}
}

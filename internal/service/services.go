package service

import (
	"github.com/deppfellow/qa-service/internal/repository"
)

type Services struct {
	Question *QuestionService
	Answer   *AnswerService
}

func NewService(repos *repository.Repositories) (*Services, error) {
	return &Services{
		Question: NewQuestionService(repos.Questions),
		Answer:   NewAnswerService(repos.Answers),
	}, nil
}

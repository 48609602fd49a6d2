package repository

import (
	"fmt"

	"github.com/deppfellow/qa-service/internal/config"
	"github.com/deppfellow/qa-service/internal/repository/postgres"
	"github.com/deppfellow/qa-service/internal/repository/sqlite"
	"github.com/deppfellow/qa-service/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Questions QuestionRepository
	Answers   AnswerRepository
}

// NewRepositories builds the stores for the backend the server opened. The
// shared pool (or SQLite handle) is injected into every repository.
func NewRepositories(s *server.Server) (*Repositories, error) {
	switch s.DB.Driver {
	case config.DriverPostgres:
		return &Repositories{
			Questions: postgres.NewQuestionRepository(s.DB.Pool),
			Answers:   postgres.NewAnswerRepository(s.DB.Pool),
		}, nil
	case config.DriverSQLite:
		return &Repositories{
			Questions: sqlite.NewQuestionRepository(s.DB.SQLite),
			Answers:   sqlite.NewAnswerRepository(s.DB.SQLite),
		}, nil
	default:
		return nil, fmt.Errorf("no repositories for database driver %q", s.DB.Driver)
	}
}

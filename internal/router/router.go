// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API routes,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/qa-service/internal/handler"
	"github.com/deppfellow/qa-service/internal/middleware"
	"github.com/deppfellow/qa-service/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain, the
// error handler and every route registered.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)
	registerQuestionRoutes(router, h)
	registerAnswerRoutes(router, h)

	return router
}

func registerQuestionRoutes(r *echo.Echo, h *handler.Handlers) {
	r.POST("/question", handler.Handle(h.Question.CreateQuestion, http.StatusOK))
	r.GET("/questions", handler.Handle(h.Question.ListQuestions, http.StatusOK))
	r.DELETE("/question", handler.HandleNoContent(h.Question.DeleteQuestion, http.StatusOK))
}

func registerAnswerRoutes(r *echo.Echo, h *handler.Handlers) {
	r.POST("/answer", handler.Handle(h.Answer.CreateAnswer, http.StatusOK))
	r.GET("/answers", handler.Handle(h.Answer.ListAnswers, http.StatusOK))
	r.DELETE("/answer", handler.HandleNoContent(h.Answer.DeleteAnswer, http.StatusOK))
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/qa-service/internal/middleware"
	"github.com/deppfellow/qa-service/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler serves the status endpoint used by load balancers and
// uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth reports the service status and the configured dependency
// checks.
//
// It returns 200 when the database is reachable and 503 otherwise. Redis
// is optional: a failing Redis is reported but does not make the service
// unhealthy.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config.Observability

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	isHealthy := true

	if cfg.HealthCheckEnabled("database") {
		ok := h.runCheck(c.Request().Context(), &logger, "database", checks, h.server.DB.Ping)
		isHealthy = isHealthy && ok
	}

	if h.server.Redis != nil && cfg.HealthCheckEnabled("redis") {
		h.runCheck(c.Request().Context(), &logger, "redis", checks, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordFailure("overall", map[string]interface{}{
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

// runCheck runs one check bounded by the configured timeout and records
// its outcome under name in checks.
func (h *HealthHandler) runCheck(
	ctx context.Context,
	logger *zerolog.Logger,
	name string,
	checks map[string]interface{},
	check func(context.Context) error,
) bool {
	ctx, cancel := context.WithTimeout(ctx, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	checkStart := time.Now()
	err := check(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		checks[name] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", name)

		h.recordFailure(name, map[string]interface{}{
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
		return false
	}

	checks[name] = map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}
	return true
}

func (h *HealthHandler) recordFailure(checkType string, attrs map[string]interface{}) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	app.RecordCustomEvent("HealthCheckError", attrs)
}

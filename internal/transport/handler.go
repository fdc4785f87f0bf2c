package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-ocr-benchmark/internal/config"
	apperrors "go-ocr-benchmark/internal/errors"
	"go-ocr-benchmark/internal/logger"
	"go-ocr-benchmark/internal/repository"
	"go-ocr-benchmark/internal/service"
)

type EvaluateRequest struct {
	Engine string `json:"engine" binding:"required"`
}

type CompareRequest struct {
	Engines []string `json:"engines" binding:"required,min=2"`
	// Stored ranks previously saved summaries instead of re-running engines
	Stored bool `json:"stored,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the benchmark HTTP API: health, stored summaries and
// comparisons, plus endpoints that trigger evaluation runs.
func NewHandler(svc service.BenchmarkService, repo repository.SummaryRepository, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(errorHandler())

	r.GET("/health", healthCheck)
	r.GET("/summaries", listSummaries(repo))
	r.GET("/summaries/:engine", getSummary(repo))
	r.GET("/comparison", getComparison(repo))
	r.POST("/evaluate", evaluateEngine(svc, cfg))
	r.POST("/compare", compareEngines(svc, cfg))

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func listSummaries(repo repository.SummaryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := repo.ListSummaries(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, "list summaries", err)
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

func getSummary(repo repository.SummaryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		engineName := c.Param("engine")

		summary, err := repo.GetSummary(c.Request.Context(), engineName)
		if err != nil {
			if errors.Is(err, repository.ErrSummaryNotFound) {
				respondError(c, http.StatusNotFound, "no summary for engine "+engineName, err)
				return
			}
			respondError(c, http.StatusInternalServerError, "load summary", err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func getComparison(repo repository.SummaryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := repo.GetComparison(c.Request.Context())
		if err != nil {
			if errors.Is(err, repository.ErrComparisonNotFound) {
				respondError(c, http.StatusNotFound, "no comparison stored", err)
				return
			}
			respondError(c, http.StatusInternalServerError, "load comparison", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func evaluateEngine(svc service.BenchmarkService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EvaluateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"engine": req.Engine,
			"ip":     c.ClientIP(),
		}).Info("Processing evaluation request")

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Server.RequestTimeout.Std())
		defer cancel()

		summary, err := svc.EvaluateEngine(ctx, req.Engine)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "evaluation failed", err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func compareEngines(svc service.BenchmarkService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"engines": req.Engines,
			"stored":  req.Stored,
			"ip":      c.ClientIP(),
		}).Info("Processing comparison request")

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Server.RequestTimeout.Std())
		defer cancel()

		var (
			result interface{}
			err    error
		)
		if req.Stored {
			result, err = svc.CompareStored(ctx, req.Engines)
		} else {
			result, err = svc.CompareEngines(ctx, req.Engines)
		}
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "comparison failed", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}

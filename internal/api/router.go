// Package api exposes the engine over HTTP with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casestudy-mapper/internal/engine"
	"casestudy-mapper/internal/exec"
	"casestudy-mapper/internal/mapping"
	"casestudy-mapper/internal/match"
	"casestudy-mapper/internal/schema"
	"casestudy-mapper/internal/transform"
	"casestudy-mapper/internal/value"
)

const shutdownTimeout = 10 * time.Second

// Service is the engine surface served over HTTP.
type Service interface {
	ClassifyCompatibility(sourceType, targetType string) match.Result
	ValidateMappings(mappings []mapping.FieldMapping, sourceFields, targetFields []schema.FieldDescriptor) mapping.Report
	Transform(ctx context.Context, v value.Value, m mapping.FieldMapping, tc exec.Context) exec.Result
	TransformRecord(ctx context.Context, record map[string]value.Value,
		mappings []mapping.FieldMapping, sourceFields, targetFields []schema.FieldDescriptor) engine.RecordResult
	RegisterTransformation(def transform.Definition) error
	ListTransformations() []transform.Definition
	CacheStats() engine.CacheStats
	ClearCache(name string) error
	SuggestMappings(sourceFields, targetFields []schema.FieldDescriptor, opts match.SuggestOptions) []match.Suggestion
	FetchSourceFields(ctx context.Context) ([]schema.FieldDescriptor, error)
	TargetSchema() []schema.FieldGroup
	State() any
	Diagram() string
}

var _ Service = (*engine.Engine)(nil)

// NewRouter builds the gin router for svc.
func NewRouter(svc Service, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/compatibility", CompatibilityHandler(svc))
		apiGroup.POST("/mappings/validate", ValidateHandler(svc))
		apiGroup.POST("/mappings/suggest", SuggestHandler(svc))
		apiGroup.POST("/transform", TransformHandler(svc))
		apiGroup.POST("/transform/record", TransformRecordHandler(svc))
		apiGroup.GET("/transformations", ListTransformationsHandler(svc))
		apiGroup.POST("/transformations", RegisterTransformationHandler(svc))
		apiGroup.GET("/cache/stats", CacheStatsHandler(svc))
		apiGroup.DELETE("/cache", ClearCacheHandler(svc))
		apiGroup.GET("/schema/target", TargetSchemaHandler(svc))
		apiGroup.GET("/state", StateHandler(svc))
	}

	return r
}

// Serve runs the HTTP server until ctx is canceled, then shuts it down.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("http server stopped")

	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

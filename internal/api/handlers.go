package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"casestudy-mapper/internal/engine"
	"casestudy-mapper/internal/exec"
	"casestudy-mapper/internal/mapping"
	"casestudy-mapper/internal/match"
	"casestudy-mapper/internal/schema"
	"casestudy-mapper/internal/transform"
	"casestudy-mapper/internal/value"
)

type compatibilityRequest struct {
	SourceType string `json:"sourceType"`
	TargetType string `json:"targetType"`
}

type validateRequest struct {
	Mappings     []mapping.FieldMapping   `json:"mappings"`
	SourceFields []schema.FieldDescriptor `json:"sourceFields"`
	// TargetFields defaults to the case-study schema.
	TargetFields []schema.FieldDescriptor `json:"targetFields"`
}

type transformRequest struct {
	Value   value.Value          `json:"value"`
	Mapping mapping.FieldMapping `json:"mapping"`
	Context exec.Context         `json:"context"`
}

type transformRecordRequest struct {
	Record       map[string]value.Value   `json:"record"`
	Mappings     []mapping.FieldMapping   `json:"mappings"`
	SourceFields []schema.FieldDescriptor `json:"sourceFields"`
	TargetFields []schema.FieldDescriptor `json:"targetFields"`
}

type suggestRequest struct {
	SourceFields []schema.FieldDescriptor `json:"sourceFields"`
	TargetFields []schema.FieldDescriptor `json:"targetFields"`
	Options      match.SuggestOptions     `json:"options"`
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON", "details": err.Error()})
}

// CompatibilityHandler classifies a type pair.
func CompatibilityHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req compatibilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		c.JSON(http.StatusOK, svc.ClassifyCompatibility(req.SourceType, req.TargetType))
	}
}

// ValidateHandler validates a mapping set. Invalid mappings still answer 200;
// the verdict is in the report.
func ValidateHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		c.JSON(http.StatusOK, svc.ValidateMappings(req.Mappings, req.SourceFields, req.TargetFields))
	}
}

// SuggestHandler proposes mappings for a source schema.
func SuggestHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req suggestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		if len(req.SourceFields) == 0 {
			fields, err := svc.FetchSourceFields(c.Request.Context())
			if err != nil {
				status := http.StatusBadGateway
				if errors.Is(err, engine.ErrNoSourceLoader) {
					status = http.StatusBadRequest
				}

				c.JSON(status, gin.H{"error": err.Error()})

				return
			}

			req.SourceFields = fields
		}

		suggestions := svc.SuggestMappings(req.SourceFields, req.TargetFields, req.Options)
		if suggestions == nil {
			suggestions = []match.Suggestion{}
		}

		c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
	}
}

// TransformHandler runs one mapping against one value.
func TransformHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transformRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		c.JSON(http.StatusOK, svc.Transform(c.Request.Context(), req.Value, req.Mapping, req.Context))
	}
}

// TransformRecordHandler applies a mapping set to one source record.
func TransformRecordHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transformRecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		c.JSON(http.StatusOK, svc.TransformRecord(c.Request.Context(), req.Record, req.Mappings, req.SourceFields, req.TargetFields))
	}
}

// ListTransformationsHandler lists registered transformations.
func ListTransformationsHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		defs := svc.ListTransformations()
		c.JSON(http.StatusOK, gin.H{"transformations": defs, "count": len(defs)})
	}
}

// RegisterTransformationHandler registers a pipeline-backed transformation.
func RegisterTransformationHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var def transform.Definition
		if err := c.ShouldBindJSON(&def); err != nil {
			badRequest(c, err)
			return
		}

		def.Origin = "api"

		if err := svc.RegisterTransformation(def); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, transform.ErrInvalidDefinition) {
				status = http.StatusUnprocessableEntity
			}

			c.JSON(status, gin.H{"error": "Invalid transformation", "details": err.Error()})

			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": def.ID})
	}
}

// CacheStatsHandler reports both caches.
func CacheStatsHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.CacheStats())
	}
}

// ClearCacheHandler clears the cache named by ?name= (default all).
func ClearCacheHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.DefaultQuery("name", engine.CacheAll)

		if err := svc.ClearCache(name); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// TargetSchemaHandler returns the grouped target schema.
func TargetSchemaHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"groups": svc.TargetSchema()})
	}
}

// StateHandler returns the engine introspection state. With
// ?format=mermaid it returns the component tree as a Mermaid flowchart.
func StateHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch format := c.DefaultQuery("format", "json"); format {
		case "json":
			c.JSON(http.StatusOK, svc.State())
		case "mermaid":
			c.String(http.StatusOK, svc.Diagram())
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown format %q", format)})
		}
	}
}

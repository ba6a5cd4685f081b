package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/disease-prediction-server/internal/domain"
	"github.com/disease-prediction-server/internal/service"
)

// PredictRequest is the typed request body for POST /api/v1/predict.
type PredictRequest struct {
	Symptoms map[string]int `json:"symptoms" binding:"required"`
}

// PredictResponse is the response body for POST /api/v1/predict.
type PredictResponse struct {
	Predictions   []domain.EnrichedPrediction `json:"predictions"`
	CorrelationID string                      `json:"correlation_id"`
}

// errorResponse is the shared error body shape.
type errorResponse struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
	Timestamp     string `json:"timestamp"`
}

func newErrorResponse(c *gin.Context, code, message string) errorResponse {
	return errorResponse{
		Code:          code,
		Message:       message,
		CorrelationID: c.GetString("correlation_id"),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}

// handleHealth handles liveness probes.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// handleReady handles readiness probes. Startup is all-or-nothing, so a
// serving process is by construction ready; the payload reports what loaded.
func (s *Server) handleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ready",
		"symptom_count": s.symptoms.Len(),
	})
}

// handleSymptoms returns the recognized symptoms as an index -> display name
// map, sorted by display name.
func (s *Server) handleSymptoms(c *gin.Context) {
	c.JSON(http.StatusOK, s.symptoms.DisplayListing())
}

// handlePredict runs the prediction pipeline for one observation.
func (s *Server) handlePredict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, newErrorResponse(c, domain.ErrInvalidInput,
			"request body must be a JSON object with a \"symptoms\" map"))
		return
	}
	if len(req.Symptoms) == 0 {
		c.JSON(http.StatusUnprocessableEntity, newErrorResponse(c, domain.ErrInvalidInput,
			"at least one symptom is required"))
		return
	}

	ctx := context.WithValue(c.Request.Context(), service.CorrelationIDKey, c.GetString("correlation_id"))

	predictions, err := s.prediction.Predict(ctx, domain.SymptomObservation(req.Symptoms))
	if err != nil {
		s.writePipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		Predictions:   predictions,
		CorrelationID: c.GetString("correlation_id"),
	})
}

// handleHistory returns recent prediction records.
func (s *Server) handleHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := s.prediction.History(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to read prediction history")
		c.JSON(http.StatusInternalServerError, newErrorResponse(c, domain.ErrInternalServer,
			"failed to read prediction history"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"count":   len(records),
	})
}

// writePipelineError maps pipeline errors to HTTP status codes. Unknown
// symptoms are client errors; classifier failures are server errors.
func (s *Server) writePipelineError(c *gin.Context, err error) {
	var unknownSymptom *domain.UnknownSymptomError
	if errors.As(err, &unknownSymptom) {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, domain.ErrUnknownSymptom, unknownSymptom.Error()))
		return
	}

	var predictionFailure *domain.PredictionFailureError
	if errors.As(err, &predictionFailure) {
		c.JSON(http.StatusInternalServerError, newErrorResponse(c, domain.ErrPredictionFailure,
			"the prediction models failed to score this request"))
		return
	}

	c.JSON(http.StatusInternalServerError, newErrorResponse(c, domain.ErrInternalServer, "internal server error"))
}

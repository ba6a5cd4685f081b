package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/disease-prediction-server/internal/domain"
)

// PredictionService runs the full inference pipeline: observation ->
// feature vector -> ensemble top-3 -> enriched result. Catalogs and
// classifiers are fixed at construction and shared read-only across
// concurrent requests.
type PredictionService struct {
	logger    *logrus.Logger
	builder   *FeatureVectorBuilder
	predictor *EnsemblePredictor
	enricher  *ResultEnricher
	cache     *expirable.LRU[string, []domain.EnrichedPrediction]
	history   domain.HistoryStore
}

// PredictionServiceOption configures optional collaborators.
type PredictionServiceOption func(*PredictionService)

// WithResultCache enables an in-memory LRU cache for repeated identical
// observations. The pipeline is deterministic for fixed models, so cached
// results are always valid until eviction.
func WithResultCache(size int, ttl time.Duration) PredictionServiceOption {
	return func(s *PredictionService) {
		s.cache = expirable.NewLRU[string, []domain.EnrichedPrediction](size, nil, ttl)
	}
}

// WithHistory records completed predictions in the given store. Store
// failures are logged, never surfaced to the caller.
func WithHistory(store domain.HistoryStore) PredictionServiceOption {
	return func(s *PredictionService) {
		s.history = store
	}
}

// NewPredictionService wires the pipeline components together.
func NewPredictionService(
	logger *logrus.Logger,
	builder *FeatureVectorBuilder,
	predictor *EnsemblePredictor,
	enricher *ResultEnricher,
	opts ...PredictionServiceOption,
) *PredictionService {
	s := &PredictionService{
		logger:    logger,
		builder:   builder,
		predictor: predictor,
		enricher:  enricher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Predict runs the pipeline for one observation and returns the enriched
// top-3 predictions.
func (s *PredictionService) Predict(ctx context.Context, observation domain.SymptomObservation) ([]domain.EnrichedPrediction, error) {
	startTime := time.Now()
	correlationID := correlationIDFrom(ctx)

	log := s.logger.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"symptom_count":  len(observation),
	})
	log.Info("Starting disease prediction")

	key := observationKey(observation)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			log.WithField("cache_hit", true).Info("Disease prediction served from cache")
			return cached, nil
		}
	}

	vector, err := s.builder.Build(observation)
	if err != nil {
		log.WithError(err).Warn("Observation contains an unknown symptom code")
		return nil, err
	}

	ranked, err := s.predictor.PredictTop3(vector)
	if err != nil {
		log.WithError(err).Error("Ensemble prediction failed")
		return nil, err
	}

	enriched := s.enricher.Enrich(ranked)

	if s.cache != nil {
		s.cache.Add(key, enriched)
	}
	if s.history != nil {
		record := &domain.PredictionRecord{
			CorrelationID: correlationID,
			Symptoms:      observation,
			Predictions:   enriched,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.history.Save(ctx, record); err != nil {
			log.WithError(err).Warn("Failed to record prediction history")
		}
	}

	log.WithFields(logrus.Fields{
		"top_disease":     enriched[0].Disease,
		"top_probability": enriched[0].Probability,
		"processing_time": time.Since(startTime),
	}).Info("Disease prediction completed")

	return enriched, nil
}

// History returns recent prediction records, newest first. Returns an empty
// slice when history recording is disabled.
func (s *PredictionService) History(ctx context.Context, limit, offset int) ([]*domain.PredictionRecord, error) {
	if s.history == nil {
		return []*domain.PredictionRecord{}, nil
	}
	return s.history.List(ctx, limit, offset)
}

// observationKey produces a deterministic cache key for an observation.
func observationKey(observation domain.SymptomObservation) string {
	codes := make([]string, 0, len(observation))
	for code := range observation {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var sb strings.Builder
	for _, code := range codes {
		fmt.Fprintf(&sb, "%s=%d;", code, observation[code])
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

type contextKey string

// CorrelationIDKey carries the request correlation id through the pipeline.
const CorrelationIDKey contextKey = "correlation_id"

func correlationIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok && id != "" {
		return id
	}
	return "N/A"
}

package domain

import (
	"context"
)

// Classifier is a fitted probability-producing model. Implementations score
// one feature vector and return a full per-class probability distribution
// that sums to 1 across all known disease classes.
type Classifier interface {
	// Name identifies the classifier in logs and errors.
	Name() string

	// PredictProbabilities returns the per-class probability distribution
	// for the given feature vector.
	PredictProbabilities(vector FeatureVector) ([]float64, error)

	// Close releases any resources held by the underlying model.
	Close() error
}

// HistoryStore persists completed predictions for later review.
type HistoryStore interface {
	Save(ctx context.Context, record *PredictionRecord) error
	List(ctx context.Context, limit, offset int) ([]*PredictionRecord, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

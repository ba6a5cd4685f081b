package domain

import (
	"time"
)

// SymptomDescriptor represents a single recognized symptom.
// The catalog position of a descriptor is the column index the
// classifiers were trained on.
type SymptomDescriptor struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

// DiseaseDescriptor holds the presentation metadata for one disease class.
// ID is the class index used by the fitted classifiers.
type DiseaseDescriptor struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Precautions []string `json:"precautions"`
	Severity    string   `json:"severity"`
}

// SymptomObservation is a sparse symptom report: code -> presence flag.
// Keys must be valid catalog codes; values are passed through to the
// feature vector unvalidated beyond type.
type SymptomObservation map[string]int

// FeatureVector is the dense, catalog-ordered encoding of an observation.
// Position i corresponds to the i-th symptom in catalog order.
type FeatureVector []float64

// RankedPrediction is one entry of the ensemble's top-3 output.
// Probability is a percentage in [0, 100] rounded to 2 decimals.
type RankedPrediction struct {
	DiseaseID   int     `json:"disease_id"`
	Probability float64 `json:"probability"`
}

// EnrichedPrediction is a RankedPrediction joined with catalog metadata,
// formatted for external consumption.
type EnrichedPrediction struct {
	DiseaseID   int      `json:"disease_id"`
	Disease     string   `json:"disease"`
	Description string   `json:"description"`
	Precautions []string `json:"precautions"`
	Severity    string   `json:"severity"`
	Probability string   `json:"probability"`
}

// PredictionRecord is a stored snapshot of one completed prediction.
type PredictionRecord struct {
	ID            int64                `json:"id,omitempty"`
	CorrelationID string               `json:"correlation_id"`
	Symptoms      SymptomObservation   `json:"symptoms"`
	Predictions   []EnrichedPrediction `json:"predictions"`
	CreatedAt     time.Time            `json:"created_at"`
}

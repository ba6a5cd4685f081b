// Package service implements the inference pipeline: feature vector
// construction, ensemble prediction, result enrichment, and the
// orchestrating prediction service.
package service

import (
	"github.com/disease-prediction-server/internal/catalog"
	"github.com/disease-prediction-server/internal/domain"
)

// FeatureVectorBuilder converts sparse symptom observations into dense,
// catalog-ordered feature vectors.
type FeatureVectorBuilder struct {
	symptoms *catalog.SymptomCatalog
}

// NewFeatureVectorBuilder creates a builder bound to a symptom catalog.
func NewFeatureVectorBuilder(symptoms *catalog.SymptomCatalog) *FeatureVectorBuilder {
	return &FeatureVectorBuilder{symptoms: symptoms}
}

// Build produces a zero-filled vector sized to the catalog, with observed
// values written at their catalog positions. Any observation key absent from
// the catalog fails the whole call with an UnknownSymptomError; no partial
// vector is returned. With multiple unknown keys, which one is reported
// depends on map iteration order.
func (b *FeatureVectorBuilder) Build(observation domain.SymptomObservation) (domain.FeatureVector, error) {
	vector := make(domain.FeatureVector, b.symptoms.Len())
	for code, value := range observation {
		i, ok := b.symptoms.Index(code)
		if !ok {
			return nil, domain.NewUnknownSymptomError(code)
		}
		vector[i] = float64(value)
	}
	return vector, nil
}

package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/disease-prediction-server/internal/domain"
)

// topK is the number of ranked predictions the ensemble returns.
const topK = 3

// EnsemblePredictor combines three independently fitted classifiers by
// averaging their per-class probability distributions with equal weight.
type EnsemblePredictor struct {
	classifiers []domain.Classifier
	numClasses  int
}

// NewEnsemblePredictor creates an ensemble over exactly three classifiers.
// numClasses is the size of the class space the models were trained on and
// must be at least topK.
func NewEnsemblePredictor(numClasses int, classifiers ...domain.Classifier) (*EnsemblePredictor, error) {
	if len(classifiers) != 3 {
		return nil, fmt.Errorf("ensemble requires exactly 3 classifiers, got %d", len(classifiers))
	}
	if numClasses < topK {
		return nil, fmt.Errorf("class space has %d classes, need at least %d", numClasses, topK)
	}
	return &EnsemblePredictor{classifiers: classifiers, numClasses: numClasses}, nil
}

// PredictTop3 scores the vector with all three classifiers, averages the
// distributions, and returns the 3 highest-probability classes in descending
// order. Ties are broken by ascending class index so repeated calls are
// deterministic. If any classifier fails or returns a distribution of the
// wrong width, the whole call fails; there is no 2-of-3 fallback.
func (e *EnsemblePredictor) PredictTop3(vector domain.FeatureVector) ([]domain.RankedPrediction, error) {
	combined := make([]float64, e.numClasses)
	for _, clf := range e.classifiers {
		probs, err := clf.PredictProbabilities(vector)
		if err != nil {
			return nil, domain.NewPredictionFailureError(clf.Name(), "scoring failed", err)
		}
		if len(probs) != e.numClasses {
			return nil, domain.NewPredictionFailureError(clf.Name(),
				fmt.Sprintf("distribution width %d does not match class space %d", len(probs), e.numClasses), nil)
		}
		for i, p := range probs {
			combined[i] += p / float64(len(e.classifiers))
		}
	}

	indices := make([]int, e.numClasses)
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return combined[indices[a]] > combined[indices[b]]
	})

	ranked := make([]domain.RankedPrediction, topK)
	for j := 0; j < topK; j++ {
		i := indices[j]
		ranked[j] = domain.RankedPrediction{
			DiseaseID:   i,
			Probability: roundPercent(combined[i]),
		}
	}
	return ranked, nil
}

// roundPercent converts a probability to a percentage rounded to 2 decimals.
func roundPercent(p float64) float64 {
	return math.Round(p*100*100) / 100
}

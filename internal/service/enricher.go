package service

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/disease-prediction-server/internal/catalog"
	"github.com/disease-prediction-server/internal/domain"
)

// ResultEnricher joins ranked predictions with disease metadata and formats
// them for external consumption.
type ResultEnricher struct {
	diseases *catalog.DiseaseCatalog
}

// NewResultEnricher creates an enricher bound to a disease catalog.
func NewResultEnricher(diseases *catalog.DiseaseCatalog) *ResultEnricher {
	return &ResultEnricher{diseases: diseases}
}

// Enrich decorates each ranked prediction with catalog metadata, preserving
// input order 1:1. A disease id with no catalog entry degrades to empty
// metadata fields instead of failing: the predictor's class space is trusted
// and a catalog gap is a data-completeness issue, not a request error.
func (e *ResultEnricher) Enrich(predictions []domain.RankedPrediction) []domain.EnrichedPrediction {
	// cases.Caser carries internal state, so build one per call rather
	// than sharing across concurrent requests.
	titler := cases.Title(language.English)

	enriched := make([]domain.EnrichedPrediction, len(predictions))
	for i, p := range predictions {
		entry := domain.EnrichedPrediction{
			DiseaseID:   p.DiseaseID,
			Precautions: []string{},
			Probability: fmt.Sprintf("%.2f%%", p.Probability),
		}

		if d, ok := e.diseases.ByID(p.DiseaseID); ok {
			entry.Disease = titler.String(d.Name)
			entry.Description = leadingCapital(d.Description)
			entry.Severity = d.Severity
			for _, precaution := range d.Precautions {
				if strings.TrimSpace(precaution) == "" {
					continue
				}
				entry.Precautions = append(entry.Precautions, titler.String(precaution))
			}
		}

		enriched[i] = entry
	}
	return enriched
}

// leadingCapital upper-cases the first rune of s.
func leadingCapital(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

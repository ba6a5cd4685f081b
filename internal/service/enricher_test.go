package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disease-prediction-server/internal/domain"
)

func TestResultEnricher_Enrich(t *testing.T) {
	enricher := NewResultEnricher(newTestDiseaseCatalog(t))

	enriched := enricher.Enrich([]domain.RankedPrediction{
		{DiseaseID: 1, Probability: 72.14},
		{DiseaseID: 2, Probability: 18.77},
		{DiseaseID: 0, Probability: 4.92},
	})

	require.Len(t, enriched, 3)

	assert.Equal(t, domain.EnrichedPrediction{
		DiseaseID:   1,
		Disease:     "Influenza",
		Description: "A contagious respiratory illness.",
		Precautions: []string{"Rest", "Drink Fluids", "Take Antiviral Drugs", "Consult Doctor"},
		Severity:    "Moderate",
		Probability: "72.14%",
	}, enriched[0])

	// Order-preserving: same disease order as the ranked input
	assert.Equal(t, 2, enriched[1].DiseaseID)
	assert.Equal(t, 0, enriched[2].DiseaseID)
}

func TestResultEnricher_CatalogGapDegradesGracefully(t *testing.T) {
	enricher := NewResultEnricher(newTestDiseaseCatalog(t))

	enriched := enricher.Enrich([]domain.RankedPrediction{
		{DiseaseID: 0, Probability: 55.5},
		{DiseaseID: 42, Probability: 30.25},
		{DiseaseID: 1, Probability: 14.25},
	})

	require.Len(t, enriched, 3)

	// The uncatalogued disease keeps its slot and order with empty metadata.
	gap := enriched[1]
	assert.Equal(t, 42, gap.DiseaseID)
	assert.Empty(t, gap.Disease)
	assert.Empty(t, gap.Description)
	assert.Empty(t, gap.Precautions)
	assert.Empty(t, gap.Severity)
	assert.Equal(t, "30.25%", gap.Probability)

	assert.Equal(t, 0, enriched[0].DiseaseID)
	assert.Equal(t, 1, enriched[2].DiseaseID)
}

func TestResultEnricher_ProbabilityFormat(t *testing.T) {
	enricher := NewResultEnricher(newTestDiseaseCatalog(t))

	tests := []struct {
		name        string
		probability float64
		want        string
	}{
		{"two decimals kept", 72.14, "72.14%"},
		{"whole number padded", 60, "60.00%"},
		{"single decimal padded", 4.9, "4.90%"},
		{"zero", 0, "0.00%"},
		{"full confidence", 100, "100.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enriched := enricher.Enrich([]domain.RankedPrediction{{DiseaseID: 0, Probability: tt.probability}})
			require.Len(t, enriched, 1)
			assert.Equal(t, tt.want, enriched[0].Probability)
		})
	}
}

func TestResultEnricher_EmptyInput(t *testing.T) {
	enricher := NewResultEnricher(newTestDiseaseCatalog(t))

	enriched := enricher.Enrich(nil)
	assert.Empty(t, enriched)
}

package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/disease-prediction-server/internal/catalog"
	"github.com/disease-prediction-server/internal/domain"
)

// newTestSymptomCatalog builds a three-symptom catalog: fever, cough, fatigue.
func newTestSymptomCatalog(t *testing.T) *catalog.SymptomCatalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symptoms.csv")
	require.NoError(t, os.WriteFile(path, []byte("fever,cough,fatigue,prognosis\n"), 0644))

	cat, err := catalog.LoadSymptoms(path)
	require.NoError(t, err)
	return cat
}

// newTestDiseaseCatalog builds a three-disease catalog with ids 0..2.
func newTestDiseaseCatalog(t *testing.T) *catalog.DiseaseCatalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diseases.csv")
	content := "id,name,description,precaution_1,precaution_2,precaution_3,precaution_4,severity\n" +
		"0,common cold,a viral infection of the nose and throat.,rest,drink warm fluids,,,Low\n" +
		"1,influenza,a contagious respiratory illness.,rest,drink fluids,take antiviral drugs,consult doctor,Moderate\n" +
		"2,dengue,a mosquito-borne viral infection.,keep hydrated,consult doctor,,,High\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cat, err := catalog.LoadDiseases(path)
	require.NoError(t, err)
	return cat
}

// stubClassifier returns a fixed distribution or error on every call.
type stubClassifier struct {
	name  string
	probs []float64
	err   error
	calls int
}

func (s *stubClassifier) Name() string { return s.name }

func (s *stubClassifier) PredictProbabilities(_ domain.FeatureVector) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(s.probs))
	copy(out, s.probs)
	return out, nil
}

func (s *stubClassifier) Close() error { return nil }

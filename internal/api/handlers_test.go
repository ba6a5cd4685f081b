package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disease-prediction-server/internal/catalog"
	"github.com/disease-prediction-server/internal/domain"
	"github.com/disease-prediction-server/internal/service"
)

// stubClassifier returns a fixed distribution or error on every call.
type stubClassifier struct {
	name  string
	probs []float64
	err   error
}

func (s *stubClassifier) Name() string { return s.name }

func (s *stubClassifier) PredictProbabilities(_ domain.FeatureVector) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(s.probs))
	copy(out, s.probs)
	return out, nil
}

func (s *stubClassifier) Close() error { return nil }

func newTestConfig() *domain.Config {
	return &domain.Config{
		Server: domain.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
		},
		Logging: domain.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(t *testing.T, classifierErr error) *Server {
	t.Helper()

	dir := t.TempDir()
	symptomsPath := filepath.Join(dir, "symptoms.csv")
	require.NoError(t, os.WriteFile(symptomsPath, []byte("fever,cough,fatigue,prognosis\n"), 0644))
	diseasesPath := filepath.Join(dir, "diseases.csv")
	diseases := "id,name,description,precaution_1,precaution_2,precaution_3,precaution_4,severity\n" +
		"0,common cold,a viral infection.,rest,,,,Low\n" +
		"1,influenza,a contagious respiratory illness.,rest,drink fluids,,,Moderate\n" +
		"2,dengue,a mosquito-borne viral infection.,keep hydrated,,,,High\n"
	require.NoError(t, os.WriteFile(diseasesPath, []byte(diseases), 0644))

	symptomCatalog, err := catalog.LoadSymptoms(symptomsPath)
	require.NoError(t, err)
	diseaseCatalog, err := catalog.LoadDiseases(diseasesPath)
	require.NoError(t, err)

	probs := []float64{0.1, 0.6, 0.3}
	predictor, err := service.NewEnsemblePredictor(3,
		&stubClassifier{name: "naive_bayes", probs: probs, err: classifierErr},
		&stubClassifier{name: "random_forest", probs: probs, err: classifierErr},
		&stubClassifier{name: "svm", probs: probs, err: classifierErr},
	)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	prediction := service.NewPredictionService(
		logger,
		service.NewFeatureVectorBuilder(symptomCatalog),
		predictor,
		service.NewResultEnricher(diseaseCatalog),
	)

	return NewServer(newTestConfig(), logger, symptomCatalog, prediction)
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHandleReady(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(server, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, float64(3), body["symptom_count"])
}

func TestHandleSymptoms(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(server, http.MethodGet, "/api/v1/symptoms", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var listing map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, map[string]string{
		"0": "Cough",
		"1": "Fatigue",
		"2": "Fever",
	}, listing)
}

func TestHandlePredict(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(server, http.MethodPost, "/api/v1/predict", `{"symptoms":{"fever":1,"cough":1}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))

	var resp PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Predictions, 3)
	assert.Equal(t, "Influenza", resp.Predictions[0].Disease)
	assert.Equal(t, "60.00%", resp.Predictions[0].Probability)
	assert.Equal(t, resp.CorrelationID, w.Header().Get("X-Correlation-ID"))
}

func TestHandlePredict_UnknownSymptom(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(server, http.MethodPost, "/api/v1/predict", `{"symptoms":{"fever":1,"headache":1}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrUnknownSymptom, resp["code"])
	assert.Contains(t, resp["message"], "headache")
}

func TestHandlePredict_InvalidBody(t *testing.T) {
	server := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"symptoms":`},
		{"missing symptoms field", `{}`},
		{"empty symptoms map", `{"symptoms":{}}`},
		{"wrong value type", `{"symptoms":{"fever":"yes"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(server, http.MethodPost, "/api/v1/predict", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, domain.ErrInvalidInput, resp["code"])
		})
	}
}

func TestHandlePredict_ClassifierFailure(t *testing.T) {
	server := newTestServer(t, assert.AnError)

	w := doRequest(server, http.MethodPost, "/api/v1/predict", `{"symptoms":{"fever":1}}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrPredictionFailure, resp["code"])
}

func TestHandleHistory_Disabled(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(server, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(0), resp["count"])
}

func TestCorrelationIDPassthrough(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "caller-supplied-id")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	assert.Equal(t, "caller-supplied-id", w.Header().Get("X-Correlation-ID"))
}

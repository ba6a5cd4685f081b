// Package model serves the fitted classifiers. The ensemble members are
// scikit-learn models (Gaussian Naive Bayes, Random Forest, SVM) exported to
// ONNX with zipmap disabled, so each model is a single tensor-in/tensor-out
// graph scored through ONNX Runtime.
package model

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/disease-prediction-server/internal/domain"
)

// Default tensor names produced by skl2onnx for classifier graphs.
const (
	defaultInputName  = "float_input"
	defaultOutputName = "probabilities"
)

var runtimeOnce sync.Once

// InitRuntime initializes the process-wide ONNX Runtime environment. It must
// be called once before any classifier is constructed.
func InitRuntime(sharedLibraryPath string) error {
	var err error
	runtimeOnce.Do(func() {
		ort.SetSharedLibraryPath(sharedLibraryPath)
		err = ort.InitializeEnvironment()
	})
	if err != nil {
		return domain.NewStartupFailureError("onnx runtime", err)
	}
	return nil
}

// DestroyRuntime tears down the ONNX Runtime environment. Call after all
// classifiers are closed.
func DestroyRuntime() error {
	return ort.DestroyEnvironment()
}

// ONNXClassifier scores one exported model. ONNX Runtime session runs are
// not assumed safe for concurrent use on shared tensors, so scoring is
// serialized behind a mutex with reused input/output tensors.
type ONNXClassifier struct {
	name        string
	numFeatures int
	numClasses  int

	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewONNXClassifier loads a fitted model from modelPath. numFeatures must
// match the training-time feature width and numClasses the class space.
func NewONNXClassifier(name, modelPath string, numFeatures, numClasses int) (*ONNXClassifier, error) {
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(numFeatures)))
	if err != nil {
		return nil, domain.NewStartupFailureError(name, fmt.Errorf("creating input tensor: %w", err))
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(numClasses)))
	if err != nil {
		input.Destroy()
		return nil, domain.NewStartupFailureError(name, fmt.Errorf("creating output tensor: %w", err))
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{defaultInputName},
		[]string{defaultOutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, domain.NewStartupFailureError(name, fmt.Errorf("loading model %s: %w", modelPath, err))
	}

	return &ONNXClassifier{
		name:        name,
		numFeatures: numFeatures,
		numClasses:  numClasses,
		session:     session,
		input:       input,
		output:      output,
	}, nil
}

// Name identifies the classifier in logs and errors.
func (c *ONNXClassifier) Name() string {
	return c.name
}

// PredictProbabilities scores the vector and returns the per-class
// probability distribution.
func (c *ONNXClassifier) PredictProbabilities(vector domain.FeatureVector) ([]float64, error) {
	if len(vector) != c.numFeatures {
		return nil, fmt.Errorf("vector width %d does not match model input width %d", len(vector), c.numFeatures)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	in := c.input.GetData()
	for i, v := range vector {
		in[i] = float32(v)
	}

	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("session run: %w", err)
	}

	out := c.output.GetData()
	probs := make([]float64, len(out))
	for i, p := range out {
		probs[i] = float64(p)
	}
	return probs, nil
}

// Close releases the session and its tensors.
func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
	if c.input != nil {
		c.input.Destroy()
		c.input = nil
	}
	if c.output != nil {
		c.output.Destroy()
		c.output = nil
	}
	return nil
}

// LoadEnsemble loads the three ensemble members described by the model
// configuration. All three must load or the whole call fails.
func LoadEnsemble(cfg *domain.ModelConfig, numFeatures, numClasses int) ([]domain.Classifier, error) {
	members := []struct {
		name string
		path string
	}{
		{"naive_bayes", cfg.NaiveBayesPath},
		{"random_forest", cfg.RandomForestPath},
		{"svm", cfg.SVMPath},
	}

	classifiers := make([]domain.Classifier, 0, len(members))
	for _, member := range members {
		clf, err := NewONNXClassifier(member.name, member.path, numFeatures, numClasses)
		if err != nil {
			for _, loaded := range classifiers {
				loaded.Close()
			}
			return nil, err
		}
		classifiers = append(classifiers, clf)
	}
	return classifiers, nil
}

// Package catalog loads the static reference data the prediction pipeline
// depends on: the ordered symptom list and the disease metadata. Both are
// read once at startup and are immutable afterwards, so they are safe to
// share across concurrent requests without locking.
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/disease-prediction-server/internal/domain"
)

// labelColumn is the training label column in the dataset header. It is not
// a symptom and never becomes part of the feature space.
const labelColumn = "prognosis"

// SymptomCatalog is the ordered list of recognized symptom codes. The order
// of entries is the canonical feature order the classifiers were trained on.
type SymptomCatalog struct {
	symptoms []domain.SymptomDescriptor
	index    map[string]int
}

// LoadSymptoms reads the symptom catalog from the header row of the training
// CSV. Column order is preserved; the prognosis label column is skipped.
func LoadSymptoms(path string) (*SymptomCatalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewStartupFailureError("symptom catalog", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewStartupFailureError("symptom catalog", fmt.Errorf("reading header row: %w", err))
	}

	titler := cases.Title(language.English)
	catalog := &SymptomCatalog{
		index: make(map[string]int),
	}
	for _, raw := range header {
		code := strings.TrimSpace(raw)
		if code == "" || strings.EqualFold(code, labelColumn) {
			continue
		}
		if _, exists := catalog.index[code]; exists {
			return nil, domain.NewStartupFailureError("symptom catalog", fmt.Errorf("duplicate symptom code %q", code))
		}
		catalog.index[code] = len(catalog.symptoms)
		catalog.symptoms = append(catalog.symptoms, domain.SymptomDescriptor{
			Code:        code,
			DisplayName: titler.String(strings.ReplaceAll(code, "_", " ")),
		})
	}

	if len(catalog.symptoms) == 0 {
		return nil, domain.NewStartupFailureError("symptom catalog", fmt.Errorf("no symptom columns in %s", path))
	}
	return catalog, nil
}

// Len returns the number of symptoms, which is the feature vector width.
func (c *SymptomCatalog) Len() int {
	return len(c.symptoms)
}

// Index returns the feature position of a symptom code.
func (c *SymptomCatalog) Index(code string) (int, bool) {
	i, ok := c.index[code]
	return i, ok
}

// Symptoms returns the descriptors in canonical feature order.
func (c *SymptomCatalog) Symptoms() []domain.SymptomDescriptor {
	out := make([]domain.SymptomDescriptor, len(c.symptoms))
	copy(out, c.symptoms)
	return out
}

// DisplayListing returns index -> display name, with indices assigned after
// sorting by display name. This is the listing shape the symptoms endpoint
// serves; it is independent of feature order.
func (c *SymptomCatalog) DisplayListing() map[int]string {
	names := make([]string, 0, len(c.symptoms))
	for _, s := range c.symptoms {
		names = append(names, s.DisplayName)
	}
	sort.Strings(names)

	listing := make(map[int]string, len(names))
	for i, name := range names {
		listing[i] = name
	}
	return listing
}

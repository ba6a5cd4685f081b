package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/disease-prediction-server/internal/domain"
)

// maxPrecautions is the number of precaution slots in the catalog file.
const maxPrecautions = 4

// DiseaseCatalog maps classifier class indices to disease metadata.
type DiseaseCatalog struct {
	diseases []domain.DiseaseDescriptor
	byID     map[int]int
}

// LoadDiseases reads the disease catalog CSV. Expected columns:
// id,name,description,precaution_1..precaution_4,severity. Blank precaution
// slots are dropped; remaining order is preserved.
func LoadDiseases(path string) (*DiseaseCatalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewStartupFailureError("disease catalog", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 3 + maxPrecautions + 1

	// Header row
	if _, err := reader.Read(); err != nil {
		return nil, domain.NewStartupFailureError("disease catalog", fmt.Errorf("reading header row: %w", err))
	}

	catalog := &DiseaseCatalog{
		byID: make(map[int]int),
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewStartupFailureError("disease catalog", err)
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, domain.NewStartupFailureError("disease catalog", fmt.Errorf("invalid disease id %q: %w", record[0], err))
		}
		if _, exists := catalog.byID[id]; exists {
			return nil, domain.NewStartupFailureError("disease catalog", fmt.Errorf("duplicate disease id %d", id))
		}

		var precautions []string
		for _, slot := range record[3 : 3+maxPrecautions] {
			if p := strings.TrimSpace(slot); p != "" {
				precautions = append(precautions, p)
			}
		}

		catalog.byID[id] = len(catalog.diseases)
		catalog.diseases = append(catalog.diseases, domain.DiseaseDescriptor{
			ID:          id,
			Name:        strings.TrimSpace(record[1]),
			Description: strings.TrimSpace(record[2]),
			Precautions: precautions,
			Severity:    strings.TrimSpace(record[3+maxPrecautions]),
		})
	}

	if len(catalog.diseases) == 0 {
		return nil, domain.NewStartupFailureError("disease catalog", fmt.Errorf("no disease rows in %s", path))
	}
	return catalog, nil
}

// Len returns the number of catalogued diseases.
func (c *DiseaseCatalog) Len() int {
	return len(c.diseases)
}

// ByID looks up a disease descriptor by class index.
func (c *DiseaseCatalog) ByID(id int) (*domain.DiseaseDescriptor, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.diseases[i], true
}

// Diseases returns all descriptors in file order.
func (c *DiseaseCatalog) Diseases() []domain.DiseaseDescriptor {
	out := make([]domain.DiseaseDescriptor, len(c.diseases))
	copy(out, c.diseases)
	return out
}

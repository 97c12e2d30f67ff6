package faces

import (
	"fmt"
	"math"
	"strconv"

	"github.com/drakos74/face-bench/internal/math/ml"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
)

// CSV reads one sample per row, the features followed by the integer label in the last column.
type CSV struct {
	Path   string
	Header bool
}

// NewCSV creates a loader for the given file.
func NewCSV(path string, header bool) *CSV {
	return &CSV{
		Path:   path,
		Header: header,
	}
}

func (c *CSV) Load() (*ml.Dataset, error) {
	inst, err := base.ParseCSVToInstances(c.Path, c.Header)
	if err != nil {
		return nil, fmt.Errorf("could not parse '%s': %v: %w", c.Path, err, ml.DataErr)
	}
	attrs := inst.AllAttributes()
	if len(attrs) < 2 {
		return nil, fmt.Errorf("'%s' needs at least one feature and a label column: %w", c.Path, ml.DataErr)
	}
	specs := base.ResolveAttributes(inst, attrs)
	_, rows := inst.Size()

	samples := make([]ml.Sample, rows)
	err = inst.MapOverRows(specs, func(vals [][]byte, r int) (bool, error) {
		features := make([]float64, len(attrs)-1)
		for j := range features {
			v, err := value(attrs[j], vals[j])
			if err != nil {
				return false, fmt.Errorf("row %d column %d: %w", r, j, err)
			}
			features[j] = v
		}
		label, err := value(attrs[len(attrs)-1], vals[len(attrs)-1])
		if err != nil {
			return false, fmt.Errorf("row %d label: %w", r, err)
		}
		if label != math.Trunc(label) {
			return false, fmt.Errorf("row %d label %g is not an integer: %w", r, label, ml.DataErr)
		}
		samples[r] = ml.Sample{
			Features: features,
			Label:    int(label),
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not read '%s': %w", c.Path, err)
	}

	ds, err := ml.NewDataset(samples)
	if err != nil {
		return nil, fmt.Errorf("could not load '%s': %w", c.Path, err)
	}
	log.Info().
		Str("file", c.Path).
		Int("classes", len(ds.Classes())).
		Int("samples", ds.Len()).
		Int("features", ds.Dim()).
		Msg("loaded csv")
	return ds, nil
}

func value(attr base.Attribute, b []byte) (float64, error) {
	if _, ok := attr.(*base.FloatAttribute); ok {
		return base.UnpackBytesToFloat(b), nil
	}
	s := attr.GetStringFromSysVal(b)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not numeric: %w", s, ml.DataErr)
	}
	return v, nil
}

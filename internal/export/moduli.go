package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"tci/internal/arrival"
	"tci/internal/binding"
	"tci/internal/fileutil"
	"tci/internal/wave"
)

// ModuliInput is everything a moduli calculation may draw on. Param holds
// the named experimental parameter read at the experiment rows the output
// is keyed by.
type ModuliInput struct {
	Arrivals  map[wave.Type]arrival.Set
	Results   map[wave.Type]binding.Result
	Length    float64
	Density   float64
	ParamName string
	Param     []float64
}

// Moduli is a calculation result: one row per Keys entry, one named column
// per modulus.
type Moduli struct {
	KeyName string
	Keys    []float64
	Names   []string
	Values  map[string][]float64
}

// ModuliCalculator turns arrival times and specimen data into elastic moduli.
type ModuliCalculator interface {
	Compute(in ModuliInput) (Moduli, error)
}

// ModuliCalculatorFunc adapts a function to ModuliCalculator.
type ModuliCalculatorFunc func(in ModuliInput) (Moduli, error)

// Compute implements ModuliCalculator.
func (f ModuliCalculatorFunc) Compute(in ModuliInput) (Moduli, error) {
	return f(in)
}

// Validate checks that every column matches the key length.
func (m Moduli) Validate() error {
	if m.KeyName == "" {
		return fmt.Errorf("moduli: key column has no name")
	}
	for _, name := range m.Names {
		values, ok := m.Values[name]
		if !ok {
			return fmt.Errorf("moduli: column %q missing", name)
		}
		if len(values) != len(m.Keys) {
			return fmt.Errorf("moduli: column %q has %d values for %d keys", name, len(values), len(m.Keys))
		}
	}
	return nil
}

// WriteModuli writes the key column followed by every modulus column.
func WriteModuli(w io.Writer, m Moduli) error {
	if err := m.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	header := append([]string{m.KeyName}, m.Names...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write moduli header: %w", err)
	}
	for i, key := range m.Keys {
		record := make([]string, 0, len(header))
		record = append(record, formatFloat(key))
		for _, name := range m.Names {
			record = append(record, formatFloat(m.Values[name][i]))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write moduli row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteModuliFile writes m to path atomically.
func WriteModuliFile(path string, m Moduli) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return WriteModuli(w, m)
	})
}

package main

import (
	"math"
	"strconv"
	"strings"

	"tci/internal/wave"
)

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatWaves(waves []wave.Type) string {
	names := make([]string, len(waves))
	for i, w := range waves {
		names[i] = w.String()
	}
	return strings.Join(names, ",")
}

func parseWaveSet(value string) (wave.Set, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return wave.ParseSet(value)
}

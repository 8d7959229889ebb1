// Package export writes picked arrival times and derived moduli as CSV.
//
// The arrival table pairs, for each exported wave, the experiment time of
// every bound capture with its arrival time: columns time_<wave>,<wave> in
// P, Sx, Sy order. Waves with fewer captures are padded with empty cells and
// undefined arrivals are written as empty cells. ReadArrivals parses the
// same layout back.
//
// Moduli are computed elsewhere. This package only defines the
// ModuliCalculator contract and the CSV layout of its output.
package export

// Package experiment reads the experimental time series that sonic captures
// are bound against.
//
// A Record pairs one free-text comment per row with any number of named
// numeric parameter columns. The time parameter names the column used as
// the binding clock; other columns (stresses, strains, pore pressure) feed
// the picking y axis and the moduli export. Blank cells read as NaN.
package experiment

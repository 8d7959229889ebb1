// Package waveform holds raw sonic captures and the loader that reads them.
//
// A Store keeps one Record per capture file, grouped by wave family and keyed
// by filename. Records are immutable once loaded; a new load replaces the
// whole store. After binding discards spurious captures, Reindex rebuilds
// the per-wave table so that row k is the capture bound at local index k.
//
// Captures are LeCroy oscilloscope trace files (.trc). ReadTRC decodes the
// WAVEDESC block and the first data array into physical units.
package waveform

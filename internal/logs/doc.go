// Package logs reads the tci log file for `tci logs`: the last N lines, the
// lines after a saved offset, and a polling follow mode that stops with its
// context.
package logs

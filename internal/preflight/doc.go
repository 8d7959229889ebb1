// Package preflight provides readiness checks for the filesystem paths and
// workspace lock that tci depends on.
//
// The CLI "tci status" command runs RunAll and prints each Result; commands
// that mutate state surface a failed workspace lock check as a hint when
// the store cannot be opened.
package preflight

// Package session turns user actions into explicit, typed requests.
//
// A Session owns the active dataset: its snapshot, its waveform captures and
// the shape picker. Every action (load, bind, select a window, draw and
// commit a shape, export) is a request value passed to Dispatch, which runs
// it to completion, persists the resulting snapshot and returns a typed
// response. Dispatch is not re-entrant; a request issued while another is in
// flight fails with ErrBusy.
package session

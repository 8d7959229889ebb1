// Package state persists per-dataset interpretation state in SQLite.
//
// Each dataset id maps to one Snapshot: the experimental record, the binding
// results and report, the retained waveform captures, committed arrival sets,
// shapes in progress, the selected window and the arrivals-picked flag.
// Switching datasets is an explicit Save of the outgoing snapshot followed by
// a Load of the incoming one.
//
// The database lives at config.StatePath(). Open takes an exclusive file lock
// next to it so only one process mutates a workspace at a time.
package state

// Package main hosts the tci CLI entrypoint and command graph.
//
// Interpretation commands open the workspace state store, restore the active
// dataset into a session and dispatch one or more typed requests. The
// store's lock file keeps two invocations from mutating the same workspace
// at once. `config` and `logs` work without taking the lock.
package main

// Package textutil provides text helpers shared by the binder and the export
// layer.
//
// The primary use cases are:
//   - Normalizing annotation comments and waveform filenames to Unicode NFC so
//     that names produced on different filesystems join reliably
//   - Deciding whether an annotation cell is blank
//   - Turning dataset identifiers into file-name tokens for default exports
package textutil

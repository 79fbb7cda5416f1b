// Package ioutils provides the file system helpers used by the track cache.
//
// This package contains functions for:
//   - Directory creation
//   - Crash-safe file writes (temporary file + rename)
//   - Recognising and removing leftover temporary files
//
// # Atomic Writes
//
// WriteFileAtomic never leaves a partially written file at the final path:
//
//	err := ioutils.WriteFileAtomic(ctx, "/cache/aurora.mp3", data, nil)
//	// either /cache/aurora.mp3 holds all of data, or it does not exist
//
// An optional prepare callback runs against the temporary file before it is
// renamed into place, which is where downloaded tracks get their ID3 tags.
package ioutils

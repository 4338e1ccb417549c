package domain

import "errors"

// ErrSnapshotNotFound means no snapshot has been ingested yet (or it
// expired).
var ErrSnapshotNotFound = errors.New("factory snapshot not found")

package domain

import "errors"

var (
	// ErrStoreUnavailable means the backing record store exists but could not be
	// read or decoded. No query can proceed until a successful load.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNoRecords is returned by a RecordStore whose backing storage does not
	// exist yet (missing file, empty table).
	ErrNoRecords = errors.New("no records")
	ErrConflict  = errors.New("conflict")
	ErrNotNumber = errors.New("not a number")
)

package export

import "errors"

var (
	// ErrImageDecode is returned when a single image asset cannot be
	// decoded. Batch callers skip the asset and continue.
	ErrImageDecode = errors.New("image could not be decoded")

	// ErrEmptyExport is returned when no valid entries exist to package
	ErrEmptyExport = errors.New("nothing to export")
)

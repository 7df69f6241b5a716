package plour

import "errors"

// Decoding failures fall into three distinguishable kinds. Callers
// match them with errors.Is; message text is never part of the
// contract.
var (
	// ErrInvalidFormat marks input the decoder cannot recognize at
	// all: bad magic, unknown codec or encoding tags, a column path
	// missing from a row group. Retrying reads the same bytes, so
	// these are always fatal.
	ErrInvalidFormat = errors.New("invalid parquet data")

	// ErrNotSupported marks a recognized format feature this decoder
	// does not implement. The file is not corrupt; the decoder is
	// incomplete.
	ErrNotSupported = errors.New("parquet feature not supported")

	// ErrMissingCapability marks an optional runtime dependency that
	// is needed for the requested work but has not been registered.
	ErrMissingCapability = errors.New("missing optional capability")
)

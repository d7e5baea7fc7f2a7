package model

import "errors"

// Errors returned by the loaders.
var (
	// ErrUnsupportedFormat indicates the data source type is not recognised.
	ErrUnsupportedFormat = errors.New("unsupported data format")

	// ErrNoSheet indicates the requested worksheet does not exist.
	ErrNoSheet = errors.New("worksheet not found")

	// ErrInvalidJSON indicates the JSON document is malformed or has an
	// unexpected shape.
	ErrInvalidJSON = errors.New("invalid JSON table")

	// ErrInvalidScript indicates the Lua script failed to load or does
	// not define the required globals.
	ErrInvalidScript = errors.New("invalid table script")

	// ErrExecutionTimeout indicates a Lua call ran past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrEmptyQuery indicates a SQL source was given without a query.
	ErrEmptyQuery = errors.New("empty query")
)

package apperr

import "errors"

var (
	// List_files failure taxonomy. Each one is flattened to a plain
	// message string at the bridge boundary.
	ErrPathNotFound     = errors.New("path does not exist")
	ErrNotADirectory    = errors.New("path is not a directory")
	ErrDirectoryRead    = errors.New("failed to read directory")
	ErrInvalidEntryName = errors.New("entry name is not valid UTF-8")

	// Bridge-level failures.
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)

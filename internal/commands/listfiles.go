package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/sync/semaphore"

	"github.com/starford/dagaz/internal/apperr"
)

// DefaultMaxListings bounds how many directory enumerations may run at once.
const DefaultMaxListings = 4

// Lister runs directory enumerations. Listings execute off the shell's
// invocation path (one goroutine per bridge request); the semaphore keeps a
// burst of listings on a slow disk from starving the bridge.
type Lister struct {
	sem *semaphore.Weighted
}

// NewLister creates a Lister allowing up to maxConcurrent simultaneous
// listings. Non-positive values fall back to DefaultMaxListings.
func NewLister(maxConcurrent int64) *Lister {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxListings
	}
	return &Lister{sem: semaphore.NewWeighted(maxConcurrent)}
}

// ListFiles returns the names of the entries directly inside path.
//
// Failures map onto the apperr taxonomy: a missing path, a non-directory
// path, an enumeration failure, or an entry name that is not valid UTF-8.
// A single undecodable name fails the whole call; no partial listing is
// ever returned.
func (l *Lister) ListFiles(ctx context.Context, path string) ([]string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer l.sem.Release(1)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("%w '%s': %v", apperr.ErrDirectoryRead, path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotADirectory, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %v", apperr.ErrDirectoryRead, path, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: %q", apperr.ErrInvalidEntryName, name)
		}
		names = append(names, name)
	}
	return names, nil
}

// NewListFiles builds the list_files command on top of a Lister.
func NewListFiles(l *Lister) Command {
	return Command{
		Name:        "list_files",
		Description: "List file and directory names inside the given path.",
		Args: []Arg{
			{Name: "path", Description: "Directory path to enumerate", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]string) (any, error) {
			return l.ListFiles(ctx, args["path"])
		},
	}
}

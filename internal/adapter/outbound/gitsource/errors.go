package gitsource

import (
	"errors"
	"os"

	"upstreamproxy/internal/domain/failure"
	"upstreamproxy/internal/domain/failure/source"
	"upstreamproxy/internal/domain/failure/state"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// classifyError translates go-git errors into proxy failures. The path names the file
// being read, if any. Errors that are already failures pass through unchanged.
func classifyError(err error, path string) error {
	if err == nil {
		return nil
	}

	var fe failure.Error
	if errors.As(err, &fe) {
		return err
	}

	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return failure.ErrProjectNotFound
	}

	if errors.Is(err, object.ErrFileNotFound) || errors.Is(err, object.ErrDirectoryNotFound) ||
		errors.Is(err, object.ErrEntryNotFound) {
		return &failure.SourceError{Err: &source.PathNotFoundError{Path: path}}
	}

	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return &failure.StateError{Err: &state.StorageError{
			Err: &state.BlobError{Err: &state.BlobNotFoundError{Path: path}},
		}}
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return &failure.SourceError{Err: &source.IOError{Err: err}}
	}

	return &failure.SourceError{Err: &source.GitError{Err: err}}
}

// Package gitsource serves project repositories for browsing, reading them with go-git.
package gitsource

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"upstreamproxy/internal/application/common/slogger"
	"upstreamproxy/internal/domain/failure"
	"upstreamproxy/internal/domain/failure/source"
	"upstreamproxy/internal/port/outbound"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Opener opens the repository of a project.
type Opener func(project string) (*gogit.Repository, error)

// DirOpener opens projects stored as repositories directly under root.
func DirOpener(root string) Opener {
	return func(project string) (*gogit.Repository, error) {
		return gogit.PlainOpen(filepath.Join(root, project))
	}
}

// Browser implements outbound.SourceBrowser on go-git repositories.
type Browser struct {
	open Opener
}

// NewBrowser returns a Browser that opens repositories with open.
func NewBrowser(open Opener) *Browser {
	return &Browser{open: open}
}

func (b *Browser) repository(project string) (*gogit.Repository, error) {
	if !validProject(project) {
		return nil, failure.ErrProjectNotFound
	}
	repo, err := b.open(project)
	if err != nil {
		return nil, classifyError(err, "")
	}
	return repo, nil
}

func validProject(project string) bool {
	return project != "" && project != "." && project != ".." &&
		!strings.ContainsAny(project, `/\`)
}

// Branches lists the local branches of project, sorted by name.
func (b *Browser) Branches(ctx context.Context, project string) ([]outbound.Branch, error) {
	repo, err := b.repository(project)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Branches()
	if err != nil {
		return nil, classifyError(err, "")
	}
	defer iter.Close()

	var branches []outbound.Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, outbound.Branch{
			Name: ref.Name().Short(),
			Head: ref.Hash().String(),
		})
		return nil
	})
	if err != nil {
		return nil, classifyError(err, "")
	}

	if len(branches) == 0 {
		return nil, &failure.SourceError{Err: source.ErrNoBranches}
	}

	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })

	slogger.Debug(ctx, "Listed branches", slogger.Fields{"project": project, "count": len(branches)})
	return branches, nil
}

// Blob reads the file at path from the given revision of project.
func (b *Browser) Blob(ctx context.Context, project, revision, path string) (*outbound.Blob, error) {
	repo, err := b.repository(project)
	if err != nil {
		return nil, err
	}

	if revision == "" {
		revision = plumbing.HEAD.String()
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, &failure.SourceError{Err: &source.GitError{Err: err}}
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, classifyError(err, path)
	}

	file, err := commit.File(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, classifyError(err, path)
	}

	blob := &outbound.Blob{
		Path:     path,
		Revision: hash.String(),
		Hash:     file.Hash.String(),
		Size:     file.Size,
	}

	binary, err := file.IsBinary()
	if err != nil {
		return nil, classifyError(err, path)
	}
	blob.Binary = binary
	if binary {
		return blob, nil
	}

	content, err := file.Contents()
	if err != nil {
		return nil, classifyError(err, path)
	}
	blob.Content = content

	slogger.Debug(ctx, "Read blob", slogger.Fields{"project": project, "path": path, "revision": blob.Revision})
	return blob, nil
}

var _ outbound.SourceBrowser = (*Browser)(nil)

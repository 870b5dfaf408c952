package outbound

import "context"

// Branch is a branch of a project repository.
type Branch struct {
	Name string `json:"name"`
	Head string `json:"head"`
}

// Blob is the content of a file at a revision.
type Blob struct {
	Path     string `json:"path"`
	Revision string `json:"revision"`
	Hash     string `json:"hash"`
	Size     int64  `json:"size"`
	Binary   bool   `json:"binary"`
	Content  string `json:"content,omitempty"`
}

// SourceBrowser reads project repositories. Failures are reported as failure.Error values.
type SourceBrowser interface {
	Branches(ctx context.Context, project string) ([]Branch, error)
	// Blob returns the file at path. An empty revision means HEAD.
	Blob(ctx context.Context, project, revision, path string) (*Blob, error)
}

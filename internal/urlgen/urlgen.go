package urlgen

import (
	"context"
	"fmt"
	"strings"

	"repomd-proxy/internal/revision"
)

// DefaultStaticURL is the production root serving revision-addressed assets.
const DefaultStaticURL = "https://static.repo.md/projects"

// SharedFolder holds assets that are not revision-addressed.
const SharedFolder = "_shared"

// SqliteFileName is the packaged database file within a revision.
const SqliteFileName = "content.sqlite"

// Generator builds fully-qualified asset URLs for one project. Every
// revision-dependent accessor goes through the same resolver, so no two
// accessors can disagree about which revision is current.
type Generator struct {
	projectID string
	baseURL   string
	resolver  *revision.Resolver
}

// New creates a generator. baseURL defaults to DefaultStaticURL when empty.
func New(projectID, baseURL string, resolver *revision.Resolver) (*Generator, error) {
	if projectID == "" {
		return nil, revision.ErrMissingProjectID
	}
	if baseURL == "" {
		baseURL = DefaultStaticURL
	}
	return &Generator{
		projectID: projectID,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		resolver:  resolver,
	}, nil
}

// ProjectURL returns the project root, optionally suffixed with path.
func (g *Generator) ProjectURL(path string) string {
	root := fmt.Sprintf("%s/%s", g.baseURL, g.projectID)
	if path == "" {
		return root
	}
	return root + "/" + trimSlash(path)
}

// RevisionURL returns a revision-scoped asset URL, resolving "latest" through
// the shared resolver when needed.
func (g *Generator) RevisionURL(ctx context.Context, path string) (string, error) {
	rev, err := g.resolver.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/%s", g.baseURL, g.projectID, rev, trimSlash(path)), nil
}

// MediaURL returns a media asset URL. Media assets live under the shared
// folder, independent of any revision, so this never triggers resolution.
func (g *Generator) MediaURL(filename string) string {
	return fmt.Sprintf("%s/%s/%s/medias/%s", g.baseURL, g.projectID, SharedFolder, trimSlash(filename))
}

// SqliteURL returns the URL of the packaged database for the current revision.
func (g *Generator) SqliteURL(ctx context.Context) (string, error) {
	return g.RevisionURL(ctx, SqliteFileName)
}

// SharedFolderURL returns the shared-folder root, optionally suffixed.
func (g *Generator) SharedFolderURL(path string) string {
	root := fmt.Sprintf("%s/%s/%s", g.baseURL, g.projectID, SharedFolder)
	if path == "" {
		return root
	}
	return root + "/" + trimSlash(path)
}

// Resolver exposes the underlying revision resolver for diagnostics.
func (g *Generator) Resolver() *revision.Resolver {
	return g.resolver
}

func trimSlash(path string) string {
	return strings.TrimPrefix(path, "/")
}

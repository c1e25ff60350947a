package urlgen

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repomd-proxy/internal/revision"
)

func newLatestGenerator(t *testing.T, rev string, calls *int32) *Generator {
	t.Helper()

	resolve := func(ctx context.Context) (string, error) {
		atomic.AddInt32(calls, 1)
		return rev, nil
	}
	resolver, err := revision.NewResolver("P1", revision.Latest, resolve,
		revision.WithCacheDuration(time.Minute))
	require.NoError(t, err)

	gen, err := New("P1", "", resolver)
	require.NoError(t, err)
	return gen
}

func TestNew_MissingProjectID(t *testing.T) {
	_, err := New("", "", nil)

	assert.ErrorIs(t, err, revision.ErrMissingProjectID)
}

func TestGenerator_ProjectURL(t *testing.T) {
	var calls int32
	gen := newLatestGenerator(t, "rev-9", &calls)

	assert.Equal(t, "https://static.repo.md/projects/P1", gen.ProjectURL(""))
	assert.Equal(t, "https://static.repo.md/projects/P1/index.json", gen.ProjectURL("/index.json"))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestGenerator_RevisionURL_ResolvesLatest(t *testing.T) {
	var calls int32
	gen := newLatestGenerator(t, "rev-9", &calls)

	url, err := gen.RevisionURL(context.Background(), "/x/y.json")
	require.NoError(t, err)
	assert.Equal(t, "https://static.repo.md/projects/P1/rev-9/x/y.json", url)
}

func TestGenerator_RevisionURL_SecondPathReusesResolution(t *testing.T) {
	var calls int32
	gen := newLatestGenerator(t, "rev-9", &calls)

	first, err := gen.RevisionURL(context.Background(), "/x/y.json")
	require.NoError(t, err)
	second, err := gen.RevisionURL(context.Background(), "/z.json")
	require.NoError(t, err)

	assert.Equal(t, "https://static.repo.md/projects/P1/rev-9/x/y.json", first)
	assert.Equal(t, "https://static.repo.md/projects/P1/rev-9/z.json", second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "resolver called exactly once total")
}

func TestGenerator_MediaURL_NeverResolves(t *testing.T) {
	resolve := func(ctx context.Context) (string, error) {
		t.Fatal("media URL must not trigger resolution")
		return "", nil
	}
	resolver, err := revision.NewResolver("P1", revision.Latest, resolve)
	require.NoError(t, err)

	gen, err := New("P1", "", resolver)
	require.NoError(t, err)

	url := gen.MediaURL("logo.png")
	assert.Equal(t, "https://static.repo.md/projects/P1/_shared/medias/logo.png", url)
	assert.NotContains(t, url, "rev-")
}

func TestGenerator_SqliteURL(t *testing.T) {
	var calls int32
	gen := newLatestGenerator(t, "rev-9", &calls)

	url, err := gen.SqliteURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://static.repo.md/projects/P1/rev-9/content.sqlite", url)
}

func TestGenerator_SharedFolderURL(t *testing.T) {
	var calls int32
	gen := newLatestGenerator(t, "rev-9", &calls)

	assert.Equal(t, "https://static.repo.md/projects/P1/_shared", gen.SharedFolderURL(""))
	assert.Equal(t, "https://static.repo.md/projects/P1/_shared/fonts/a.woff", gen.SharedFolderURL("fonts/a.woff"))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestGenerator_LiteralRevision(t *testing.T) {
	resolver, err := revision.NewResolver("P1", "rev-42", func(ctx context.Context) (string, error) {
		t.Fatal("literal revision must never resolve")
		return "", nil
	})
	require.NoError(t, err)

	gen, err := New("P1", "https://static.example/projects", resolver)
	require.NoError(t, err)

	url, err := gen.RevisionURL(context.Background(), "a.json")
	require.NoError(t, err)
	assert.Equal(t, "https://static.example/projects/P1/rev-42/a.json", url)
}

func TestGenerator_CustomBaseURL_TrailingSlash(t *testing.T) {
	var calls int32
	resolve := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "rev-1", nil
	}
	resolver, err := revision.NewResolver("P1", revision.Latest, resolve)
	require.NoError(t, err)

	gen, err := New("P1", "https://cdn.example/projects/", resolver)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/projects/P1", gen.ProjectURL(""))
}

package resumatch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/ai"
	"github.com/poiesic/resumatch/ai/mock"
	"github.com/poiesic/resumatch/config"
	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/extract"
	"github.com/poiesic/resumatch/reindex"
)

const job = "Looking for a senior Python engineer with Docker, Kubernetes and SQL"

func plainRegistry(t *testing.T) *extract.Registry {
	t.Helper()
	reg := extract.NewEmptyRegistry()
	require.NoError(t, reg.Register(".txt", extract.NewPlainExtractor()))
	return reg
}

func seedResumes(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{
		"alice.txt": "Senior engineer with Python, Docker and Kubernetes. 7 years of experience.",
		"bob.txt":   "Frontend developer skilled in React, TypeScript and communication.",
		"carol.txt": "Data scientist using pandas, scikit-learn and SQL.",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func openTest(t *testing.T, indexDir string, dim int, opts ...Option) (*Engine, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProviderWithEmbedder(mock.NewMockEmbedderWithDimension(dim))
	opts = append([]Option{WithProvider(provider), WithTextExtractor(plainRegistry(t))}, opts...)
	e, err := Open(indexDir, opts...)
	require.NoError(t, err)
	return e, provider
}

func TestOpen(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		e, err := Open(t.TempDir())
		require.NoError(t, err)
		defer e.Close()

		stats := e.Stats()
		assert.Equal(t, 0, stats.TotalDocuments)
		assert.Equal(t, ai.DefaultDimension, stats.Dimension)
		assert.False(t, stats.IndexReady)
		assert.NotNil(t, e.Index())
	})

	t.Run("unknown backend", func(t *testing.T) {
		provider := mock.NewMockProvider()
		_, err := Open(t.TempDir(), WithProvider(provider), WithBackend("sqlite"))
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})

	t.Run("invalid ai config", func(t *testing.T) {
		_, err := Open(t.TempDir(), WithAIConfig(&ai.Config{Provider: "nope", Dimension: 8}))
		assert.Error(t, err)
	})

	t.Run("invalid ranker option", func(t *testing.T) {
		provider := mock.NewMockProvider()
		_, err := Open(t.TempDir(), WithProvider(provider), WithTextExtractor(plainRegistry(t)), WithAlpha(2))
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		provider := mock.NewMockProvider()
		_, err := Open(t.TempDir(), WithProvider(provider), WithExtensions(".rtf"))
		assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
	})
}

func TestEngine_IngestAndReopen(t *testing.T) {
	ctx := context.Background()
	resumes := seedResumes(t)

	for _, backend := range []string{config.BackendFile, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			indexDir := filepath.Join(t.TempDir(), "index")

			e, _ := openTest(t, indexDir, 16, WithBackend(backend))
			report, err := e.Ingest(ctx, resumes)
			require.NoError(t, err)
			assert.Equal(t, 3, report.Added)
			assert.Equal(t, 3, report.Total)
			require.NoError(t, e.Close())

			e, _ = openTest(t, indexDir, 16, WithBackend(backend))
			defer e.Close()
			stats := e.Stats()
			assert.Equal(t, 3, stats.TotalDocuments)
			assert.True(t, stats.IndexReady)

			report, err = e.Ingest(ctx, resumes)
			require.NoError(t, err)
			assert.Equal(t, 0, report.Added)
			assert.Equal(t, 3, report.SkippedExisting)
		})
	}
}

func TestEngine_Rank(t *testing.T) {
	ctx := context.Background()
	e, _ := openTest(t, t.TempDir(), 16, WithResults(2))
	defer e.Close()

	_, err := e.Rank(ctx, job)
	assert.ErrorIs(t, err, core.ErrNoCandidates)

	_, err = e.Ingest(ctx, seedResumes(t))
	require.NoError(t, err)

	results, err := e.Rank(ctx, job)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Rank)
	assert.GreaterOrEqual(t, results[0].HybridScore, results[1].HybridScore)

	results, err = e.RankN(ctx, job, 10, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	analysis, err := e.Explain(ctx, "alice.txt", job)
	require.NoError(t, err)
	assert.Contains(t, analysis.Strengths, "Has python")

	_, err = e.Explain(ctx, "nobody.txt", job)
	assert.ErrorIs(t, err, core.ErrDocumentNotFound)
}

func TestEngine_DimensionChange(t *testing.T) {
	ctx := context.Background()
	resumes := seedResumes(t)

	for _, backend := range []string{config.BackendFile, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			indexDir := t.TempDir()

			e, _ := openTest(t, indexDir, 16, WithBackend(backend))
			_, err := e.Ingest(ctx, resumes)
			require.NoError(t, err)
			require.NoError(t, e.Close())

			// A different dimension starts empty and overwrites on the next ingest.
			e, _ = openTest(t, indexDir, 8, WithBackend(backend))
			assert.Equal(t, 0, e.Stats().TotalDocuments)
			assert.Equal(t, 8, e.Stats().Dimension)
			report, err := e.Ingest(ctx, resumes)
			require.NoError(t, err)
			assert.Equal(t, 3, report.Added)
			require.NoError(t, e.Close())

			e, _ = openTest(t, indexDir, 8, WithBackend(backend))
			defer e.Close()
			assert.Equal(t, 3, e.Stats().TotalDocuments)
		})
	}
}

func TestEngine_Reindex(t *testing.T) {
	ctx := context.Background()
	indexDir := t.TempDir()

	e, _ := openTest(t, indexDir, 16)
	_, err := e.Ingest(ctx, seedResumes(t))
	require.NoError(t, err)
	require.NoError(t, e.Close())

	e, _ = openTest(t, indexDir, 8)
	defer e.Close()
	require.Equal(t, 0, e.Stats().TotalDocuments)

	var progress bytes.Buffer
	n, err := e.Reindex(ctx, nil, &progress)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, e.Stats().TotalDocuments)
	assert.Equal(t, 8, e.Stats().Dimension)
	assert.Contains(t, progress.String(), "Reindex complete")

	results, err := e.Rank(ctx, job)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestEngine_ReindexEmpty(t *testing.T) {
	e, _ := openTest(t, t.TempDir(), 16)
	defer e.Close()

	n, err := e.Reindex(context.Background(), reindex.DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEngine_Close(t *testing.T) {
	e, provider := openTest(t, t.TempDir(), 16)
	require.NoError(t, e.Close())
	assert.False(t, provider.Closed(), "injected provider belongs to the caller")
}

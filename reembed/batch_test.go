package reembed

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/petmatch/ai/mock"
	"github.com/poiesic/petmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchProcessor_Process(t *testing.T) {
	_, cache := setupTestDB(t)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{3, 4}
		}
		return out, nil
	}
	processor := NewBatchProcessor(cache, embedder, fastBackoff(3), false)

	reports := makeReports(2)
	stats, err := processor.Process(ctx, reports)
	require.NoError(t, err)
	assert.Equal(t, BatchStats{Embedded: 2}, stats)

	for _, r := range reports {
		vec, ok, err := cache.GetEmbedding(ctx, core.ContentKey(&r.Profile))
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, 0.6, vec[0], 0.001, "vector should be normalized")
		assert.InDelta(t, 0.8, vec[1], 0.001, "vector should be normalized")
	}
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	_, cache := setupTestDB(t)
	embedder := mock.NewMockEmbedder()
	processor := NewBatchProcessor(cache, embedder, fastBackoff(3), false)

	stats, err := processor.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestBatchProcessor_SkipsCachedAndDuplicates(t *testing.T) {
	_, cache := setupTestDB(t)
	ctx := context.Background()

	cached := makeReport(1, "black")
	require.NoError(t, cache.PutEmbedding(ctx, core.ContentKey(&cached.Profile), []float32{1, 0}))

	twinA := makeReport(2, "white")
	twinB := makeReport(3, "white")
	fresh := makeReport(4, "brown")

	var embedded []string
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		embedded = append(embedded, texts...)
		return [][]float32{{1, 1}, {0, 1}}[:len(texts)], nil
	}

	stats, err := NewBatchProcessor(cache, embedder, fastBackoff(1), false).
		Process(ctx, []*core.Report{cached, twinA, twinB, fresh})
	require.NoError(t, err)
	assert.Equal(t, BatchStats{Embedded: 2, Cached: 1, Duplicates: 1}, stats)
	assert.Equal(t, []string{core.CanonicalText(&twinA.Profile), core.CanonicalText(&fresh.Profile)}, embedded)

	vec, ok, err := cache.GetEmbedding(ctx, core.ContentKey(&cached.Profile))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0}, vec, "cached vector untouched")
}

func TestBatchProcessor_Force(t *testing.T) {
	_, cache := setupTestDB(t)
	ctx := context.Background()

	report := makeReport(1)
	key := core.ContentKey(&report.Profile)
	require.NoError(t, cache.PutEmbedding(ctx, key, []float32{1, 0}))

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{0, 2}}, nil
	}

	stats, err := NewBatchProcessor(cache, embedder, fastBackoff(1), true).Process(ctx, []*core.Report{report})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Embedded)

	vec, _, err := cache.GetEmbedding(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, vec)
}

func TestBatchProcessor_Retry(t *testing.T) {
	_, cache := setupTestDB(t)

	attempts := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("temporary error")
		}
		return [][]float32{{1, 0, 0}}, nil
	}

	stats, err := NewBatchProcessor(cache, embedder, fastBackoff(3), false).
		Process(context.Background(), makeReports(1))
	require.NoError(t, err)
	assert.Equal(t, 2, attempts, "should retry on failure")
	assert.Equal(t, 1, stats.Embedded)
}

func TestBatchProcessor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		embed   func(ctx context.Context, texts []string) ([][]float32, error)
		wantErr error
		wantMsg string
	}{
		{
			name: "embedder fails",
			embed: func(ctx context.Context, texts []string) ([][]float32, error) {
				return nil, errors.New("embedding error")
			},
			wantMsg: "embedding error",
		},
		{
			name: "count mismatch",
			embed: func(ctx context.Context, texts []string) ([][]float32, error) {
				return [][]float32{{1}}, nil
			},
			wantErr: ErrEmbeddingMismatch,
		},
		{
			name: "empty vector",
			embed: func(ctx context.Context, texts []string) ([][]float32, error) {
				return make([][]float32, len(texts)), nil
			},
			wantErr: ErrEmbeddingMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cache := setupTestDB(t)
			embedder := mock.NewMockEmbedder()
			embedder.EmbedTextsFunc = tt.embed

			_, err := NewBatchProcessor(cache, embedder, fastBackoff(2), false).
				Process(context.Background(), makeReports(2))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBatchProcessor_ContextCancellation(t *testing.T) {
	_, cache := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		cancel()
		return nil, errors.New("error")
	}

	_, err := NewBatchProcessor(cache, embedder, fastBackoff(3), false).Process(ctx, makeReports(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, embedder.CallCount())
}

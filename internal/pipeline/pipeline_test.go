package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
	"github.com/couchcryptid/covid19-tracker-bot/internal/observability"
	"github.com/couchcryptid/covid19-tracker-bot/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawEvent
	errs    []error
	calls   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	i := int(m.calls.Add(1) - 1)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	errs map[string]error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if err := m.errs[string(raw.Key)]; err != nil {
		return domain.OutputEvent{}, err
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	mu       sync.Mutex
	loaded   []domain.OutputEvent
	failures int
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func (m *mockLoader) Loaded() []domain.OutputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OutputEvent(nil), m.loaded...)
}

// --- helpers ---

func rawEvent(key string, committed *[]string, mu *sync.Mutex) domain.RawEvent {
	return domain.RawEvent{
		Key:   []byte(key),
		Value: []byte(`{"chat_id":1,"text":"/help"}`),
		Topic: "chat-commands",
		Commit: func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			*committed = append(*committed, key)
			return nil
		},
	}
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	var mu sync.Mutex
	var committed []string
	ext := &mockExtractor{batches: [][]domain.RawEvent{{
		rawEvent("a", &committed, &mu),
		rawEvent("b", &committed, &mu),
	}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.Loaded(), 2)
	assert.Equal(t, []string{"a", "b"}, committed)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.CommandsConsumed), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RepliesProduced), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.Loaded())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CommandErrorSkipsAndCommits(t *testing.T) {
	var mu sync.Mutex
	var committed []string
	ext := &mockExtractor{batches: [][]domain.RawEvent{{
		rawEvent("bad", &committed, &mu),
		rawEvent("good", &committed, &mu),
	}}}
	tfm := &mockTransformer{errs: map[string]error{"bad": errors.New("parse chat command: missing chat_id")}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.Loaded(), 1)
	assert.Equal(t, []byte("good"), ldr.Loaded()[0].Key)
	assert.ElementsMatch(t, []string{"bad", "good"}, committed)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CommandErrors), 0)
}

func TestPipeline_Run_SkippedMessagesAreNotErrors(t *testing.T) {
	var mu sync.Mutex
	var committed []string
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawEvent("chatter", &committed, &mu)}}}
	tfm := &mockTransformer{errs: map[string]error{"chatter": pipeline.ErrSkipped}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.Loaded())
	assert.Equal(t, []string{"chatter"}, committed)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.CommandErrors), 0)
}

func TestPipeline_Run_RetriesAfterExtractError(t *testing.T) {
	var mu sync.Mutex
	var committed []string
	ext := &mockExtractor{
		errs:    []error{errors.New("leader not available")},
		batches: [][]domain.RawEvent{nil, {rawEvent("a", &committed, &mu)}},
	}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, time.Second)

	assert.Len(t, ldr.Loaded(), 1)
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	var mu sync.Mutex
	var committed []string
	ext := &mockExtractor{batches: [][]domain.RawEvent{{rawEvent("a", &committed, &mu)}}}
	ldr := &mockLoader{failures: 1}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 500*time.Millisecond)

	assert.Empty(t, ldr.Loaded())
	assert.Empty(t, committed)
}

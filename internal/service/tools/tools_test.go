package tools

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/internal/service/directory"
)

// stubAI replays scripted replies in order and records every call. When the
// script runs out the last reply repeats.
type stubAI struct {
	replies []string
	err     error
	calls   [][]core.Message
}

func (s *stubAI) Chat(_ context.Context, messages []core.Message) (core.Message, error) {
	s.calls = append(s.calls, messages)
	if s.err != nil {
		return core.Message{}, s.err
	}
	i := len(s.calls) - 1
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return core.Message{Role: core.RoleAssistant, Content: s.replies[i]}, nil
}

type stubEmbedder struct {
	vectors [][]float32
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

type stubDocuments struct {
	count     int64
	countErr  error
	chunks    []core.ScoredChunk
	searchErr error
}

func (s *stubDocuments) AddChunks(context.Context, []core.DocumentChunk) error { return nil }

func (s *stubDocuments) Search(context.Context, []float32, int) ([]core.ScoredChunk, error) {
	return s.chunks, s.searchErr
}

func (s *stubDocuments) CountChunks(context.Context) (int64, error) {
	return s.count, s.countErr
}

type stubEvents struct {
	schema    string
	schemaErr error
	columns   []string
	rows      [][]string
	selectErr error
	gotQuery  string
}

func (s *stubEvents) Schema(context.Context) (string, error) {
	return s.schema, s.schemaErr
}

func (s *stubEvents) Select(_ context.Context, query string) ([]string, [][]string, error) {
	s.gotQuery = query
	return s.columns, s.rows, s.selectErr
}

func (s *stubEvents) CountEvents(context.Context) (int64, error) {
	return int64(len(s.rows)), nil
}

func testDirectory(t *testing.T) *directory.Directory {
	t.Helper()
	dir, err := directory.Load("")
	require.NoError(t, err)
	return dir
}

func testPipelineConfig() *config.PipelineConfig {
	return &config.PipelineConfig{
		DistanceThreshold: 0.7,
		TopK:              4,
		HistoryWindow:     10,
	}
}

func scored(text string, distance float64) core.ScoredChunk {
	return core.ScoredChunk{
		DocumentChunk: core.DocumentChunk{Document: "handbook.txt", Text: text},
		Distance:      distance,
	}
}

func TestRetrievalGroundedAnswer(t *testing.T) {
	ai := &stubAI{replies: []string{"The library is open from 8am to 10pm."}}
	docs := &stubDocuments{
		count: 12,
		chunks: []core.ScoredChunk{
			scored("Library hours: 8am to 10pm on weekdays.", 0.31),
			scored("The library is in Block C.", 0.52),
		},
	}
	chain := NewRetrieval(&stubEmbedder{vectors: [][]float32{{0.1, 0.2}}}, docs, ai, testDirectory(t), testPipelineConfig())

	answer, err := chain.Run(context.Background(), "When is the library open?", nil)
	require.NoError(t, err)
	assert.Equal(t, core.RouteRetrieval, answer.Source)
	assert.Equal(t, "The library is open from 8am to 10pm.", answer.Text)
	assert.InDelta(t, 0.31, answer.Score, 1e-9)

	require.Len(t, ai.calls, 1)
	prompt := ai.calls[0][1].Content
	assert.Contains(t, prompt, "Library hours: 8am to 10pm on weekdays.")
	assert.Contains(t, prompt, "The library is in Block C.")
	assert.Contains(t, prompt, "When is the library open?")
}

func TestRetrievalBelowThreshold(t *testing.T) {
	ai := &stubAI{replies: []string{"should never be called"}}
	docs := &stubDocuments{
		count:  12,
		chunks: []core.ScoredChunk{scored("Unrelated text about parking.", 1.18)},
	}
	chain := NewRetrieval(&stubEmbedder{vectors: [][]float32{{0.1}}}, docs, ai, testDirectory(t), testPipelineConfig())

	answer, err := chain.Run(context.Background(), "What is the refund policy?", nil)
	require.NoError(t, err)
	assert.Equal(t, core.RouteRetrieval, answer.Source)
	assert.Contains(t, answer.Text, "couldn't find anything about that")
	assert.Contains(t, answer.Text, "Main Administrative Office")
	assert.InDelta(t, 1.18, answer.Score, 1e-9)
	assert.Empty(t, ai.calls, "no generation below the confidence threshold")
}

func TestRetrievalEmptyIndex(t *testing.T) {
	chain := NewRetrieval(&stubEmbedder{}, &stubDocuments{count: 0}, &stubAI{}, testDirectory(t), testPipelineConfig())

	answer, err := chain.Run(context.Background(), "What are the hostel rules?", nil)
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "hasn't been set up")
	assert.Contains(t, answer.Text, "Main Administrative Office")
	assert.Zero(t, answer.Score)
}

func TestRetrievalEmbedFailureDegrades(t *testing.T) {
	embedder := &stubEmbedder{err: fmt.Errorf("embedding api unreachable")}
	chain := NewRetrieval(embedder, &stubDocuments{count: 5}, &stubAI{}, testDirectory(t), testPipelineConfig())

	answer, err := chain.Run(context.Background(), "What are the hostel rules?", nil)
	require.NoError(t, err, "external failures must not escape the chain")
	assert.Equal(t, core.RouteRetrieval, answer.Source)
	assert.Contains(t, answer.Text, "couldn't search")
}

func TestRetrievalGenerationFailureDegrades(t *testing.T) {
	ai := &stubAI{err: fmt.Errorf("model overloaded")}
	docs := &stubDocuments{count: 5, chunks: []core.ScoredChunk{scored("Some passage.", 0.2)}}
	chain := NewRetrieval(&stubEmbedder{vectors: [][]float32{{0.1}}}, docs, ai, testDirectory(t), testPipelineConfig())

	answer, err := chain.Run(context.Background(), "Tell me about exams", nil)
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "couldn't compose an answer")
}

func TestLookupHappyPath(t *testing.T) {
	ai := &stubAI{replies: []string{
		"```sql\nSELECT event_name, start_datetime FROM events WHERE date(start_datetime) = '2025-10-10'\n```",
		"Tech Fest 2025 is on 10 October 2025.",
	}}
	events := &stubEvents{
		schema:  "CREATE TABLE events (event_id INTEGER, event_name TEXT, start_datetime TEXT)",
		columns: []string{"event_name", "start_datetime"},
		rows:    [][]string{{"Tech Fest 2025", "2025-10-10T09:00:00"}},
	}
	chain := NewLookup(events, ai)

	answer, err := chain.Run(context.Background(), "What events are on October 10?", nil)
	require.NoError(t, err)
	assert.Equal(t, core.RouteLookup, answer.Source)
	assert.Equal(t, "Tech Fest 2025 is on 10 October 2025.", answer.Text)

	assert.Equal(t,
		"SELECT event_name, start_datetime FROM events WHERE date(start_datetime) = '2025-10-10' LIMIT 25",
		events.gotQuery)

	require.Len(t, ai.calls, 2)
	assert.Contains(t, ai.calls[0][1].Content, "CREATE TABLE events")
	assert.Contains(t, ai.calls[1][1].Content, "Tech Fest 2025 | 2025-10-10T09:00:00")
}

func TestLookupRejectsUnsafeSQL(t *testing.T) {
	ai := &stubAI{replies: []string{"DROP TABLE events"}}
	events := &stubEvents{schema: "CREATE TABLE events (event_id INTEGER)"}
	chain := NewLookup(events, ai)

	answer, err := chain.Run(context.Background(), "delete everything", nil)
	require.NoError(t, err)
	assert.Equal(t, lookupDegradedText, answer.Text)
	assert.Empty(t, events.gotQuery, "rejected statement must never reach the database")
}

func TestLookupQueryFailureDegrades(t *testing.T) {
	ai := &stubAI{replies: []string{"SELECT nope FROM events"}}
	events := &stubEvents{
		schema:    "CREATE TABLE events (event_id INTEGER)",
		selectErr: fmt.Errorf("no such column: nope"),
	}
	chain := NewLookup(events, ai)

	answer, err := chain.Run(context.Background(), "when is the fest", nil)
	require.NoError(t, err)
	assert.Equal(t, lookupDegradedText, answer.Text)
	assert.Equal(t, core.RouteLookup, answer.Source)
}

func TestLookupSynthesisFailureFallsBackToRows(t *testing.T) {
	ai := &stubAI{replies: []string{
		"SELECT event_name FROM events",
		"", // empty synthesis counts as failure
	}}
	events := &stubEvents{
		schema:  "CREATE TABLE events (event_id INTEGER, event_name TEXT)",
		columns: []string{"event_name"},
		rows:    [][]string{{"Tech Fest 2025"}, {"CodeClash"}},
	}
	chain := NewLookup(events, ai)

	answer, err := chain.Run(context.Background(), "list events", nil)
	require.NoError(t, err)
	assert.Equal(t, "event_name\nTech Fest 2025\nCodeClash", answer.Text)
	assert.Equal(t, core.RouteLookup, answer.Source)
}

func TestDirectoryChain(t *testing.T) {
	chain := NewDirectoryChain(testDirectory(t))

	answer, err := chain.Run(context.Background(), "Who do I contact about my exam results?", nil)
	require.NoError(t, err)
	assert.Equal(t, core.RouteDirectory, answer.Source)
	assert.Contains(t, answer.Text, "Examination Cell")
	assert.Contains(t, answer.Text, "Email:")

	answer, err = chain.Run(context.Background(), "something entirely unrelated", nil)
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "Main Administrative Office")
}

func TestGeneralWindowsHistory(t *testing.T) {
	ai := &stubAI{replies: []string{"Hello again!"}}
	chain := NewGeneral(ai, 4)

	var history []core.Turn
	for i := 0; i < 10; i++ {
		history = append(history, core.Turn{Role: core.RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	answer, err := chain.Run(context.Background(), "hi there", history)
	require.NoError(t, err)
	assert.Equal(t, "Hello again!", answer.Text)
	assert.Equal(t, core.RouteGeneral, answer.Source)

	require.Len(t, ai.calls, 1)
	messages := ai.calls[0]
	// system + 4 history turns + query
	require.Len(t, messages, 6)
	assert.Equal(t, core.RoleSystem, messages[0].Role)
	assert.Equal(t, "turn 6", messages[1].Content)
	assert.Equal(t, "turn 9", messages[4].Content)
	assert.Equal(t, "hi there", messages[5].Content)
}

func TestGeneralFailureDegrades(t *testing.T) {
	chain := NewGeneral(&stubAI{err: fmt.Errorf("timeout")}, 10)

	answer, err := chain.Run(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, generalDegradedText, answer.Text)
	assert.Equal(t, core.RouteGeneral, answer.Source)
}

func TestRegistryResolve(t *testing.T) {
	retrieval := &General{}
	lookup := &General{}
	dir := &General{}
	general := &General{}
	reg := NewRegistry(retrieval, lookup, dir, general)

	assert.Same(t, Chain(retrieval), reg.Resolve(core.RouteRetrieval))
	assert.Same(t, Chain(lookup), reg.Resolve(core.RouteLookup))
	assert.Same(t, Chain(dir), reg.Resolve(core.RouteDirectory))
	assert.Same(t, Chain(general), reg.Resolve(core.RouteGeneral))
	assert.Same(t, Chain(general), reg.Resolve(core.Route("bogus")))
}

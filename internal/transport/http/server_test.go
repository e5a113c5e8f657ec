package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/internal/service/ingest"
)

type stubResponder struct {
	answer    core.Answer
	err       error
	gotID     string
	gotQuery  string
	gotLang   string
	callCount int
}

func (s *stubResponder) Respond(_ context.Context, sessionID, query, language string) (core.Answer, error) {
	s.callCount++
	s.gotID = sessionID
	s.gotQuery = query
	s.gotLang = language
	return s.answer, s.err
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

type stubDocuments struct {
	count  int64
	chunks []core.DocumentChunk
}

func (s *stubDocuments) AddChunks(_ context.Context, chunks []core.DocumentChunk) error {
	s.chunks = append(s.chunks, chunks...)
	s.count += int64(len(chunks))
	return nil
}

func (s *stubDocuments) Search(context.Context, []float32, int) ([]core.ScoredChunk, error) {
	return nil, nil
}

func (s *stubDocuments) CountChunks(context.Context) (int64, error) {
	return s.count, nil
}

func newTestServer(responder Responder, docs *stubDocuments) *Server {
	appCfg := &config.AppConfig{HTTPAddr: ":0"}
	pipelineCfg := &config.PipelineConfig{ChatRatePerSecond: 1000, ChatBurst: 1000}
	ingester := ingest.New(stubEmbedder{}, docs, &config.RAGConfig{ChunkMaxTokens: 400, ChunkOverlapTokens: 50})
	return NewServer(context.Background(), appCfg, pipelineCfg, responder, ingester, docs)
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	responder := &stubResponder{answer: core.Answer{Text: "The fest is on October 10.", Source: core.RouteLookup, Score: 0.4}}
	server := newTestServer(responder, &stubDocuments{})

	rec := postJSON(t, server.httpServer.Handler, "/chat",
		`{"query":"when is the fest","language":"en","session_id":"abc"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The fest is on October 10.", resp.Answer)
	assert.Equal(t, "lookup", resp.Source)
	assert.Equal(t, "abc", resp.SessionID)
	assert.Equal(t, "abc", responder.gotID)
	assert.Equal(t, "when is the fest", responder.gotQuery)
	assert.Equal(t, "en", responder.gotLang)
}

func TestChatGeneratesSessionID(t *testing.T) {
	responder := &stubResponder{answer: core.Answer{Text: "hi", Source: core.RouteGeneral}}
	server := newTestServer(responder, &stubDocuments{})

	rec := postJSON(t, server.httpServer.Handler, "/chat", `{"query":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, resp.SessionID, responder.gotID)
	assert.Len(t, resp.SessionID, 36, "generated ids are uuids")
}

func TestChatRejectsMalformedRequests(t *testing.T) {
	responder := &stubResponder{answer: core.Answer{Text: "x", Source: core.RouteGeneral}}
	server := newTestServer(responder, &stubDocuments{})

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"missing query", `{"language":"en"}`},
		{"blank query", `{"query":"   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, server.httpServer.Handler, "/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, responder.callCount, "malformed requests never reach the pipeline")
}

func TestChatPipelineError(t *testing.T) {
	responder := &stubResponder{err: fmt.Errorf("boom")}
	server := newTestServer(responder, &stubDocuments{})

	rec := postJSON(t, server.httpServer.Handler, "/chat", `{"query":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestChatRateLimit(t *testing.T) {
	responder := &stubResponder{answer: core.Answer{Text: "ok", Source: core.RouteGeneral}}
	server := newTestServer(responder, &stubDocuments{})
	server.limiter.SetBurst(2)
	server.limiter.SetLimit(0)

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		rec := postJSON(t, server.httpServer.Handler, "/chat", `{"query":"hello"}`)
		codes[rec.Code]++
	}
	assert.Equal(t, 2, codes[http.StatusOK])
	assert.Equal(t, 3, codes[http.StatusTooManyRequests])
}

func TestStatusEndpoint(t *testing.T) {
	server := newTestServer(&stubResponder{}, &stubDocuments{count: 7})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, core.BotName, resp["service"])
	assert.EqualValues(t, 7, resp["document_chunks"])
}

func TestDocumentsEndpoint(t *testing.T) {
	docs := &stubDocuments{}
	server := newTestServer(&stubResponder{}, docs)

	rec := postJSON(t, server.httpServer.Handler, "/documents",
		`{"name":"hostel.txt","text":"Hostel gates close at 10pm. Visitors sign in at the desk."}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hostel.txt")
	require.NotEmpty(t, docs.chunks)
	assert.Equal(t, "hostel.txt", docs.chunks[0].Document)

	rec = postJSON(t, server.httpServer.Handler, "/documents", `{"name":"x.txt"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUIEndpoint(t *testing.T) {
	server := newTestServer(&stubResponder{}, &stubDocuments{})

	req := httptest.NewRequest(http.MethodGet, "/ui", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "CampusBot"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(&stubResponder{}, &stubDocuments{})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

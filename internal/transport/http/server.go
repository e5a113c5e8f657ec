package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/internal/service/ingest"
	"github.com/campushq/campusbot/pkg/log"
)

//go:embed web/index.html
var chatPage []byte

// Responder is the slice of the pipeline orchestrator the transport needs.
type Responder interface {
	Respond(ctx context.Context, sessionID, query, language string) (core.Answer, error)
}

// Server is the JSON HTTP front of the assistant. It implements srv.Service.
type Server struct {
	httpServer *http.Server
	responder  Responder
	ingester   *ingest.Ingester
	documents  core.DocumentRepository
	limiter    *rate.Limiter
}

func NewServer(
	ctx context.Context,
	appCfg *config.AppConfig,
	pipelineCfg *config.PipelineConfig,
	responder Responder,
	ingester *ingest.Ingester,
	documents core.DocumentRepository,
) *Server {
	s := &Server{
		responder: responder,
		ingester:  ingester,
		documents: documents,
		limiter:   rate.NewLimiter(rate.Limit(pipelineCfg.ChatRatePerSecond), pipelineCfg.ChatBurst),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleStatus)
	mux.HandleFunc("GET /ui", s.handleUI)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /documents", s.handleDocuments)

	s.httpServer = &http.Server{
		Addr:              appCfg.HTTPAddr,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
		// Requests run a chain of model calls; keep the write window generous.
		WriteTimeout: 5 * time.Minute,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.httpServer.Addr).Msg("starting http server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

type chatRequest struct {
	Query     string `json:"query"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Answer    string  `json:"answer"`
	Source    string  `json:"source"`
	SessionID string  `json:"session_id"`
	Score     float64 `json:"score,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	answer, err := s.responder.Respond(ctx, sessionID, req.Query, req.Language)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("chat pipeline failed")
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:    answer.Text,
		Source:    string(answer.Source),
		SessionID: sessionID,
		Score:     answer.Score,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	count, err := s.documents.CountChunks(r.Context())
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("document count failed")
		count = -1
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service":         core.BotName,
		"status":          "ok",
		"document_chunks": count,
	})
}

type documentRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "name and text are required")
		return
	}

	chunks, err := s.ingester.IngestText(ctx, req.Name, req.Text)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("document", req.Name).Msg("document ingest failed")
		writeError(w, http.StatusUnprocessableEntity, "document could not be ingested")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"document": req.Name,
		"chunks":   chunks,
	})
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(chatPage)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

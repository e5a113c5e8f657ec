package core

import "time"

const (
	BotName       = "CampusBot"
	BotUserAgent  = "CampusBot/0.1"
	BotVersion    = "0.1.0"
	RepositoryURL = "https://github.com/campushq/campusbot"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Route identifies which tool chain handles a query. Exactly one route is
// chosen per request; the decision is never persisted.
type Route string

const (
	RouteRetrieval Route = "retrieval"
	RouteLookup    Route = "lookup"
	RouteDirectory Route = "directory"
	RouteGeneral   Route = "general"
)

// Routes lists every valid route tag, used by the router prompt and for
// validating model output.
var Routes = []Route{RouteRetrieval, RouteLookup, RouteDirectory, RouteGeneral}

// ParseRoute maps free-form text to a Route, returning false when the text
// matches no known tag.
func ParseRoute(s string) (Route, bool) {
	for _, r := range Routes {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Turn is one user or assistant message in a session. Immutable once
// appended; the pipeline never rewrites past turns.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// Answer is the final result of one pipeline run. Text is in Language;
// Score carries the best similarity distance when the retrieval chain
// produced the answer.
type Answer struct {
	Text       string  `json:"text"`
	Source     Route   `json:"source"`
	Score      float64 `json:"score,omitempty"`
	Language   string  `json:"language"`
	Translated bool    `json:"translated"`
}

// Message is the wire shape shared by all chat-completion providers.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DirectoryEntry is one department in the static contact directory, loaded
// once at process start and read-only thereafter.
type DirectoryEntry struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location"`
}

// Event mirrors the events table consumed by the structured lookup chain.
type Event struct {
	ID          string    `json:"event_id"`
	Name        string    `json:"event_name"`
	Description string    `json:"event_description"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start_datetime"`
	End         time.Time `json:"end_datetime"`
	LastUpdated time.Time `json:"last_updated"`
}

// DocumentChunk is one embedded slice of an ingested document.
type DocumentChunk struct {
	Document  string    `json:"document"`
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
}

// ScoredChunk is a chunk returned by similarity search. Distance is L2,
// lower is better.
type ScoredChunk struct {
	DocumentChunk
	Distance float64 `json:"distance"`
}

package core

import "context"

// AIProvider is a hosted chat-completion model.
type AIProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

// Embedder converts texts into dense vectors. All texts share one model so
// vectors are comparable.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Detector classifies the language of a text, returning a BCP-47-ish tag
// such as "en" or "hi".
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

// Translator converts text between languages. Implementations must treat
// source == target as identity.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

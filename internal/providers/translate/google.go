package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/pkg/retry"
)

// Google wraps the Cloud Translation v2 REST API. It implements both
// core.Translator and core.Detector.
type Google struct {
	client  *http.Client
	retrier *retry.Retrier
	baseURL string
	apiKey  string
}

func NewGoogle(cfg *config.TranslateConfig) *Google {
	return &Google{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		retrier: retry.NewDefaultRetrier(),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == target || text == "" {
		return text, nil
	}

	body := map[string]any{
		"q":      text,
		"source": source,
		"target": target,
		"format": "text",
	}

	var result struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
	}
	if err := g.post(ctx, "/language/translate/v2", body, &result); err != nil {
		return "", err
	}
	if len(result.Data.Translations) == 0 {
		return "", fmt.Errorf("translate: empty response")
	}
	return result.Data.Translations[0].TranslatedText, nil
}

func (g *Google) Detect(ctx context.Context, text string) (string, error) {
	body := map[string]any{"q": text}

	var result struct {
		Data struct {
			Detections [][]struct {
				Language   string  `json:"language"`
				Confidence float64 `json:"confidence"`
			} `json:"detections"`
		} `json:"data"`
	}
	if err := g.post(ctx, "/language/translate/v2/detect", body, &result); err != nil {
		return "", err
	}
	if len(result.Data.Detections) == 0 || len(result.Data.Detections[0]) == 0 {
		return "", fmt.Errorf("detect: empty response")
	}

	best := result.Data.Detections[0][0]
	if best.Language == "" || best.Language == "und" {
		return "", fmt.Errorf("detect: inconclusive")
	}
	return best.Language, nil
}

func (g *Google) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s?key=%s", g.baseURL, path, url.QueryEscape(g.apiKey))

	return g.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("http %d: %s", resp.StatusCode, string(raw))
		}
		return json.Unmarshal(raw, out)
	})
}

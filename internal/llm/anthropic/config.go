package anthropic

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	// A small, fast model is enough for the two normalization tasks.
	defaultModel = "claude-haiku-4-5-20251001"

	focusMaxTokens   = 100
	summaryMaxTokens = 1000
)

type Config struct {
	BaseURL string        // defaults to the public API endpoint
	APIKey  string        // required
	Model   string        // defaults to defaultModel
	Timeout time.Duration // defaults to 45s
}

// Client implements llm.FocusNormalizer and llm.ActionSummarizer against
// the Anthropic Messages API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": apiVersion,
	}
}

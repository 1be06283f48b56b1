package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lisaguthrie/sipdash/internal/common"
	"github.com/lisaguthrie/sipdash/internal/llm"
)

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HTTPEmbedder calls an OpenAI-compatible /v1/embeddings endpoint. A local
// server fronting all-MiniLM-L6-v2 is the usual deployment; any provider
// speaking the same shape works.
type HTTPEmbedder struct {
	cfg        common.EmbeddingsConfig
	httpClient *http.Client
	log        *slog.Logger
}

func NewHTTPEmbedder(cfg common.EmbeddingsConfig, logger *slog.Logger) *HTTPEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPEmbedder{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	headers := map[string]string{}
	if e.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + e.cfg.APIKey
	}

	body := embeddingsRequest{Model: e.cfg.Model, Input: []string{text}}
	raw, status, err := llm.SendJSON(ctx, e.httpClient, e.cfg.BaseURL+"/v1/embeddings", body, headers, e.log)
	if err != nil {
		e.log.Error("embed.request_failed", "status", status, "error", err)
		return nil, fmt.Errorf("embeddings request: %w", err)
	}

	var resp embeddingsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings response held no vectors")
	}
	vec := resp.Data[0].Embedding
	if e.cfg.Dimensions > 0 && len(vec) != e.cfg.Dimensions {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(vec), e.cfg.Dimensions)
	}
	return vec, nil
}

// Package embedder produces query embeddings through the OpenAI embeddings
// API. Stored record embeddings use the same model, so dimensions must match
// the vector columns.
package embedder

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	openrouterx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/pkg/openrouter"
)

type Config struct {
	APIKey     string `envconfig:"API_KEY" split_words:"true" required:"true"`
	BaseURL    string `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	Model      string `envconfig:"MODEL" split_words:"true" default:"text-embedding-3-small"`
	Dimensions int    `envconfig:"DIMENSIONS" split_words:"true" default:"768"`
}

type Client struct {
	client     *openaisdk.Client
	model      string
	dimensions int
}

var _ contractx.Embedder = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	sdk := openrouterx.NewClient(openrouterx.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	})
	if sdk == nil {
		return nil, fmt.Errorf("%w: embedder api key is required", contractx.ErrValidation)
	}
	return &Client{
		client:     sdk,
		model:      strings.TrimSpace(cfg.Model),
		dimensions: cfg.Dimensions,
	}, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: embed input is empty", contractx.ErrInvalidInput)
	}

	params := openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfString: openaisdk.String(text)},
		Model: openaisdk.EmbeddingModel(c.model),
	}
	if c.dimensions > 0 {
		params.Dimensions = openaisdk.Int(int64(c.dimensions))
	}

	resp, err := c.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding response carried no vector")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}

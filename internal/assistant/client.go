package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Default call options, matching the original client.
const (
	DefaultSystemInstruction = "You are a helpful assistant. Be concise and efficient."
	DefaultMaxTokens         = 500
	DefaultTemperature       = 0.7

	defaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel      = "gemini-2.5-flash"
	defaultEmbedModel = "text-embedding-004"
)

// Completer is the interface canvas features depend on for LLM calls.
// Client is the production implementation; tests substitute fakes.
type Completer interface {
	Complete(prompt string, opts CallOptions) (string, error)
}

// Embedder produces an embedding vector for a text, for the related-note
// index.
type Embedder interface {
	Embed(text string) ([]float32, error)
}

// CallOptions configures a single completion call. The zero value selects
// the defaults; caching is opt-out because almost every canvas feature
// benefits from deduplicating identical prompts.
type CallOptions struct {
	SystemInstruction string
	MaxTokens         int
	Temperature       float64
	NoCache           bool
}

func (o CallOptions) withDefaults() CallOptions {
	if o.SystemInstruction == "" {
		o.SystemInstruction = DefaultSystemInstruction
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	return o
}

// Client calls the generative-AI REST API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	embedModel string
	httpClient *http.Client
	cache      *Cache
}

// Config configures a Client. APIKey is required; everything else has a
// working default. Cache may be shared between clients.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	EmbedModel string
	HTTPClient *http.Client
	Cache      *Cache
}

// NewClient creates a Client from config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("assistant: API key not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = defaultEmbedModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Cache == nil {
		cfg.Cache = NewCache(DefaultCacheCapacity, DefaultCacheTTL, nil)
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		embedModel: cfg.EmbedModel,
		httpClient: cfg.HTTPClient,
		cache:      cfg.Cache,
	}, nil
}

// Request/response shapes for the generateContent endpoint.

type generateRequest struct {
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

// Complete sends a prompt and returns the model's text response. Identical
// requests within the cache TTL are answered from the cache.
func (c *Client) Complete(prompt string, opts CallOptions) (string, error) {
	opts = opts.withDefaults()

	useCache := !opts.NoCache
	var key string
	if useCache {
		key = cacheKey(prompt, opts.SystemInstruction, opts.MaxTokens)
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: opts.MaxTokens,
			Temperature:     opts.Temperature,
		},
	}
	if opts.SystemInstruction != DefaultSystemInstruction {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: opts.SystemInstruction}}}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	var resp generateResponse
	if err := c.post(url, reqBody, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("assistant: %s", resp.Error.Message)
	}

	text := "No response"
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		text = resp.Candidates[0].Content.Parts[0].Text
	}

	if useCache {
		c.cache.Put(key, text)
	}
	return text, nil
}

// Embedding request/response shapes.

type embedRequest struct {
	Content content `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
	Error *apiError `json:"error,omitempty"`
}

// Embed returns the embedding vector for text.
func (c *Client) Embed(text string) ([]float32, error) {
	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", c.baseURL, c.embedModel, c.apiKey)
	reqBody := embedRequest{Content: content{Parts: []part{{Text: text}}}}

	var resp embedResponse
	if err := c.post(url, reqBody, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("assistant: %s", resp.Error.Message)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("assistant: empty embedding")
	}
	return resp.Embedding.Values, nil
}

// post sends a JSON request and decodes the JSON response, surfacing API
// error payloads on non-2xx statuses.
func (c *Client) post(url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("assistant: failed to encode request: %w", err)
	}

	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("assistant: request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("assistant: API returned %s", resp.Status)
		}
		return fmt.Errorf("assistant: failed to decode response: %w", err)
	}
	return nil
}

// EstimateTokens gives a rough token count (~4 characters per token).
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Compile-time interface checks
var (
	_ Completer = (*Client)(nil)
	_ Embedder  = (*Client)(nil)
)

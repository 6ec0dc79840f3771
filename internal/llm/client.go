package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Message roles accepted by the chat completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a chat-style message sequence.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest holds the parameters for a completion call.
type ChatRequest struct {
	Messages  []Message
	MaxTokens int
	// JSONOnly asks the service to constrain the reply to a JSON object.
	JSONOnly bool
}

// ChatResponse holds the result of a completion call.
type ChatResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Client provides access to an external chat-completion service.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// Config holds connection settings for the completion service.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HTTPClient implements Client against an OpenAI-compatible chat completions
// endpoint.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient creates a completion client for the configured endpoint.
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

type chatCompletionRequest struct {
	Model               string          `json:"model"`
	Messages            []Message       `json:"messages"`
	ResponseFormat      *responseFormat `json:"response_format,omitempty"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends the message sequence and returns the single completion text.
// There is no retry; transport failures surface to the caller.
func (c *HTTPClient) Complete(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := chatCompletionRequest{
		Model:               c.cfg.Model,
		Messages:            req.Messages,
		MaxCompletionTokens: req.MaxTokens,
	}
	if req.JSONOnly {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	resp, err := c.doRequest(ctx, body)
	if err != nil {
		if ctx.Err() != nil {
			return ChatResponse{}, ErrTimeout
		}
		if isConnectionError(err) {
			return ChatResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return ChatResponse{}, err
	}

	if resp.Error != nil {
		return ChatResponse{}, fmt.Errorf("completion service error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return ChatResponse{}, fmt.Errorf("completion service returned no choices")
	}

	return ChatResponse{
		Text:      resp.Choices[0].Message.Content,
		Model:     resp.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func (c *HTTPClient) doRequest(ctx context.Context, body chatCompletionRequest) (*chatCompletionResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("completion service returned status %d: %s", httpResp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK && resp.Error == nil {
		return nil, fmt.Errorf("completion service returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	return &resp, nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

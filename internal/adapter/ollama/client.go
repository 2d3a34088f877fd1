// Package ollama provides a client for a locally hosted Ollama
// generation server, consumed through its /api/chat and /api/tags
// contracts.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the Ollama API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Ollama client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Message represents a chat message sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the /api/chat request body.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// ChatChunk is one decoded record of a streaming chat response. The
// final record has Done set and may carry an eval_count token total.
type ChatChunk struct {
	Message   *Message `json:"message,omitempty"`
	Done      bool     `json:"done"`
	EvalCount int      `json:"eval_count,omitempty"`
}

// ChatResponse represents a non-streaming /api/chat response.
type ChatResponse struct {
	Message   Message `json:"message"`
	EvalCount int     `json:"eval_count,omitempty"`
}

// Model represents a model from the tags list.
type Model struct {
	Name       string `json:"name"`
	Model      string `json:"model,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Digest     string `json:"digest,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// TagsResponse represents the response from /api/tags.
type TagsResponse struct {
	Models []Model `json:"models"`
}

// StreamCallback is called for each decoded record in a streaming response.
type StreamCallback func(chunk *ChatChunk) error

// ChatStream sends a streaming chat request and invokes the callback
// for each decoded record. Upstream chunk boundaries do not align with
// records, so the body is fed through a ChunkDecoder. Cancelling the
// context aborts the upstream read.
func (c *Client) ChatStream(ctx context.Context, model string, messages []Message, callback StreamCallback) error {
	resp, err := c.postChat(ctx, &ChatRequest{Model: model, Messages: messages, Stream: true})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	decoder := NewChunkDecoder()
	buf := make([]byte, 4096)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, chunk := range decoder.Feed(buf[:n]) {
				if err := callback(&chunk); err != nil {
					return err
				}
			}
		}
		if readErr == io.EOF {
			if chunk, ok := decoder.Flush(); ok {
				if err := callback(&chunk); err != nil {
					return err
				}
			}
			return nil
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read stream: %w", readErr)
		}
	}
}

// Chat sends a non-streaming chat request and returns the full
// response text. Used for short single-shot generations such as
// thread titles.
func (c *Client) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	resp, err := c.postChat(ctx, &ChatRequest{Model: model, Messages: messages, Stream: false})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Message.Content, nil
}

func (c *Client) postChat(ctx context.Context, req *ChatRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama error [%d]: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return resp, nil
}

// ListModels retrieves the list of available models.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error [%d]: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result TagsResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.Models, nil
}

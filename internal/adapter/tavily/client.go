// Package tavily provides a client for the Tavily search API that
// turns a user query into a block of retrieved-context text for the
// model. Failures are flattened into descriptive text rather than
// errors so a chat turn never dies on a bad search.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// MissingKeyNotice is returned when no API key is configured.
const MissingKeyNotice = "SYSTEM NOTE: Search capability is currently disabled because the API key is missing. " +
	"Please inform the user they need to set TAVILY_API_KEY in the backend environment."

// Client is the Tavily search client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Tavily client. An empty apiKey disables
// search without failing.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
	MaxResults    int    `json:"max_results"`
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type searchResponse struct {
	Answer  string         `json:"answer,omitempty"`
	Results []searchResult `json:"results"`
}

// Execute runs a search and formats the results as a context block for
// the model. It never returns an error: missing credentials and API
// failures both come back as plain text the conversation can carry on
// with.
func (c *Client) Execute(ctx context.Context, query string) string {
	if c.apiKey == "" {
		log.Printf("WARN: search requested but TAVILY_API_KEY is not set")
		return MissingKeyNotice
	}

	result, err := c.search(ctx, query)
	if err != nil {
		log.Printf("ERROR: search failed: %v", err)
		return fmt.Sprintf("SYSTEM ERROR: Failed to perform search. Error: %v", err)
	}
	return formatResults(query, result)
}

func (c *Client) search(ctx context.Context, query string) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
		MaxResults:    5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

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
		return nil, fmt.Errorf("tavily error [%d]: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result searchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &result, nil
}

// formatResults maximizes content density for the model: a direct
// answer line when available, then a numbered result list.
func formatResults(query string, result *searchResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SEARCH CONTEXT FOR: %q\n\n", query)

	if result.Answer != "" {
		fmt.Fprintf(&b, "> DIRECT ANSWER: %s\n\n", result.Answer)
	}

	if len(result.Results) == 0 {
		b.WriteString("No relevant search results found.\n")
		return b.String()
	}
	for i, r := range result.Results {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "    URL: %s\n", r.URL)
		fmt.Fprintf(&b, "    CONTENT: %s\n\n", r.Content)
	}
	return b.String()
}

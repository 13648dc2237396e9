// internal/validator/ai_client.go
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AIValidationResponse mirrors the scoring endpoint's JSON body. Score is a
// pointer so a missing field can be told apart from an explicit zero.
type AIValidationResponse struct {
	IsValid  bool               `json:"isValid"`
	Score    *float64           `json:"score"`
	Issues   []string           `json:"issues"`
	Feedback string             `json:"feedback"`
	Factors  map[string]float64 `json:"factors"`
}

type AIEnhanceResponse struct {
	EnhancedTitle   string   `json:"enhancedTitle"`
	EnhancedContent string   `json:"enhancedContent"`
	Improvements    []string `json:"improvements"`
}

// AIClient is the delegated scoring/rewrite backend.
type AIClient interface {
	Validate(title, content string) (*AIValidationResponse, error)
	Enhance(title, content string) (*AIEnhanceResponse, error)
}

// HTTPAIClient talks to the AI service over JSON/HTTP.
type HTTPAIClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPAIClient(baseURL string) *HTTPAIClient {
	return &HTTPAIClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPAIClient) Validate(title, content string) (*AIValidationResponse, error) {
	var resp AIValidationResponse
	if err := c.post("/validate", title, content, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPAIClient) Enhance(title, content string) (*AIEnhanceResponse, error) {
	var resp AIEnhanceResponse
	if err := c.post("/enhance", title, content, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPAIClient) post(path, title, content string, out interface{}) error {
	payload := map[string]string{
		"title":   title,
		"content": content,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", c.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AI service responded with status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

var _ AIClient = (*HTTPAIClient)(nil)

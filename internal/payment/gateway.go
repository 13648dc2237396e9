// internal/payment/gateway.go
package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CheckoutSession is the gateway's hosted checkout handle.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// VerifyResult is the gateway's view of a checkout session.
type VerifyResult struct {
	Status string `json:"status"` // pending, paid, failed
	TxHash string `json:"tx_hash"`
}

// Gateway is the external payment checkout service.
type Gateway interface {
	CreateCheckoutSession(amount float64, currency, productName, successURL string) (*CheckoutSession, error)
	VerifyPayment(sessionID string) (*VerifyResult, error)
}

// HTTPGateway talks to the payment gateway over JSON/HTTP.
type HTTPGateway struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *HTTPGateway) CreateCheckoutSession(amount float64, currency, productName, successURL string) (*CheckoutSession, error) {
	payload := map[string]interface{}{
		"amount":       amount,
		"currency":     currency,
		"product_name": productName,
		"success_url":  successURL,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", g.BaseURL+"/checkout/sessions", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway responded with status %s", resp.Status)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (g *HTTPGateway) VerifyPayment(sessionID string) (*VerifyResult, error) {
	req, err := http.NewRequest("GET", g.BaseURL+"/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway responded with status %s", resp.Status)
	}

	var result VerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

var _ Gateway = (*HTTPGateway)(nil)

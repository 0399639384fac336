package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"talkpdf-backend/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*FlutterwaveGateway)(nil)

// FlutterwaveGateway implements PaymentGateway using direct HTTP calls
// against the v3 API.
type FlutterwaveGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewFlutterwaveGateway(secretKey, baseURL string) *FlutterwaveGateway {
	if baseURL == "" {
		baseURL = "https://api.flutterwave.com/v3"
	}
	return &FlutterwaveGateway{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *FlutterwaveGateway) Name() string { return "flutterwave" }

// flwChargeResponse is the response of the charge-initiation endpoint.
type flwChargeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// flwVerifyResponse is the response of the transaction-verify endpoint.
type flwVerifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID            int64   `json:"id"`
		TxRef         string  `json:"tx_ref"`
		Amount        float64 `json:"amount"`
		ChargedAmount float64 `json:"charged_amount"`
		Currency      string  `json:"currency"`
		Status        string  `json:"status"`
		CreatedAt     string  `json:"created_at"`
	} `json:"data"`
}

// CreateCharge initiates a hosted checkout and returns the redirect link.
func (g *FlutterwaveGateway) CreateCharge(ctx context.Context, req adapter.ChargeRequest) (string, error) {
	payload := map[string]interface{}{
		"tx_ref":       req.TxRef,
		"amount":       req.Amount,
		"currency":     req.Currency,
		"redirect_url": req.RedirectURL,
		"customer": map[string]string{
			"email": req.CustomerEmail,
		},
		"customizations": map[string]string{
			"title": req.Title,
		},
	}

	body, err := g.post(ctx, g.baseURL+"/payments", payload)
	if err != nil {
		return "", err
	}

	var response flwChargeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	if response.Status != "success" || response.Data.Link == "" {
		return "", fmt.Errorf("flutterwave error: status %s, message: %s", response.Status, response.Message)
	}
	return response.Data.Link, nil
}

// VerifyTransaction fetches the authoritative transaction state.
func (g *FlutterwaveGateway) VerifyTransaction(ctx context.Context, providerTxID string) (*adapter.VerifiedTransaction, error) {
	url := g.baseURL + "/transactions/" + providerTxID + "/verify"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var response flwVerifyResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	if response.Status != "success" {
		return nil, fmt.Errorf("flutterwave error: status %s, message: %s", response.Status, response.Message)
	}

	paidAt, _ := time.Parse(time.RFC3339, response.Data.CreatedAt)
	return &adapter.VerifiedTransaction{
		ProviderTxID: strconv.FormatInt(response.Data.ID, 10),
		TxRef:        response.Data.TxRef,
		Amount:       int64(response.Data.Amount),
		Currency:     response.Data.Currency,
		Successful:   response.Data.Status == "successful",
		PaidAt:       paidAt,
	}, nil
}

func (g *FlutterwaveGateway) post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func (g *FlutterwaveGateway) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

/**
 * @description
 * This package provides a client for the Mercado Pago REST API. It covers the
 * three operations the platform needs: creating a checkout preference for a
 * donation, fetching a payment referenced by a webhook notification, and
 * refunding a payment in full or in part.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, net/http, time: Standard Go libraries.
 */
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client is a client for the Mercado Pago API.
type Client struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client
}

// NewClient creates a new Mercado Pago API client.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		BaseURL:     baseURL,
		AccessToken: accessToken,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PreferenceItem is one line item of a checkout preference.
type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

// BackURLs are the redirect targets after checkout completes.
type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// PreferencePayer identifies the person paying at checkout; the gateway
// prefills its forms with it.
type PreferencePayer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// PreferenceRequest is the payload for creating a checkout preference.
type PreferenceRequest struct {
	Items             []PreferenceItem  `json:"items"`
	Payer             *PreferencePayer  `json:"payer,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	ExternalReference string            `json:"external_reference"`
	NotificationURL   string            `json:"notification_url"`
	BackURLs          BackURLs          `json:"back_urls"`
	AutoReturn        string            `json:"auto_return,omitempty"`
}

// PreferenceResponse is the created preference, including the checkout links.
type PreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// PaymentResponse is a payment fetched by id after a webhook notification.
type PaymentResponse struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
	PaymentMethodID   string  `json:"payment_method_id"`
	PaymentTypeID     string  `json:"payment_type_id"`
}

// RefundResponse is the result of a refund request.
type RefundResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// ErrorResponse represents an error from the Mercado Pago API.
type ErrorResponse struct {
	Message string `json:"message"`
	Err     string `json:"error"`
	Status  int    `json:"status"`
}

func (e *ErrorResponse) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("mercadopago api error: %s (%s)", e.Message, e.Err)
	}
	return "unknown mercadopago api error"
}

// CreatePreference creates a checkout preference for a donation.
func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*PreferenceResponse, error) {
	var resp PreferenceResponse
	if err := c.do(ctx, "POST", "/checkout/preferences", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPayment fetches a payment by its Mercado Pago id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*PaymentResponse, error) {
	var resp PaymentResponse
	if err := c.do(ctx, "GET", "/v1/payments/"+paymentID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// refundRequest carries the partial amount, in currency units. An empty body
// refunds the payment in full.
type refundRequest struct {
	Amount float64 `json:"amount"`
}

// RefundPayment refunds a payment. amountCentavos nil means a full refund;
// otherwise only that portion is returned to the payer.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amountCentavos *int64) (*RefundResponse, error) {
	var payload interface{} = struct{}{}
	if amountCentavos != nil {
		payload = refundRequest{Amount: float64(*amountCentavos) / 100}
	}
	var resp RefundResponse
	if err := c.do(ctx, "POST", "/v1/payments/"+paymentID+"/refunds", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do executes one authenticated request and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(bodyBytes, &errResp); err != nil {
			log.Printf("level=warn component=mercadopago_client op=%s path=%s status=%d msg=\"non-2xx response (unparsable error body)\"", method, path, resp.StatusCode)
			return fmt.Errorf("failed to decode error response (status %d)", resp.StatusCode)
		}
		errResp.Status = resp.StatusCode
		log.Printf("level=warn component=mercadopago_client op=%s path=%s status=%d message=%q", method, path, resp.StatusCode, errResp.Message)
		return &errResp
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("failed to decode success response: %w", err)
		}
	}
	return nil
}

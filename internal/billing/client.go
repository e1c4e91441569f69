package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"kontra/internal/platform/config"
	"kontra/pkg/domain"
	derrors "kontra/pkg/domain-errors"
)

const defaultClientTimeout = 15 * time.Second

// Client talks to the payment provider's REST API. Requests authenticate
// with the shop credentials; creation carries a fresh idempotence key so a
// retried request cannot double-charge.
type Client struct {
	baseURL   string
	shopID    string
	secretKey string
	returnURL string
	http      *http.Client
}

func NewClient(cfg config.BillingConfig) (*Client, error) {
	if cfg.ShopID == "" || cfg.SecretKey == "" {
		return nil, derrors.New(derrors.CodeInternal, "billing credentials are not configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		shopID:    cfg.ShopID,
		secretKey: cfg.SecretKey,
		returnURL: cfg.ReturnURL,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

type amountBody struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type confirmationBody struct {
	Type      string `json:"type"`
	ReturnURL string `json:"return_url,omitempty"`
	URL       string `json:"confirmation_url,omitempty"`
}

type paymentBody struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Paid         bool              `json:"paid"`
	Amount       amountBody        `json:"amount"`
	Confirmation *confirmationBody `json:"confirmation,omitempty"`
	Description  string            `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type createRequest struct {
	Amount       amountBody        `json:"amount"`
	Confirmation confirmationBody  `json:"confirmation"`
	Capture      bool              `json:"capture"`
	Description  string            `json:"description"`
	Metadata     map[string]string `json:"metadata"`
}

// CreatePayment registers a redirect payment for the tariff and returns the
// provider's record, confirmation URL included.
func (c *Client) CreatePayment(ctx context.Context, userID domain.UserID, tariff Tariff) (Payment, error) {
	reqBody := createRequest{
		Amount:       amountBody{Value: tariff.Amount, Currency: "RUB"},
		Confirmation: confirmationBody{Type: "redirect", ReturnURL: c.returnURL},
		Capture:      true,
		Description:  tariff.Description,
		Metadata: map[string]string{
			"user_id": userID.String(),
			"tariff":  tariff.Code,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Payment{}, fmt.Errorf("marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(payload))
	if err != nil {
		return Payment{}, fmt.Errorf("build payment request: %w", err)
	}
	req.SetBasicAuth(c.shopID, c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.NewString())

	body, err := c.do(req)
	if err != nil {
		return Payment{}, err
	}
	return c.toPayment(userID, tariff.Code, body)
}

// GetPayment fetches the current provider state of a payment.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return Payment{}, fmt.Errorf("build payment lookup: %w", err)
	}
	req.SetBasicAuth(c.shopID, c.secretKey)

	body, err := c.do(req)
	if err != nil {
		return Payment{}, err
	}
	return c.toPayment(domain.UserID(0), "", body)
}

func (c *Client) do(req *http.Request) (paymentBody, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return paymentBody{}, derrors.Wrap(err, derrors.CodePaymentFailed, "payment provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return paymentBody{}, derrors.New(derrors.CodePaymentFailed,
			fmt.Sprintf("payment provider returned status %d", resp.StatusCode))
	}

	var body paymentBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return paymentBody{}, derrors.Wrap(err, derrors.CodePaymentFailed, "malformed payment provider response")
	}
	if body.ID == "" {
		return paymentBody{}, derrors.New(derrors.CodePaymentFailed, "payment provider response missing id")
	}
	return body, nil
}

func (c *Client) toPayment(userID domain.UserID, tariff string, body paymentBody) (Payment, error) {
	p := Payment{
		ID:     body.ID,
		UserID: userID,
		Tariff: tariff,
		Amount: body.Amount.Value,
		Status: Status(body.Status),
	}
	if body.Confirmation != nil {
		p.ConfirmationURL = body.Confirmation.URL
	}
	if p.Tariff == "" {
		p.Tariff = body.Metadata["tariff"]
	}
	if p.UserID.IsNil() {
		if id, err := domain.ParseUserID(body.Metadata["user_id"]); err == nil {
			p.UserID = id
		}
	}
	return p, nil
}

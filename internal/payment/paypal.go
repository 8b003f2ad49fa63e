package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

type WalletOrderRequest struct {
	AccessToken string
	OrderID     string
	Amount      string
	Currency    string
	ReturnURL   string
	CancelURL   string
	RequestID   string
}

// WalletOrder is the processor's reply. Raw keeps the full payload so it can
// be surfaced when no order id came back.
type WalletOrder struct {
	ID    string
	Links []Link
	Raw   []byte
}

// ApproveURL returns the href of the rel=approve link, if any.
func (o WalletOrder) ApproveURL() string {
	for _, l := range o.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

// WalletGateway talks to the wallet processor's REST API.
type WalletGateway interface {
	AccessToken(ctx context.Context, clientID, secret string) (string, error)
	CreateOrder(ctx context.Context, req WalletOrderRequest) (WalletOrder, error)
}

// PayPalClient implements WalletGateway over HTTP.
type PayPalClient struct {
	baseURL string
	client  *http.Client
}

func NewPayPalClient(baseURL string) *PayPalClient {
	return &PayPalClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalApplicationContext struct {
	ShippingPreference string `json:"shipping_preference"`
	Locale             string `json:"locale"`
	UserAction         string `json:"user_action"`
	ReturnURL          string `json:"return_url"`
	CancelURL          string `json:"cancel_url"`
}

type paypalOrderRequest struct {
	Intent             string                   `json:"intent"`
	PurchaseUnits      []paypalPurchaseUnit     `json:"purchase_units"`
	ApplicationContext paypalApplicationContext `json:"application_context"`
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

// AccessToken exchanges client credentials for a bearer token. A non-2xx reply
// yields an empty token and no error: the caller treats it as a credentials
// problem.
func (p *PayPalClient) AccessToken(ctx context.Context, clientID, secret string) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(clientID, secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal oauth request: %w", err)
	}
	defer resp.Body.Close()

	var tok paypalTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", nil
	}
	return tok.AccessToken, nil
}

// CreateOrder creates a CAPTURE order with a single purchase unit. The reply
// body is returned as-is in Raw even for error statuses.
func (p *PayPalClient) CreateOrder(ctx context.Context, in WalletOrderRequest) (WalletOrder, error) {
	payload := paypalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{{
			ReferenceID: in.OrderID,
			Amount:      paypalAmount{CurrencyCode: in.Currency, Value: in.Amount},
		}},
		ApplicationContext: paypalApplicationContext{
			ShippingPreference: "NO_SHIPPING",
			Locale:             "es-ES",
			UserAction:         "PAY_NOW",
			ReturnURL:          in.ReturnURL,
			CancelURL:          in.CancelURL,
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return WalletOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v2/checkout/orders", bytes.NewReader(b))
	if err != nil {
		return WalletOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+in.AccessToken)
	if in.RequestID != "" {
		req.Header.Set("PayPal-Request-Id", in.RequestID)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return WalletOrder{}, fmt.Errorf("paypal create order: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return WalletOrder{}, err
	}
	out := WalletOrder{Raw: raw}
	var parsed paypalOrderResponse
	if err := json.Unmarshal(raw, &parsed); err == nil {
		out.ID = parsed.ID
		out.Links = parsed.Links
	}
	return out, nil
}

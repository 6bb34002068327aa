package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/seyifunmi/clinicshop/internal/checkout/app"
)

// Client verifies transactions against the Paystack REST API over a
// bearer-token channel. Failures are never interpreted as success: any
// transport problem, timeout or 5xx comes back wrapping
// app.ErrGatewayUnavailable.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	timeout    time.Duration
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		secretKey:  secretKey,
		timeout:    timeout,
	}
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

func (c *Client) Verify(ctx context.Context, reference string) (app.VerifyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return app.VerifyResult{}, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return app.VerifyResult{}, fmt.Errorf("%w: %v", app.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return app.VerifyResult{}, fmt.Errorf("%w: gateway returned %d", app.ErrGatewayUnavailable, resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return app.VerifyResult{}, fmt.Errorf("%w: bad response body: %v", app.ErrGatewayUnavailable, err)
	}

	// A 4xx or status=false means the gateway answered but the reference
	// did not verify; that is a failed payment, not an outage.
	if resp.StatusCode != http.StatusOK || !body.Status {
		return app.VerifyResult{Status: "failed"}, nil
	}

	return app.VerifyResult{
		Status:     body.Data.Status,
		AmountKobo: body.Data.Amount,
		PayerEmail: body.Data.Customer.Email,
	}, nil
}

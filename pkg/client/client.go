// Package client is a typed Go consumer of the banking API, covering the
// same surface the dashboard UI's fetch helper does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"bankingapi/internal/models"
	"bankingapi/pkg/utils"
)

// APIError is a non-2xx response decoded from the `{error}` body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:3000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   utils.NewHTTPClient(utils.ClientConfig{}),
	}
}

func (c *Client) GetAccount(ctx context.Context, accountNumber string) (*models.Account, error) {
	var account models.Account
	if err := c.do(ctx, http.MethodGet, "/accounts/"+accountNumber, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Withdraw(ctx context.Context, accountNumber string, amount float64) (*models.Account, error) {
	var account models.Account
	body := map[string]float64{"amount": amount}
	if err := c.do(ctx, http.MethodPut, "/transactions/"+accountNumber+"/withdraw", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Deposit(ctx context.Context, accountNumber string, amount float64) (*models.Account, error) {
	var account models.Account
	body := map[string]float64{"amount": amount}
	if err := c.do(ctx, http.MethodPut, "/transactions/"+accountNumber+"/deposit", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) DailyWithdrawalTotal(ctx context.Context, accountNumber string) (float64, error) {
	var total float64
	if err := c.do(ctx, http.MethodGet, "/transactions/"+accountNumber+"/daily-withdrawal-total", nil, &total); err != nil {
		return 0, err
	}
	return total, nil
}

func (c *Client) RecentTransactions(ctx context.Context, accountNumber string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+accountNumber, nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&e); decodeErr != nil || e.Message == "" {
			e.Message = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Message}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

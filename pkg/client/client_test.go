package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankingapi/internal/models"
)

func TestClient_GetAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/accounts/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.Account{
			AccountNumber: "42",
			Name:          "Johns Checking",
			Amount:        250,
			Type:          models.AccountTypeChecking,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	account, err := c.GetAccount(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", account.AccountNumber)
	assert.Equal(t, 250.0, account.Amount)
}

func TestClient_Withdraw_SendsAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/transactions/42/withdraw", r.URL.Path)

		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 25.0, body["amount"])

		_ = json.NewEncoder(w).Encode(models.Account{AccountNumber: "42", Amount: 225})
	}))
	defer srv.Close()

	c := New(srv.URL)
	account, err := c.Withdraw(context.Background(), "42", 25)
	require.NoError(t, err)
	assert.Equal(t, 225.0, account.Amount)
}

func TestClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "You do not have enough funds to withdraw this amount."})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Withdraw(context.Background(), "42", 150)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "You do not have enough funds to withdraw this amount.", apiErr.Message)
}

func TestClient_DailyWithdrawalTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/42/daily-withdrawal-total", r.URL.Path)
		_, _ = w.Write([]byte("380"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	total, err := c.DailyWithdrawalTotal(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 380.0, total)
}

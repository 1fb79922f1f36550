package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bankingapi/internal/models"
	"bankingapi/pkg"
	middleware "bankingapi/pkg/middlewares"
)

// stubTransferService returns canned results; handlers are only responsible
// for binding, status mapping, and the wire shapes.
type stubTransferService struct {
	account      *models.Account
	transactions []models.Transaction
	total        float64
	err          error

	gotAccountNumber string
	gotAmount        float64
}

func (s *stubTransferService) GetAccount(_ context.Context, _ string, accountNumber string) (*models.Account, error) {
	s.gotAccountNumber = accountNumber
	return s.account, s.err
}

func (s *stubTransferService) Withdraw(_ context.Context, _ string, accountNumber string, amount float64) (*models.Account, error) {
	s.gotAccountNumber = accountNumber
	s.gotAmount = amount
	return s.account, s.err
}

func (s *stubTransferService) Deposit(_ context.Context, _ string, accountNumber string, amount float64) (*models.Account, error) {
	s.gotAccountNumber = accountNumber
	s.gotAmount = amount
	return s.account, s.err
}

func (s *stubTransferService) DailyWithdrawalTotal(_ context.Context, _ string, accountNumber string) (float64, error) {
	s.gotAccountNumber = accountNumber
	return s.total, s.err
}

func (s *stubTransferService) RecentTransactions(_ context.Context, _ string, accountNumber string) ([]models.Transaction, error) {
	s.gotAccountNumber = accountNumber
	return s.transactions, s.err
}

func newTestRouter(svc *stubTransferService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	r := gin.New()
	api := r.Group("")
	api.Use(middleware.TraceID())
	NewAccountHandler(logger, svc).RegisterRoutes(api)
	NewTransactionHandler(logger, svc).RegisterRoutes(api)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetAccount_WireShape(t *testing.T) {
	svc := &stubTransferService{account: &models.Account{
		AccountNumber: "42",
		Name:          "Johns Checking",
		Amount:        123.5,
		Type:          models.AccountTypeChecking,
	}}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/accounts/42", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", svc.gotAccountNumber)
	assert.NotEmpty(t, w.Header().Get(pkg.HeaderTraceId))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "42", body["account_number"])
	assert.Equal(t, "Johns Checking", body["name"])
	assert.Equal(t, 123.5, body["amount"])
	assert.Equal(t, "checking", body["type"])
	assert.Equal(t, 0.0, body["credit_limit"])
}

func TestGetAccount_NotFound(t *testing.T) {
	svc := &stubTransferService{err: pkg.NewAppError(pkg.ErrRecordNotFoundCode, "Account not found", nil)}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/accounts/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Account not found", body["error"])
}

func TestWithdraw_Success(t *testing.T) {
	svc := &stubTransferService{account: &models.Account{AccountNumber: "42", Amount: 80, Type: models.AccountTypeChecking}}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodPut, "/transactions/42/withdraw", `{"amount": 20}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", svc.gotAccountNumber)
	assert.Equal(t, 20.0, svc.gotAmount)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 80.0, body["amount"])
}

func TestWithdraw_DomainErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"denomination", pkg.NewAppError(pkg.ErrInvalidDenominationCode, "Amount must be dispensable in $5 bills", nil), http.StatusUnprocessableEntity, "Amount must be dispensable in $5 bills"},
		{"daily limit", pkg.NewAppError(pkg.ErrDailyLimitCode, "You can only withdraw up to $400 per day. Try a smaller amount or try again tomorrow.", nil), http.StatusUnprocessableEntity, "You can only withdraw up to $400 per day. Try a smaller amount or try again tomorrow."},
		{"invalid amount", pkg.NewAppError(pkg.ErrInvalidAmountCode, "Amount must be a positive number", nil), http.StatusBadRequest, "Amount must be a positive number"},
		{"conflict", pkg.NewAppError(pkg.ErrSQLConflictCode, "Transaction failed", nil), http.StatusConflict, "Transaction failed"},
		{"persistence", pkg.NewAppError(pkg.ErrSQLUnknownCode, "sql error", nil), http.StatusInternalServerError, "sql error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubTransferService{err: tc.err})

			w := doRequest(t, r, http.MethodPut, "/transactions/42/withdraw", `{"amount": 25}`)
			assert.Equal(t, tc.status, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body["error"])
		})
	}
}

func TestWithdraw_MalformedBody(t *testing.T) {
	r := newTestRouter(&stubTransferService{})

	w := doRequest(t, r, http.MethodPut, "/transactions/42/withdraw", `{"amount": "twenty"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestDeposit_Success(t *testing.T) {
	svc := &stubTransferService{account: &models.Account{AccountNumber: "42", Amount: 150, Type: models.AccountTypeSavings}}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodPut, "/transactions/42/deposit", `{"amount": 50}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50.0, svc.gotAmount)
}

func TestDailyWithdrawalTotal_BareNumber(t *testing.T) {
	svc := &stubTransferService{total: 380}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/transactions/42/daily-withdrawal-total", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "380", strings.TrimSpace(w.Body.String()))
}

func TestRecentTransactions_List(t *testing.T) {
	svc := &stubTransferService{transactions: []models.Transaction{
		{ID: 2, AccountNumber: "42", Amount: 50, Type: models.TransactionTypeDeposit},
		{ID: 1, AccountNumber: "42", Amount: 20, Type: models.TransactionTypeWithdrawal},
	}}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/transactions/42", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "deposit", body[0]["type"])
	assert.Equal(t, "withdrawal", body[1]["type"])
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bankingapi/internal/models"
	"bankingapi/internal/services"
	"bankingapi/internal/views"
	"bankingapi/pkg"
	"bankingapi/pkg/utils"
)

type TransactionHandler struct {
	logger  *zap.Logger
	service services.TransferService
}

func NewTransactionHandler(logger *zap.Logger, svc services.TransferService) *TransactionHandler {
	return &TransactionHandler{logger: logger, service: svc}
}

// RegisterRoutes registers transaction routes on the provided Gin group.
// Paths and JSON shapes are pinned by the dashboard UI.
func (h *TransactionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.PUT("/transactions/:accountNumber/withdraw", h.Withdraw)
	r.PUT("/transactions/:accountNumber/deposit", h.Deposit)
	r.GET("/transactions/:accountNumber/daily-withdrawal-total", h.DailyWithdrawalTotal)
	r.GET("/transactions/:accountNumber", h.RecentTransactions)
}

func (h *TransactionHandler) Withdraw(c *gin.Context) {
	h.transfer(c, h.service.Withdraw)
}

func (h *TransactionHandler) Deposit(c *gin.Context) {
	h.transfer(c, h.service.Deposit)
}

func (h *TransactionHandler) DailyWithdrawalTotal(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, pkg.ErrorResponse{Message: pkg.ErrServerCode.Message})
		return
	}

	total, err := h.service.DailyWithdrawalTotal(c.Request.Context(), traceID, c.Param("accountNumber"))
	if err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		c.JSON(resp.Status, resp)
		return
	}

	// Bare JSON number, matching what the UI's fetch helper expects.
	c.JSON(http.StatusOK, total)
}

func (h *TransactionHandler) RecentTransactions(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, pkg.ErrorResponse{Message: pkg.ErrServerCode.Message})
		return
	}

	transactions, err := h.service.RecentTransactions(c.Request.Context(), traceID, c.Param("accountNumber"))
	if err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		c.JSON(resp.Status, resp)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// transferOp is either TransferService.Withdraw or TransferService.Deposit.
type transferOp func(ctx context.Context, traceID string, accountNumber string, amount float64) (*models.Account, error)

func (h *TransactionHandler) transfer(c *gin.Context, op transferOp) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, pkg.ErrorResponse{Message: pkg.ErrServerCode.Message})
		return
	}

	var req views.TransactionRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{Message: "invalid request body"})
		return
	}

	account, err := op(c.Request.Context(), traceID, c.Param("accountNumber"), req.Amount)
	if err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		c.JSON(resp.Status, resp)
		return
	}

	c.JSON(http.StatusOK, account)
}

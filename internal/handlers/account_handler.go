package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bankingapi/internal/services"
	"bankingapi/pkg"
	"bankingapi/pkg/utils"
)

type AccountHandler struct {
	logger  *zap.Logger
	service services.TransferService
}

func NewAccountHandler(logger *zap.Logger, svc services.TransferService) *AccountHandler {
	return &AccountHandler{logger: logger, service: svc}
}

// RegisterRoutes registers account routes on the provided Gin group.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/accounts/:accountNumber", h.GetAccount)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, pkg.ErrorResponse{Message: pkg.ErrServerCode.Message})
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), traceID, c.Param("accountNumber"))
	if err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		c.JSON(resp.Status, resp)
		return
	}

	c.JSON(http.StatusOK, account)
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"mesapos/internal/apierror"
	"mesapos/internal/dto"
	"mesapos/internal/middleware"
	"mesapos/internal/model"
	"mesapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MovementsHandler struct{ svc service.SessionService }

func NewMovementsHandler(svc service.SessionService) *MovementsHandler {
	return &MovementsHandler{svc: svc}
}

// Add records a manual INCOME/EXPENSE entry against an open session.
func (h *MovementsHandler) Add(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_id", "invalid session id"))
		return
	}
	var req dto.AddMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	movement, err := h.svc.AddMovement(c.Request.Context(), sessionID, userID,
		model.MovementType(req.Type), model.PaymentMethod(req.PaymentMethod),
		req.Amount, req.Description, nil)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// Settle is the order/checkout entry point: a settled SALE or REFUND with its
// payment method and amount. The ledger never sees order contents.
func (h *MovementsHandler) Settle(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_id", "invalid session id"))
		return
	}
	var req dto.SettlementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	var orderID *uuid.UUID
	if req.OrderID != nil {
		if oid, err := uuid.Parse(*req.OrderID); err == nil {
			orderID = &oid
		}
	}

	method := model.PaymentMethod(req.PaymentMethod)
	var movement *model.CashMovement
	if model.MovementType(req.Type) == model.MovementRefund {
		movement, err = h.svc.RecordRefund(c.Request.Context(), sessionID, userID, method, req.Amount, orderID)
	} else {
		movement, err = h.svc.RecordSale(c.Request.Context(), sessionID, userID, method, req.Amount, orderID)
	}
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// ListForSession returns all movements of a session, newest-first.
func (h *MovementsHandler) ListForSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_id", "invalid session id"))
		return
	}
	movements, err := h.svc.ListMovements(c.Request.Context(), sessionID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movements})
}

// ListManual is the cross-session report of manual entries (INCOME/EXPENSE),
// filterable by date range, register and type, paginated.
func (h *MovementsHandler) ListManual(c *gin.Context) {
	claims := middleware.GetClaims(c)
	branchID, err := uuid.Parse(claims.BranchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_branch", "invalid branch id in token"))
		return
	}

	f := dto.ManualMovementFilter{BranchID: branchID, Limit: 20}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v >= 1 && v <= 100 {
		f.Limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		f.Offset = v
	}
	if raw := c.Query("date_from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.DateFrom = &t
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.DateTo = &t
		}
	}
	if raw := c.Query("cash_register_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.CashRegisterID = &id
		}
	}
	if raw := c.Query("type"); raw != "" {
		t := model.MovementType(raw)
		if t != model.MovementIncome && t != model.MovementExpense {
			c.JSON(http.StatusBadRequest, apierror.New("invalid_type", "type filter must be INCOME or EXPENSE"))
			return
		}
		f.Type = &t
	}

	page, err := h.svc.ListManualMovements(c.Request.Context(), f)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

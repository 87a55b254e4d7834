package handler

import (
	"net/http"
	"strconv"

	"mesapos/internal/apierror"
	"mesapos/internal/dto"
	"mesapos/internal/middleware"
	"mesapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionsHandler struct{ svc service.SessionService }

func NewSessionsHandler(svc service.SessionService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// Open starts a session on a register with the given opening float.
func (h *SessionsHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	session, err := h.svc.Open(c.Request.Context(), userID, req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Close reconciles the counted cash against the ledger and seals the session.
func (h *SessionsHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_id", "invalid session id"))
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	session, err := h.svc.Close(c.Request.Context(), id, userID, req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Summary returns the reconciliation aggregates for a session at any time.
func (h *SessionsHandler) Summary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_id", "invalid session id"))
		return
	}
	summary, err := h.svc.Summary(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// History returns a paginated list of closed sessions for the caller's branch.
func (h *SessionsHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	branchID, err := uuid.Parse(claims.BranchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_branch", "invalid branch id in token"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	resp, err := h.svc.History(c.Request.Context(), branchID, page, limit)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

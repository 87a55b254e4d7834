package handler

import (
	"net/http"

	"mesapos/internal/apierror"
	"mesapos/internal/dto"
	"mesapos/internal/middleware"
	"mesapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegistersHandler struct {
	svc      service.RegisterService
	sessions service.SessionService
}

func NewRegistersHandler(svc service.RegisterService, sessions service.SessionService) *RegistersHandler {
	return &RegistersHandler{svc: svc, sessions: sessions}
}

// Create registers a new till in the caller's branch.
func (h *RegistersHandler) Create(c *gin.Context) {
	var req dto.CreateRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	branchID, err := uuid.Parse(claims.BranchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_branch", "invalid branch id in token"))
		return
	}

	reg, err := h.svc.Create(c.Request.Context(), branchID, req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// Update applies a partial update; renaming collides only within the branch.
func (h *RegistersHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_id", "invalid register id"))
		return
	}
	var req dto.UpdateRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reg, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

// Delete hard-deletes a never-used register, deactivates one with history.
func (h *RegistersHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_id", "invalid register id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns the registers of the caller's branch.
func (h *RegistersHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	branchID, err := uuid.Parse(claims.BranchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_branch", "invalid branch id in token"))
		return
	}
	regs, err := h.svc.ListByBranch(c.Request.Context(), branchID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": regs})
}

// CurrentSession returns the register's open session with its movements
// newest-first, or 404 when the till is not open.
func (h *RegistersHandler) CurrentSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_id", "invalid register id"))
		return
	}
	session, err := h.sessions.CurrentSession(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, apierror.New("no_open_session", "register has no open session"))
		return
	}
	c.JSON(http.StatusOK, session)
}

package handler

import (
	"errors"
	"net/http"
	"reflect"

	"mesapos/internal/apierror"
	"mesapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid_json", "invalid JSON body: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// domainStatus maps each service sentinel to its HTTP status and wire code.
var domainStatus = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrRegisterNotFound, http.StatusNotFound, "register_not_found"},
	{service.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{service.ErrDuplicateName, http.StatusConflict, "duplicate_name"},
	{service.ErrRegisterInactive, http.StatusConflict, "register_inactive"},
	{service.ErrHasOpenSession, http.StatusConflict, "register_has_open_session"},
	{service.ErrSessionAlreadyOpen, http.StatusConflict, "session_already_open"},
	{service.ErrSessionAlreadyClosed, http.StatusConflict, "session_already_closed"},
	{service.ErrSessionClosed, http.StatusConflict, "session_closed"},
	{service.ErrInvalidAmount, http.StatusUnprocessableEntity, "validation_error"},
	{service.ErrInvalidMovement, http.StatusUnprocessableEntity, "validation_error"},
}

// renderError writes the business-rule error as its stable code, or a generic
// 500 for anything the domain does not enumerate.
func renderError(c *gin.Context, err error) {
	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			c.JSON(m.status, apierror.New(m.code, m.err.Error()))
			return
		}
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
	c.JSON(http.StatusInternalServerError, apierror.Internal())
}

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/uemoa-invoicer/internal/customer/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/compute"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/render"
	invoiceservice "github.com/smallbiznis/uemoa-invoicer/internal/invoice/service"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/validation"
	organizationdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/providers/whatsapp"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/tenant"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var complianceErr *validation.ComplianceError
	if errors.As(err, &complianceErr) {
		items := make([]ValidationError, 0, len(complianceErr.Reasons))
		for _, reason := range complianceErr.Reasons {
			items = append(items, ValidationError{
				Field:   string(complianceErr.Adapter),
				Code:    "compliance",
				Message: reason,
			})
		}
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    validation.ErrComplianceValidationFailed.Error(),
			Message: "compliance validation failed",
			Errors:  items,
		}
	}

	if errors.Is(err, compute.ErrInputInvalid) {
		return http.StatusBadRequest, errorPayload{
			Type:    compute.ErrInputInvalid.Error(),
			Message: "computation input invalid",
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		return http.StatusForbidden, errorPayload{
			Type:    tenant.ErrTenantNotFound.Error(),
			Message: "organization not found",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, organizationdomain.ErrDuplicateOrgCode),
		errors.Is(err, invoicedomain.ErrInvoiceNotSendable),
		errors.Is(err, invoicedomain.ErrInvoiceNotNumbered),
		errors.Is(err, invoicedomain.ErrDuplicateQuote),
		errors.Is(err, invoicedomain.ErrQuoteConverted),
		errors.Is(err, invoicedomain.ErrQuoteNotConvertible),
		errors.Is(err, invoiceservice.ErrSendInProgress):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case errors.Is(err, render.ErrTemplateInvalid):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    render.ErrTemplateInvalid.Error(),
			Message: "document template could not be rendered",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog feeds the request logger a stable type and code.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return http.StatusText(status), code
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, invoiceservice.ErrSendInProgress):
		return "invoice is already being sent"
	case errors.Is(err, invoicedomain.ErrInvoiceNotSendable):
		return "invoice cannot be sent"
	case errors.Is(err, invoicedomain.ErrInvoiceNotNumbered):
		return "invoice has no number yet"
	case errors.Is(err, invoicedomain.ErrDuplicateQuote):
		return "quote number already used"
	case errors.Is(err, invoicedomain.ErrQuoteConverted):
		return "quote already has an invoice"
	case errors.Is(err, invoicedomain.ErrQuoteNotConvertible):
		return "quote can no longer be invoiced"
	default:
		return "conflict"
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isOrganizationValidationError(err),
		isCustomerValidationError(err),
		isTaxValidationError(err),
		isInvoiceValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, organizationdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, taxdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, invoicedomain.ErrQuoteNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isOrganizationValidationError(err error) bool {
	switch {
	case errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, organizationdomain.ErrInvalidOrgCode),
		errors.Is(err, organizationdomain.ErrInvalidCountry),
		errors.Is(err, organizationdomain.ErrInvalidCurrency),
		errors.Is(err, organizationdomain.ErrInvalidTaxRate),
		errors.Is(err, organizationdomain.ErrInvalidBrandColor),
		errors.Is(err, organizationdomain.ErrInvalidOrganization):
		return true
	default:
		return false
	}
}

func isCustomerValidationError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrInvalidOrganization),
		errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidEmail),
		errors.Is(err, customerdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isTaxValidationError(err error) bool {
	switch {
	case errors.Is(err, taxdomain.ErrInvalidOrganization),
		errors.Is(err, taxdomain.ErrInvalidName),
		errors.Is(err, taxdomain.ErrInvalidID),
		errors.Is(err, taxdomain.ErrInvalidTaxRate):
		return true
	default:
		return false
	}
}

func isInvoiceValidationError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidOrganization),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceID),
		errors.Is(err, invoicedomain.ErrInvalidQuoteID),
		errors.Is(err, invoicedomain.ErrInvalidCustomer),
		errors.Is(err, invoicedomain.ErrInvalidTax),
		errors.Is(err, invoicedomain.ErrInvalidLine),
		errors.Is(err, invoicedomain.ErrInvalidDueDate),
		errors.Is(err, invoicedomain.ErrInvalidQuoteNumber),
		errors.Is(err, invoicedomain.ErrInvalidValidUntil),
		errors.Is(err, invoicedomain.ErrMissingRecipient),
		errors.Is(err, invoicedomain.ErrMissingPhone),
		errors.Is(err, whatsapp.ErrInvalidPhone):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return rootCode(err)
	}
}

// rootCode returns the innermost message of a wrapped sentinel.
func rootCode(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func validationErrorField(code string) string {
	switch {
	case code == "invalid_request":
		return "request"
	case strings.HasPrefix(code, "invalid_"):
		return strings.TrimPrefix(code, "invalid_")
	case strings.HasPrefix(code, "missing_"):
		return strings.TrimPrefix(code, "missing_")
	default:
		return ""
	}
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "missing_recipient":
		return "no recipient email on the customer or the request"
	case "missing_phone":
		return "customer has no phone number"
	default:
		return "invalid value"
	}
}

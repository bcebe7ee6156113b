package responses

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Message        string `json:"message"`
	Error          string `json:"error,omitempty"`
	HttpStatusCode int    `json:"-"`
}

const generalServerMessage = "Something went wrong. Please try again later"

var GeneralServerError = ErrorResponse{
	Message:        generalServerMessage,
	HttpStatusCode: http.StatusInternalServerError,
}

var BadArgumentsError = ErrorResponse{
	Message:        "Bad arguments",
	HttpStatusCode: http.StatusBadRequest,
}

var InvoiceIDRequiredError = ErrorResponse{
	Message:        "Invoice ID is required",
	HttpStatusCode: http.StatusBadRequest,
}

var PaymentFieldsRequiredError = ErrorResponse{
	Message:        "Amount, payment type, and payment date are required",
	HttpStatusCode: http.StatusBadRequest,
}

var RequiredFieldsMissingError = ErrorResponse{
	Message:        "Required fields are missing",
	HttpStatusCode: http.StatusBadRequest,
}

var InvoiceNotFoundError = ErrorResponse{
	Message:        "Invoice not found",
	HttpStatusCode: http.StatusNotFound,
}

// FromError builds the response for a failed ledger operation. Domain
// errors keep their text, anything else is reported as a server error
// without leaking driver details.
func FromError(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message}
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrOverpayment):
		resp.HttpStatusCode = http.StatusBadRequest
		resp.Error = err.Error()
	case errors.Is(err, service.ErrNotFound):
		resp.HttpStatusCode = http.StatusNotFound
		resp.Error = err.Error()
	default:
		resp.HttpStatusCode = http.StatusInternalServerError
		resp.Error = generalServerMessage
	}
	return resp
}

// Send writes the error response, logging and reporting server errors.
func Send(c echo.Context, message string, err error) error {
	resp := FromError(message, err)
	if resp.HttpStatusCode >= http.StatusInternalServerError {
		c.Logger().Errorf("%s: %v", message, err)
		CaptureException(c, err)
	}
	return c.JSON(resp.HttpStatusCode, resp)
}

func CaptureException(c echo.Context, err error) {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
			hub.CaptureException(err)
		})
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if isErrAllowedForSentry(err) {
		CaptureException(c, err)
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		message, ok := he.Message.(string)
		if !ok {
			message = http.StatusText(he.Code)
		}
		c.JSON(he.Code, ErrorResponse{Message: message})
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}

// client errors raised by echo itself (unknown route, bad key, body too
// large) are not worth a sentry event
func isErrAllowedForSentry(err error) bool {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code >= http.StatusInternalServerError
	}
	return true
}

package handler

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-action-board/errors"
	pkgvalidator "github.com/johnquangdev/meeting-action-board/pkg/validator"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request or the response
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleSuccessStatus(logger, c, http.StatusOK, data)
}

// HandleSuccessStatus writes a success response with a non-default status code
func HandleSuccessStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			log := logger.Warn
			if appErr.HTTPCode >= http.StatusInternalServerError {
				log = logger.Error
			}
			log("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Stringer("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	var httpErr *echo.HTTPError
	if stdErrors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return c.JSON(httpErr.Code, errs{Code: httpErr.Code, Message: message})
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// ErrorHandler renders errors returned by handlers and middleware through HandleError
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if herr := HandleError(logger, c, err); herr != nil && logger != nil {
			logger.Error("failed to write error response", zap.Error(herr))
		}
	}
}

// bindAndValidate binds the request into v and runs the registered validator
func bindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return errors.ErrInvalidPayload().WithDetail("reason", bindMessage(err))
	}
	if err := c.Validate(v); err != nil {
		field, ok := pkgvalidator.FailedField(err)
		if !ok {
			field = "request"
		}
		return errors.ErrValidationFailed(field, err)
	}
	return nil
}

func bindMessage(err error) string {
	var httpErr *echo.HTTPError
	if stdErrors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			return m
		}
	}
	return err.Error()
}

// ValidateContentType checks if the request content type matches the expected type
func ValidateContentType(c echo.Context, expectedType string) bool {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(strings.ToLower(contentType), strings.ToLower(expectedType))
}

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"project-service/internal/domain"
	"project-service/internal/repository"
	"project-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by handlers and middleware. It is the
// only place domain errors become status codes; 5xx causes are logged, never sent.
func ErrorHandler(base *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		log := logger.FromEcho(c, base)

		status, body := classify(err)
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request failed", zap.Int("status", status), zap.Error(err))
		case status == http.StatusUnauthorized:
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error("Failed to write error response", zap.Error(err))
		}
	}
}

func classify(err error) (int, ErrorResponse) {
	var validationErr *ValidationError
	var storeErr *repository.StoreError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: validationErr.Details}
	case errors.Is(err, domain.ErrValidation):
		if errors.As(err, &storeErr) {
			return http.StatusUnprocessableEntity, ErrorResponse{Error: "value rejected by the store"}
		}
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrDuplicateCredential):
		return http.StatusBadRequest, ErrorResponse{Error: domain.ErrDuplicateCredential.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: domain.ErrUnauthenticated.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidAssignee):
		return http.StatusBadRequest, ErrorResponse{Error: domain.ErrInvalidAssignee.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		if errors.As(err, &storeErr) {
			return http.StatusConflict, ErrorResponse{Error: "resource already exists"}
		}
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrTransientStore):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "service temporarily unavailable, retry later"}
	case errors.As(err, &httpErr):
		return httpErr.Code, ErrorResponse{Error: httpMessage(httpErr)}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}

func httpMessage(he *echo.HTTPError) string {
	if he.Code >= http.StatusInternalServerError {
		return "internal server error"
	}
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return http.StatusText(he.Code)
}

// badRequest marks an undecodable body
func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
}

// pathID parses a UUID path parameter. Malformed ids read as missing entities.
func pathID(c echo.Context, name, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %w", entity, domain.ErrNotFound)
	}
	return id, nil
}

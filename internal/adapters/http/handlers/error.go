package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/logger"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
)

const CodeInternal = "INTERNAL_ERROR"

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HandleError writes err as a JSON error response. Unknown errors are logged and reported
// as a generic 500.
func HandleError(c *gin.Context, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		c.JSON(mapCodeToHTTP(domainErr.Code), ErrorResponse{
			Error: messageForCode(domainErr),
			Code:  string(domainErr.Code),
		})
		return
	}

	var svcErr *serviceerrors.ServiceError
	if errors.As(err, &svcErr) {
		code := svcErr.Code
		if code == "" {
			code = defaultCodeForKind(svcErr.Kind)
		}
		c.JSON(mapKindToHTTP(svcErr.Kind), ErrorResponse{Error: svcErr.Message, Code: code})
		return
	}

	logger.Error(c.Request.Context(), "unhandled request error", err, map[string]any{
		"http.method": c.Request.Method,
		"http.route":  c.FullPath(),
	})
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

func mapCodeToHTTP(code domain.ErrorCode) int {
	switch code {
	case domain.CodeUnauthorizedEdit:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func messageForCode(err *domain.Error) string {
	switch err.Code {
	case domain.CodeInvalidReorderLength, domain.CodeInvalidReorderID:
		return "invalid reorder"
	default:
		return err.Message
	}
}

func mapKindToHTTP(kind serviceerrors.ErrorKind) int {
	switch kind {
	case serviceerrors.KindNotFound:
		return http.StatusNotFound
	case serviceerrors.KindConflict:
		return http.StatusConflict
	case serviceerrors.KindUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case serviceerrors.KindInvalidRequest:
		return http.StatusBadRequest
	case serviceerrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case serviceerrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func defaultCodeForKind(kind serviceerrors.ErrorKind) string {
	switch kind {
	case serviceerrors.KindNotFound:
		return "NOT_FOUND"
	case serviceerrors.KindConflict:
		return "CONFLICT"
	case serviceerrors.KindUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case serviceerrors.KindInvalidRequest:
		return "INVALID_REQUEST"
	case serviceerrors.KindUnauthenticated:
		return "UNAUTHENTICATED"
	case serviceerrors.KindForbidden:
		return "FORBIDDEN"
	default:
		return CodeInternal
	}
}

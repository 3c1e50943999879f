package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/project/catalog/internal/entity"
	"go.uber.org/zap"
)

const internalMessage = "internal error"

type (
	errorResponse struct {
		Success bool      `json:"success"`
		Error   errorBody `json:"error"`
	}

	errorBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details,omitempty"`
	}
)

func statusOf(failure entity.Failure) int {
	switch failure {
	case entity.FailureInvalid:
		return http.StatusBadRequest
	case entity.FailureNotFound:
		return http.StatusNotFound
	case entity.FailureConflict, entity.FailureHasDependents:
		return http.StatusConflict
	case entity.FailureReferenceMissing:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// convertErr writes the error envelope for err and aborts the request.
// Store failures never leak their cause to the client.
func (i *implementation) convertErr(c *gin.Context, err error) {
	failure := entity.Classify(err)

	body := errorBody{
		Code:    failure.String(),
		Message: err.Error(),
	}

	var fields validation.Errors
	if errors.As(err, &fields) {
		body.Details = fields
	}

	if failure == entity.FailureStore {
		body.Message = internalMessage
		if i.logger != nil {
			i.logger.Error("request failed", zap.String("request_id", c.GetString(requestIDKey)), zap.Error(err))
		}
	}

	c.AbortWithStatusJSON(statusOf(failure), errorResponse{Error: body})
}

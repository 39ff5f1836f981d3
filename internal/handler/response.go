package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorBody is the error part of a failed response.
type ErrorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// Success writes a 200 response wrapping data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created writes a 201 response wrapping data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// BadRequest writes a 400 response for malformed input.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, ErrorBody{Code: "bad_request", Message: message})
}

// Error maps err onto a status code and error code. Anything outside the
// domain taxonomy is a 500 whose detail is logged, not returned.
func Error(c *gin.Context, err error) {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
		mismatch   *domain.IdentityMismatchError
		duplicate  *domain.DuplicateLinkError
		constraint *domain.ConstraintViolationError
	)
	switch {
	case errors.As(err, &validation):
		abort(c, http.StatusUnprocessableEntity, ErrorBody{
			Code:    "validation_failed",
			Message: "one or more fields are invalid",
			Fields:  validation.Fields,
		})
	case errors.As(err, &notFound):
		abort(c, http.StatusNotFound, ErrorBody{Code: "not_found", Message: notFound.Error()})
	case errors.As(err, &conflict):
		abort(c, http.StatusConflict, ErrorBody{Code: "concurrency_conflict", Message: conflict.Error()})
	case errors.As(err, &mismatch):
		abort(c, http.StatusBadRequest, ErrorBody{Code: "identity_mismatch", Message: mismatch.Error()})
	case errors.As(err, &duplicate):
		abort(c, http.StatusConflict, ErrorBody{Code: "duplicate_link", Message: duplicate.Error()})
	case errors.As(err, &constraint):
		abort(c, http.StatusConflict, ErrorBody{Code: "constraint_violation", Message: constraint.Error()})
	default:
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, ErrorBody{Code: "internal_error", Message: "internal server error"})
	}
}

func abort(c *gin.Context, status int, body ErrorBody) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": body})
}

// parseID reads a positive numeric path parameter. It writes a 400 and
// returns false when the parameter is malformed.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 0)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+param)
		return 0, false
	}
	return uint(id), true
}

// existenceStatus answers a HEAD existence check with 200 or 404.
func existenceStatus(c *gin.Context, exists bool) {
	if exists {
		c.Status(http.StatusOK)
		return
	}
	c.Status(http.StatusNotFound)
}

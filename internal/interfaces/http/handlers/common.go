// Package handlers implements the HTTP endpoints of the parse API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/smiles-parser/internal/application/molecule"
	"github.com/turtacn/smiles-parser/internal/interfaces/http/middleware"
	"github.com/turtacn/smiles-parser/pkg/errors"
	"github.com/turtacn/smiles-parser/pkg/types/common"
)

// writeSuccess wraps data in the standard envelope.
func writeSuccess[T any](c *gin.Context, status int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// writeAppError maps err to its HTTP status and writes the error envelope.
// Parse failures carry their position details under error.details.  Errors
// without an application code are masked as internal errors.
func writeAppError(c *gin.Context, err error) {
	dto := molecule.ErrorDTO(err)
	status := errors.HTTPStatusForCode(errors.ErrorCode(dto.Code))

	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		dto.Message = errors.DefaultMessageForCode(errors.ErrCodeInternal)
	}

	detail := &common.ErrorDetail{Code: dto.Code, Message: dto.Message}
	if dto.Kind != "" {
		detail.Details = map[string]interface{}{
			"kind":     dto.Kind,
			"offset":   dto.Offset,
			"found":    dto.Found,
			"expected": dto.Expected,
			"snippet":  dto.Snippet,
		}
	}
	_ = c.Error(err)
	c.JSON(status, common.APIResponse[any]{
		Success:   false,
		Error:     detail,
		RequestID: middleware.GetRequestID(c),
		Timestamp: common.NewTimestamp(),
	})
}

// writeBadRequest reports a malformed request body.
func writeBadRequest(c *gin.Context, err error) {
	if isBodyTooLarge(err) {
		writeAppError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "request body too large"))
		return
	}
	writeAppError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request body"))
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

//Personal.AI order the ending

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/pkg/errors"
	"github.com/turtacn/smiles-parser/pkg/types/common"
)

// Recovery turns a handler panic into a 500 response in the standard envelope.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error("panic recovered",
				logging.String(logging.FieldRequestID, GetRequestID(c)),
				logging.String("panic", fmt.Sprint(rec)),
				logging.String("stack", string(debug.Stack())),
			)
			resp := common.NewErrorResponse(string(errors.ErrCodeInternal), errors.DefaultMessageForCode(errors.ErrCodeInternal))
			resp.RequestID = GetRequestID(c)
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()
		c.Next()
	}
}

// BodyLimit caps request bodies at maxBytes.  Reads beyond the cap fail and
// the handler reports them as bad requests.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

//Personal.AI order the ending

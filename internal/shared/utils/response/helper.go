package response

import (
	"ticketflow/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps an error chain to its HTTP status via the apperrors
// taxonomy and renders the standard envelope.
func RespondError(c *gin.Context, message string, err error) {
	errDetail := interface{}(nil)
	if err != nil {
		errDetail = err.Error()
	}
	RespondJSON(c, "error", apperrors.HTTPStatus(err), message, nil, errDetail)
}

package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillsync/internal/utils"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Code    utils.Code        `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Error renders err with the status of its AppError code. Internal details
// never reach the client.
func Error(c *gin.Context, err error) {
	c.JSON(utils.HTTPStatus(err), failure(err))
}

func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(utils.HTTPStatus(err), failure(err))
}

func ValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Error:  "invalid request body",
		Code:   utils.CodeInvalidArgument,
		Fields: fields,
	})
}

func failure(err error) Envelope {
	var ae *utils.AppError
	if errors.As(err, &ae) && ae.Code != utils.CodeInternal && ae.Message != "" {
		return Envelope{Error: ae.Message, Code: ae.Code}
	}
	status := utils.HTTPStatus(err)
	return Envelope{Error: http.StatusText(status), Code: utils.CodeOf(err)}
}

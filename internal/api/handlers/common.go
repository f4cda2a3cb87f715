package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillsync/internal/api/middleware"
	"github.com/yoockh/skillsync/internal/api/response"
	"github.com/yoockh/skillsync/internal/utils"
	"github.com/yoockh/skillsync/internal/validator"
)

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.Error(c, err)
}

func writeBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.ValidationError(c, validator.TranslateErrors(err))
}

func requireUserID(c *gin.Context) (string, bool) {
	if s := c.GetString(middleware.ContextUserID); s != "" {
		return s, true
	}
	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every API answer.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func fail(c *gin.Context, code int, message string, err error) {
	if err != nil {
		message += ": " + err.Error()
	}
	c.JSON(code, Response{Code: code, Message: message})
}

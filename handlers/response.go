package handlers

import "github.com/gin-gonic/gin"

// successResponse wraps a payload in the envelope the frontend expects.
type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// messageResponse carries a human-readable message instead of a payload.
type messageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, successResponse{Status: "success", Data: data})
}

func respondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, messageResponse{Status: "success", Message: message})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, messageResponse{Status: "error", Message: message})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sunatstock/internal/api"
	"sunatstock/internal/rpc"
)

type UserHTTPHandler struct {
	userClient rpc.UserService
}

func NewUserHTTPHandler(userClient rpc.UserService) *UserHTTPHandler {
	return &UserHTTPHandler{
		userClient: userClient,
	}
}

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// --- Authentication ---

func (h *UserHTTPHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.userClient.Login(ctx, req)
	if err != nil {
		code, message := httpStatusFromError(err)
		if code >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.JSON(code, errorResponse(message))
		return
	}

	if result == nil {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid username or password"))
		return
	}

	c.JSON(http.StatusOK, successResponse("login successful", result))
}

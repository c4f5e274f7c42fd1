package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/service"
)

// UserHandler mantiene dependencias para endpoints de cuentas.
type UserHandler struct {
	logger   *zap.Logger
	accounts *service.AccountService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, accounts *service.AccountService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		accounts: accounts,
	}
}

// Register maneja POST /users. El guard EmailNotTaken ya validó el body y
// la unicidad del email.
func (h *UserHandler) Register(c *gin.Context) {
	val, ok := c.Get(registerPayloadKey)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Missing request payload."})
		return
	}
	req := val.(registerPayload)

	user, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		// El guard y Create pueden correr contra registros concurrentes;
		// el directorio cierra la carrera y responde el mismo 409.
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already exists."})
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create user."})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login maneja POST /login. El guard EmailExists ya confirmó la cuenta.
func (h *UserHandler) Login(c *gin.Context) {
	val, ok := c.Get(loginPayloadKey)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Missing request payload."})
		return
	}
	req := val.(loginPayload)

	_, token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Email/Password invalid."})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not login."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// List maneja GET /users (solo administradores).
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list users."})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Profile maneja GET /users/profile con el llamador autenticado.
func (h *UserHandler) Profile(c *gin.Context) {
	caller, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
		return
	}
	c.JSON(http.StatusOK, caller)
}

// Update maneja PATCH /users/:id con merge parcial de campos.
func (h *UserHandler) Update(c *gin.Context) {
	var req struct {
		Email    *string `json:"email" binding:"omitempty,email"`
		Name     *string `json:"name"`
		Password *string `json:"password"`
		IsAdmin  *bool   `json:"is_admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	user, err := h.accounts.Update(c.Request.Context(), c.Param("id"), service.UpdateInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"message": "Email already exists."})
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		default:
			h.logger.Error("update user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update user."})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete maneja DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.accounts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		h.logger.Error("delete user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete user."})
		return
	}
	c.Status(http.StatusNoContent)
}

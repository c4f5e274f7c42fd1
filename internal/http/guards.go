package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"account-service/internal/domain"
	"account-service/internal/service"
)

// Claves de contexto donde los guards dejan lo resuelto para los
// handlers posteriores.
const (
	authUserKey        = "auth_user"
	registerPayloadKey = "register_payload"
	loginPayloadKey    = "login_payload"
)

type registerPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EmailNotTaken guarda el registro: rechaza con 409 si ya existe una
// cuenta con el email enviado.
func EmailNotTaken(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
			return
		}

		if _, err := accounts.GetByEmail(c.Request.Context(), req.Email); err == nil {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "Email already exists."})
			return
		}

		c.Set(registerPayloadKey, req)
		c.Next()
	}
}

// EmailExists guarda el login: rechaza con 401 si el email no resuelve a
// ninguna cuenta. El mensaje no distingue email inexistente de contraseña
// incorrecta.
func EmailExists(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
			return
		}

		if _, err := accounts.GetByEmail(c.Request.Context(), req.Email); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Email/Password invalid."})
			return
		}

		c.Set(loginPayloadKey, req)
		c.Next()
	}
}

// RequireAuth exige un bearer token válido cuyo claim de email resuelva a
// una cuenta existente. El usuario resuelto queda en el contexto como el
// llamador autenticado.
func RequireAuth(tokens *service.TokenService, accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing authorization token."})
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
			return
		}

		user, err := accounts.GetByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

// RequireAdmin exige que el llamador autenticado sea administrador.
// Asume que RequireAuth ya corrió en la cadena.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetAuthUser(c)
		if !ok || !caller.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Missing admin permissions."})
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin exige que el llamador sea administrador o el dueño
// del id destino de la ruta.
func RequireSelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetAuthUser(c)
		if !ok || (!caller.IsAdmin && caller.ID != c.Param("id")) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Missing admin permissions."})
			return
		}
		c.Next()
	}
}

// GetAuthUser obtiene el llamador autenticado dejado por RequireAuth.
func GetAuthUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

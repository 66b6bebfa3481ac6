package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword gera o hash bcrypt da senha.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compara a senha com o hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BasicAuth protege a rota com HTTP Basic. A senha esperada é um hash
// bcrypt, nunca texto puro.
func BasicAuth(username, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != username || !CheckPassword(pass, passwordHash) {
			c.Header("WWW-Authenticate", `Basic realm="progresso"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "credenciais inválidas",
			})
			return
		}
		c.Next()
	}
}

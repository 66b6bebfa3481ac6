package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestBearerAuth(t *testing.T) {
	r := newRouter()
	r.GET("/protegida", BearerAuth(AuthConfig{TokenAPI: "segredo"}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"sem header", "", http.StatusUnauthorized},
		{"formato errado", "segredo", http.StatusUnauthorized},
		{"token errado", "Bearer outra-coisa", http.StatusUnauthorized},
		{"token certo", "Bearer segredo", http.StatusOK},
		{"bearer minúsculo", "bearer segredo", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protegida", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestBasicAuth(t *testing.T) {
	hash, err := HashPassword("senha-forte")
	if err != nil {
		t.Fatal(err)
	}

	r := newRouter()
	r.GET("/painel", BasicAuth("gerente", hash), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("credenciais corretas", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/painel", nil)
		req.SetBasicAuth("gerente", "senha-forte")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("senha errada", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/painel", nil)
		req.SetBasicAuth("gerente", "chute")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
		if w.Header().Get("WWW-Authenticate") == "" {
			t.Error("missing WWW-Authenticate challenge")
		}
	})

	t.Run("sem credenciais", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/painel", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestCheckPasswordRejectsWrongHash(t *testing.T) {
	hash, err := HashPassword("abc")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword("abc", hash) {
		t.Error("valid password rejected")
	}
	if CheckPassword("abd", hash) {
		t.Error("wrong password accepted")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)

	r := newRouter()
	r.POST("/caro", rl.Handle(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/caro", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		if code := hit("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("burst exceeded: status = %d, want 429", code)
	}
	// another client keeps its own budget
	if code := hit("10.0.0.2"); code != http.StatusOK {
		t.Errorf("second client: status = %d, want 200", code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	r := newRouter()
	r.Use(RequestID())
	r.GET("/eco", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("generates when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/eco", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get(HeaderRequestID); len(got) != 8 {
			t.Errorf("generated request id = %q, want 8 chars", got)
		}
	})

	t.Run("echoes provided id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/eco", nil)
		req.Header.Set(HeaderRequestID, "abc123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get(HeaderRequestID); got != "abc123" {
			t.Errorf("request id = %q, want abc123", got)
		}
	})
}

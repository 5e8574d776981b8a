// Package apitest sobe uma API remota falsa (gin + httptest) para os testes.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// Recorded é uma requisição recebida pela API falsa.
type Recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Server é a API falsa. Registre rotas em Engine antes de usar.
type Server struct {
	*httptest.Server
	Engine *gin.Engine

	mu       sync.Mutex
	requests []Recorded
}

// New cria o servidor; ele é fechado no fim do teste.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := &Server{Engine: gin.New()}
	s.Engine.Use(s.record)
	s.Server = httptest.NewServer(s.Engine)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()
	c.Next()
}

// Requests retorna uma cópia das requisições recebidas.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Count conta requisições por método e caminho.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// OK responde com o envelope de sucesso.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok", "data": data})
}

// Fail responde com o envelope de erro.
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg, "error": msg})
}

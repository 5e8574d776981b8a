package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/tenant-console/internal/models"
)

var (
	// ErrUnreachable: falha de transporte antes de obter uma resposta.
	ErrUnreachable = errors.New("serviço inacessível")
	// ErrUnsuccessful: envelope com success=false.
	ErrUnsuccessful = errors.New("resposta sem sucesso")
	// ErrShape: corpo que não tem o formato esperado.
	ErrShape = errors.New("formato de resposta inesperado")
)

// StatusError é uma resposta HTTP >= 400.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Client é o cliente JSON da API do console. Todas as chamadas passam pelo Interceptor.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient cria o cliente. next pode ser nil (http.DefaultTransport).
func NewClient(baseURL string, timeout time.Duration, src SessionSource, next http.RoundTripper) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: NewInterceptor(src, next),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Do executa a chamada e decodifica o campo data do envelope em out (se não nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	return c.DoWithHeaders(ctx, method, path, nil, in, out)
}

// DoWithHeaders é como Do, com headers explícitos. Headers explícitos de tenant
// ou autorização não são sobrescritos pelo interceptor.
func (c *Client) DoWithHeaders(ctx context.Context, method, path string, headers http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	if resp.StatusCode >= 400 {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(payload)}
	}
	return decode(payload, out)
}

func decode(payload []byte, out any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		if out == nil {
			return nil
		}
		return fmt.Errorf("%w: corpo vazio", ErrShape)
	}
	// alguns endpoints devolvem a lista sem envelope
	if trimmed[0] == '[' {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("%w: %w", ErrShape, err)
		}
		return nil
	}

	var env models.Envelope[json.RawMessage]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		if out == nil {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrShape, err)
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrUnsuccessful, firstNonEmpty(env.Error, env.Message))
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: data ausente", ErrShape)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrShape, err)
	}
	return nil
}

func errorMessage(payload []byte) string {
	var env models.Envelope[json.RawMessage]
	if err := json.Unmarshal(payload, &env); err == nil {
		if msg := firstNonEmpty(env.Error, env.Message); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(payload))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

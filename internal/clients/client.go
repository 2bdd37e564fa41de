// Package clients содержит общий HTTP-клиент внешних сервисов: сборку JSON-запросов,
// ограничение времени ожидания и приведение сетевых ошибок к ErrExternalService.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/lib/metrics"
)

// Client выполняет запросы к одному внешнему сервису.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

// New создаёт Client. name используется в метриках.
func New(name, baseURL string, timeout time.Duration) *Client {
	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewRequest собирает запрос к path с JSON-телом body (может быть nil).
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Do выполняет запрос. Сетевые ошибки возвращаются как ErrExternalService,
// превышение времени ожидания дополнительно оборачивает ErrTimedOut.
// Тело ответа закрывает вызывающий.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.observe("timeout")
			return nil, fmt.Errorf("%w: %w: %v", errs.ErrExternalService, errs.ErrTimedOut, err)
		}
		c.observe("error")
		return nil, fmt.Errorf("%w: %v", errs.ErrExternalService, err)
	}
	c.observe(statusClass(resp.StatusCode))
	return resp, nil
}

// DecodeJSON читает JSON-ответ в out.
func DecodeJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", errs.ErrExternalService, err)
	}
	return nil
}

// UnexpectedStatus формирует ошибку для неожиданного кода ответа.
func UnexpectedStatus(resp *http.Response) error {
	return fmt.Errorf("%w: unexpected status: %s", errs.ErrExternalService, resp.Status)
}

func (c *Client) observe(outcome string) {
	metrics.ExternalCalls.WithLabelValues(c.name, outcome).Inc()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "ok"
	}
}

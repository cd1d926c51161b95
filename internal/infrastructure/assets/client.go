package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// deleteRequest содержит запрос на удаление файла
type deleteRequest struct {
	URL string `json:"url"`
}

// Client - интерфейс для работы с хранилищем файлов клиентских документов
type Client interface {
	// Delete удаляет загруженный файл по его публичному URL
	Delete(ctx context.Context, rawURL string) error

	// Health проверяет доступность хранилища
	Health(ctx context.Context) error
}

// httpClient - HTTP реализация клиента хранилища
type httpClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration
}

// NewHTTPClient создает новый HTTP клиент для хранилища файлов
func NewHTTPClient(baseURL, token string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		token:   token,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Delete отправляет запрос на удаление файла с retry логикой
func (c *httpClient) Delete(ctx context.Context, rawURL string) error {
	jsonData, err := json.Marshal(deleteRequest{URL: rawURL})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error

	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Линейная задержка между попытками
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		// Тело запроса нельзя переиспользовать между попытками
		url := fmt.Sprintf("%s/api/v1/files/delete", c.baseURL)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		lastErr = c.doRequest(req)
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("file deletion failed after %d attempts: %w", maxRetries, lastErr)
}

// doRequest выполняет HTTP запрос и обрабатывает ответ
func (c *httpClient) doRequest(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Файл мог быть удален ранее - это не ошибка
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("asset service returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Health проверяет доступность хранилища файлов
func (c *httpClient) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// noopClient используется, когда внешнее хранилище не настроено:
// документы хранятся как внешние URL и чистить нечего
type noopClient struct{}

// NewNoopClient создает клиент-заглушку
func NewNoopClient() Client {
	return noopClient{}
}

func (noopClient) Delete(ctx context.Context, rawURL string) error { return nil }
func (noopClient) Health(ctx context.Context) error                { return nil }

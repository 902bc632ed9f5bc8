package calendarservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент внешнего календаря
// Календарь рассматривается как чёрный ящик с HTTP контрактом:
// create/update/delete события и список событий за окно времени
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента календаря
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateEvent создает событие в календаре
func (c *Client) CreateEvent(ctx context.Context, req *CreateEventRequest) (*CreateEventResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/internal/events", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	default:
		return nil, c.unexpectedStatus("CreateEvent", resp)
	}

	var created CreateEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if created.EventID == "" {
		return nil, fmt.Errorf("%w: empty eventId in response", ErrInvalidResponse)
	}

	return &created, nil
}

// UpdateEvent частично обновляет событие календаря
func (c *Client) UpdateEvent(ctx context.Context, eventID string, req *UpdateEventRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		fmt.Sprintf("%s/internal/events/%s", c.baseURL, url.PathEscape(eventID)), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrEventNotFound
	default:
		return c.unexpectedStatus("UpdateEvent", resp)
	}
}

// DeleteEvent удаляет событие календаря
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/internal/events/%s", c.baseURL, url.PathEscape(eventID)), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrEventNotFound
	default:
		return c.unexpectedStatus("DeleteEvent", resp)
	}
}

// ListEvents возвращает события календаря, пересекающиеся с окном [start, end]
func (c *Client) ListEvents(ctx context.Context, start, end time.Time) ([]Event, error) {
	listURL := fmt.Sprintf("%s/internal/events?start=%s&end=%s",
		c.baseURL,
		url.QueryEscape(start.Format(time.RFC3339)),
		url.QueryEscape(end.Format(time.RFC3339)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus("ListEvents", resp)
	}

	var list listEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return list.Events, nil
}

// unexpectedStatus формирует ошибку по неожиданному статус-коду ответа
// Тело ответа провайдера сохраняется в тексте ошибки для диагностики
func (c *Client) unexpectedStatus(method string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	c.log.Warn("%s: unexpected status %d from calendar service: %s", method, resp.StatusCode, string(body))
	return fmt.Errorf("%w: %s - unexpected status code %d: %s", ErrServiceUnavailable, method, resp.StatusCode, string(body))
}

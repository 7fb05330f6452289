package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/common"
)

// RESTClient implements Client against the Farmline backend.
type RESTClient struct {
	baseURL string
	http    *http.Client
	watcher *UnauthorizedWatcher
}

// NewRESTClient builds the client. tokenSource is read on every request;
// onUnauthorized (may be nil) is invoked once when a protected endpoint
// answers 401.
func NewRESTClient(baseURL string, tokenSource func() string, onUnauthorized func()) *RESTClient {
	watcher := NewUnauthorizedWatcher(onUnauthorized)
	transport := Chain(nil,
		AuthInterceptor(tokenSource),
		watcher.Interceptor(),
	)
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: transport},
		watcher: watcher,
	}
}

// ResetUnauthorized re-arms the 401 watcher after a fresh login.
func (c *RESTClient) ResetUnauthorized() { c.watcher.Reset() }

func (c *RESTClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: serverMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// serverMessage extracts the {"message": ...} text from an error body, if any.
func serverMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// listEnvelope is the {"content": [...]} wrapper every list endpoint uses.
type listEnvelope[T any] struct {
	Content []T `json:"content"`
}

func list[T any](ctx context.Context, c *RESTClient, path string) ([]T, error) {
	var env listEnvelope[T]
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Content, nil
}

// --- auth ---

func (c *RESTClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var res struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", body, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// --- products ---

func (c *RESTClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	return list[models.Product](ctx, c, "/product")
}

func (c *RESTClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodGet, "/product/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RESTClient) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/product", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *RESTClient) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var updated models.Product
	if err := c.do(ctx, http.MethodPut, "/product/"+p.ID, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *RESTClient) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/product/"+id, nil, nil)
}

// --- categories ---

func (c *RESTClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	return list[models.Category](ctx, c, "/categories")
}

func (c *RESTClient) CreateCategory(ctx context.Context, cat models.Category) (*models.Category, error) {
	var created models.Category
	if err := c.do(ctx, http.MethodPost, "/categories", cat, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *RESTClient) UpdateCategory(ctx context.Context, cat models.Category) (*models.Category, error) {
	var updated models.Category
	if err := c.do(ctx, http.MethodPut, "/categories/"+cat.ID, cat, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *RESTClient) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id, nil, nil)
}

// --- orders ---

func (c *RESTClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	return list[models.Order](ctx, c, "/orders")
}

func (c *RESTClient) CreateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	var created models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", o, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *RESTClient) UpdateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	var updated models.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+o.ID, o, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// --- users ---

func (c *RESTClient) ListUsers(ctx context.Context) ([]models.Identity, error) {
	return list[models.Identity](ctx, c, "/users")
}

func (c *RESTClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id, nil, nil)
}

// --- farms ---

func (c *RESTClient) ListFarms(ctx context.Context) ([]models.Farm, error) {
	return list[models.Farm](ctx, c, "/farm")
}

func (c *RESTClient) GetFarm(ctx context.Context, id string) (*models.Farm, error) {
	var f models.Farm
	if err := c.do(ctx, http.MethodGet, "/farm/"+id, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *RESTClient) CreateFarm(ctx context.Context, f models.Farm) (*models.Farm, error) {
	var created models.Farm
	if err := c.do(ctx, http.MethodPost, "/farm", f, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *RESTClient) UpdateFarm(ctx context.Context, f models.Farm) (*models.Farm, error) {
	var updated models.Farm
	if err := c.do(ctx, http.MethodPut, "/farm/"+f.ID, f, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *RESTClient) DeleteFarm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/farm/"+id, nil, nil)
}

// --- chat ---

func (c *RESTClient) ListMessages(ctx context.Context) ([]models.Message, error) {
	return list[models.Message](ctx, c, "/messages")
}

func (c *RESTClient) ConversationHistory(ctx context.Context, counterpartID string) ([]models.Message, error) {
	return list[models.Message](ctx, c, "/firebase-messages/conversation/"+counterpartID)
}

func (c *RESTClient) MarkConversationRead(ctx context.Context, counterpartID string) error {
	return c.do(ctx, http.MethodPut, "/firebase-messages/read/"+counterpartID, nil, nil)
}

func (c *RESTClient) SendRealtimeMessage(ctx context.Context, msg models.Message) (*SendResult, error) {
	var res SendResult
	if err := c.do(ctx, http.MethodPost, "/firebase-messages", msg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

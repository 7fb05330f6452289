package api

import (
	"context"

	"github.com/mkalvans/farmline/internal/client/models"
)

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	AccessToken string          `json:"access_token"`
	User        models.Identity `json:"user"`
}

// RegisterRequest is the registration payload. UserType is restricted to
// the self-service roles; administrators are provisioned server-side.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	UserType string `json:"userType" validate:"required,oneof=buyer seller"`
	Password string `json:"password" validate:"required,min=6"`
}

// SendResult is the response to a chat send. RealtimeUnavailable is set by
// the backend when its own write into the realtime store failed; the REST
// record is still durable in that case.
type SendResult struct {
	Message             models.Message `json:"message"`
	RealtimeUnavailable bool           `json:"realtimeUnavailable"`
}

// Client is the REST surface consumed by the session store, the services
// layer and the messaging bridge.
type Client interface {
	// Auth.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) (string, error)

	// Products.
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// Categories.
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Orders.
	ListOrders(ctx context.Context) ([]models.Order, error)
	CreateOrder(ctx context.Context, o models.Order) (*models.Order, error)
	UpdateOrder(ctx context.Context, o models.Order) (*models.Order, error)

	// Users (admin).
	ListUsers(ctx context.Context) ([]models.Identity, error)
	DeleteUser(ctx context.Context, id string) error

	// Farms.
	ListFarms(ctx context.Context) ([]models.Farm, error)
	GetFarm(ctx context.Context, id string) (*models.Farm, error)
	CreateFarm(ctx context.Context, f models.Farm) (*models.Farm, error)
	UpdateFarm(ctx context.Context, f models.Farm) (*models.Farm, error)
	DeleteFarm(ctx context.Context, id string) error

	// Chat: durable REST records plus the realtime-store fallback paths.
	ListMessages(ctx context.Context) ([]models.Message, error)
	ConversationHistory(ctx context.Context, counterpartID string) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, counterpartID string) error
	SendRealtimeMessage(ctx context.Context, msg models.Message) (*SendResult, error)
}

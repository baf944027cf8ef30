package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/catalog"
	"github.com/heartcraft/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) ListProducts(ctx context.Context, query catalog.Query) (*models.ProductListResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).(*models.ProductListResponse)
	return resp, args.Error(1)
}

func (m *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *CatalogService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID, productID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID, itemID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

type CheckoutService struct {
	mock.Mock
}

func (m *CheckoutService) GetView(ctx context.Context, userID uuid.UUID) (*models.CheckoutView, error) {
	args := m.Called(ctx, userID)
	view, _ := args.Get(0).(*models.CheckoutView)
	return view, args.Error(1)
}

func (m *CheckoutService) Submit(ctx context.Context, userID uuid.UUID, details models.ShippingDetails) (*models.CheckoutView, error) {
	args := m.Called(ctx, userID, details)
	view, _ := args.Get(0).(*models.CheckoutView)
	return view, args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) (*models.PaginatedResponse, error) {
	args := m.Called(ctx, userID, page, size)
	resp, _ := args.Get(0).(*models.PaginatedResponse)
	return resp, args.Error(1)
}

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.LoginResponse)
	return resp, args.Error(1)
}

func (m *UserService) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserService) ValidateSession(ctx context.Context, sessionID string, userID uuid.UUID) error {
	return m.Called(ctx, sessionID, userID).Error(0)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) SendOrderConfirmation(ctx context.Context, order *models.Order, recipient, name string) error {
	return m.Called(ctx, order, recipient, name).Error(0)
}

type ContentService struct {
	mock.Mock
}

func (m *ContentService) Home(ctx context.Context) *models.HomeContent {
	content, _ := m.Called(ctx).Get(0).(*models.HomeContent)
	return content
}

type NewsletterService struct {
	mock.Mock
}

func (m *NewsletterService) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscription, bool, error) {
	args := m.Called(ctx, email)
	sub, _ := args.Get(0).(*models.NewsletterSubscription)
	return sub, args.Bool(1), args.Error(2)
}

type Publisher struct {
	mock.Mock
}

func (m *Publisher) PublishOrderPlaced(ctx context.Context, event models.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *Publisher) Close() error {
	return m.Called().Error(0)
}

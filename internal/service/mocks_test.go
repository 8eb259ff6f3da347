package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"storefront-order-service/internal/client"
	"storefront-order-service/internal/model"
	"storefront-order-service/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const validSignature = "t=1,v1=valid"

// MockStripeClient implements client.StripeClient for testing
type MockStripeClient struct {
	mu sync.Mutex

	Event      model.PaymentEvent
	EventErr   error
	Session    *model.CheckoutSession
	SessionErr error

	SessionCalls int
	LastRequest  *model.CheckoutSessionRequest
}

func (m *MockStripeClient) CreateCheckoutSession(_ context.Context, req *model.CheckoutSessionRequest) (*model.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SessionCalls++
	m.LastRequest = req
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	return m.Session, nil
}

func (m *MockStripeClient) ConstructEvent(_ []byte, signature string) (model.PaymentEvent, error) {
	if signature != validSignature {
		return nil, fmt.Errorf("%w: no valid signature found", client.ErrInvalidSignature)
	}
	if m.EventErr != nil {
		return nil, m.EventErr
	}
	return m.Event, nil
}

// MockOrderRepository implements repository.OrderRepository for testing
type MockOrderRepository struct {
	mu sync.Mutex

	CreateErr   error
	Created     []*model.Order
	MarkPaidErr error
	MarkPaidIDs []string
	Settled     []*model.Order
	SettledErr  error
	LastFilter  repository.SettledFilter
}

func (m *MockOrderRepository) Create(_ context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, order)
	return nil
}

func (m *MockOrderRepository) MarkPaid(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.MarkPaidIDs = append(m.MarkPaidIDs, orderID)
	if m.MarkPaidErr != nil {
		return false, m.MarkPaidErr
	}
	return true, nil
}

func (m *MockOrderRepository) FindSettled(_ context.Context, filter repository.SettledFilter) ([]*model.Order, error) {
	m.LastFilter = filter
	return m.Settled, m.SettledErr
}

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	ClearErr     error
	ClearedUsers []string
}

func (m *MockUserRepository) ClearCart(_ context.Context, userID string) error {
	m.ClearedUsers = append(m.ClearedUsers, userID)
	return m.ClearErr
}

// MockWebhookEventRepository implements repository.WebhookEventRepository for testing
type MockWebhookEventRepository struct {
	Processed map[string]string
}

func (m *MockWebhookEventRepository) Exists(_ context.Context, eventID string) (bool, error) {
	_, ok := m.Processed[eventID]
	return ok, nil
}

func (m *MockWebhookEventRepository) MarkProcessed(_ context.Context, eventID, eventType string) error {
	if m.Processed == nil {
		m.Processed = map[string]string{}
	}
	m.Processed[eventID] = eventType
	return nil
}

// MockProductResolver implements pricing.ProductResolver for testing
type MockProductResolver struct {
	Products map[string]*model.Product
	Calls    int
}

func (m *MockProductResolver) FindByID(_ context.Context, productID string) (*model.Product, error) {
	m.Calls++
	p, ok := m.Products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// one connection serialises writers; shared-cache SQLite rejects concurrent ones
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.AutoMigrate(db))

	t.Cleanup(func() { sqlDB.Close() })

	return db
}

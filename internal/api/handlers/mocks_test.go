package handlers_test

import (
	"context"
	"sync"

	"github.com/servicios-app/backend/internal/application/services"
	"github.com/servicios-app/backend/internal/domain/entities"
	"github.com/servicios-app/backend/internal/domain/providers"
	"github.com/servicios-app/backend/internal/domain/repositories"
	"github.com/stretchr/testify/mock"
)

type MockProfessionalService struct {
	mock.Mock
}

func (m *MockProfessionalService) Categories() []entities.Category {
	args := m.Called()
	return args.Get(0).([]entities.Category)
}

func (m *MockProfessionalService) List(ctx context.Context, category string) ([]*entities.Professional, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Professional), args.Error(1)
}

func (m *MockProfessionalService) Get(ctx context.Context, id int64) (*entities.Professional, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Professional), args.Error(1)
}

func (m *MockProfessionalService) Create(ctx context.Context, in services.ProfessionalInput) (*entities.Professional, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Professional), args.Error(1)
}

func (m *MockProfessionalService) Update(ctx context.Context, id int64, in services.ProfessionalInput) (*entities.Professional, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Professional), args.Error(1)
}

func (m *MockProfessionalService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProfessionalService) Reviews(ctx context.Context, id int64) ([]*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func (m *MockProfessionalService) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Professional, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Professional), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, professionalID *int64) ([]*entities.Review, error) {
	args := m.Called(ctx, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, id int64) (*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, in services.ReviewInput) (*entities.Review, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, id int64, in services.ReviewInput) (*entities.Review, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockServiceRequestService struct {
	mock.Mock
}

func (m *MockServiceRequestService) List(ctx context.Context, professionalID *int64) ([]*entities.ServiceRequest, error) {
	args := m.Called(ctx, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ServiceRequest), args.Error(1)
}

func (m *MockServiceRequestService) Get(ctx context.Context, id int64) (*entities.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ServiceRequest), args.Error(1)
}

func (m *MockServiceRequestService) Create(ctx context.Context, in services.ServiceRequestInput) (*entities.ServiceRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ServiceRequest), args.Error(1)
}

func (m *MockServiceRequestService) Update(ctx context.Context, id int64, in services.ServiceRequestInput) (*entities.ServiceRequest, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ServiceRequest), args.Error(1)
}

func (m *MockServiceRequestService) UpdateStatus(ctx context.Context, id int64, status *string) (*entities.ServiceRequest, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ServiceRequest), args.Error(1)
}

func (m *MockServiceRequestService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// counterCache implements just enough of the cache provider for the login limiter
type counterCache struct {
	mu       sync.Mutex
	counters map[string]int64
	failWith error
}

func newCounterCache() *counterCache {
	return &counterCache{counters: map[string]int64{}}
}

func (c *counterCache) Get(context.Context, string) ([]byte, error) { return nil, providers.ErrCacheMiss }

func (c *counterCache) Set(context.Context, string, []byte, int) error { return nil }

func (c *counterCache) Delete(context.Context, ...string) error { return nil }

func (c *counterCache) Exists(context.Context, string) (bool, error) { return false, nil }

func (c *counterCache) Increment(_ context.Context, key string, _ int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return 0, c.failWith
	}
	c.counters[key]++
	return c.counters[key], nil
}

func strPtr(s string) *string { return &s }

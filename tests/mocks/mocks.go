// Package mocks provides testify mocks for the domain repository and
// provider interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/providers"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
)

// MockBusinessRepository mocks repositories.BusinessRepository
type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Business, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetByOwnerID(ctx context.Context, ownerID string) (*entities.Business, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) ListNewest(ctx context.Context, limit, offset int) ([]*entities.Business, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Business), args.Int(1), args.Error(2)
}

func (m *MockBusinessRepository) Search(ctx context.Context, query repositories.SearchQuery) ([]*entities.Business, int, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Business), args.Int(1), args.Error(2)
}

// MockBusinessSearchRepository mocks repositories.BusinessSearchRepository
type MockBusinessSearchRepository struct {
	mock.Mock
}

func (m *MockBusinessSearchRepository) Search(ctx context.Context, query repositories.SearchQuery) ([]*entities.Business, int, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Business), args.Int(1), args.Error(2)
}

func (m *MockBusinessSearchRepository) Index(ctx context.Context, business *entities.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBusinessSearchRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository mocks repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// MockFavoriteRepository mocks repositories.FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) BusinessIDsByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockViewHistoryRepository mocks repositories.ViewHistoryRepository
type MockViewHistoryRepository struct {
	mock.Mock
}

func (m *MockViewHistoryRepository) Record(ctx context.Context, event *entities.ViewEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockViewHistoryRepository) RecentTargets(ctx context.Context, userID string, limit int) ([]*entities.ViewAggregate, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ViewAggregate), args.Error(1)
}

// MockTaxonomyRepository mocks repositories.TaxonomyRepository
type MockTaxonomyRepository struct {
	mock.Mock
}

func (m *MockTaxonomyRepository) ResolveCategory(ctx context.Context, text string) ([]string, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTaxonomyRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Industry, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Industry), args.Error(1)
}

// MockContentBlockRepository mocks repositories.ContentBlockRepository
type MockContentBlockRepository struct {
	mock.Mock
}

func (m *MockContentBlockRepository) CountVisible(ctx context.Context, owner entities.BlockOwner) (int, error) {
	args := m.Called(ctx, owner)
	return args.Int(0), args.Error(1)
}

func (m *MockContentBlockRepository) CountVisibleBatch(ctx context.Context, owners []entities.BlockOwner) (map[entities.BlockOwner]int, error) {
	args := m.Called(ctx, owners)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.BlockOwner]int), args.Error(1)
}

// MockEventBus mocks providers.EventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.BusinessEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.BusinessEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.BusinessEvent), args.Error(1)
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Interface conformance checks
var (
	_ repositories.BusinessRepository       = (*MockBusinessRepository)(nil)
	_ repositories.BusinessSearchRepository = (*MockBusinessSearchRepository)(nil)
	_ repositories.UserRepository           = (*MockUserRepository)(nil)
	_ repositories.FavoriteRepository       = (*MockFavoriteRepository)(nil)
	_ repositories.ViewHistoryRepository    = (*MockViewHistoryRepository)(nil)
	_ repositories.TaxonomyRepository       = (*MockTaxonomyRepository)(nil)
	_ repositories.ContentBlockRepository   = (*MockContentBlockRepository)(nil)
	_ providers.EventBus                    = (*MockEventBus)(nil)
)

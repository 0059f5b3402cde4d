package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"rpos/internal/domain/model"
	"rpos/internal/realtime"
	repo "rpos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	owners      repo.OwnerRepository
	restaurants repo.RestaurantRepository
	tables      repo.TableRepository
	catalog     repo.CatalogRepository
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
}

func (r *TxReposMock) Owners() repo.OwnerRepository           { return r.owners }
func (r *TxReposMock) Restaurants() repo.RestaurantRepository { return r.restaurants }
func (r *TxReposMock) Tables() repo.TableRepository           { return r.tables }
func (r *TxReposMock) Catalog() repo.CatalogRepository        { return r.catalog }
func (r *TxReposMock) Orders() repo.OrderRepository           { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository   { return r.orderItems }

// =====================
// Repository mocks
// =====================

type OwnerRepoMock struct{ mock.Mock }

func (m *OwnerRepoMock) Create(ctx context.Context, owner model.Owner) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OwnerRepoMock) FindByID(ctx context.Context, ownerID int64) (model.Owner, error) {
	args := m.Called(ctx, ownerID)
	o, _ := args.Get(0).(model.Owner)
	return o, args.Error(1)
}

func (m *OwnerRepoMock) FindByEmail(ctx context.Context, email string) (model.Owner, error) {
	args := m.Called(ctx, email)
	o, _ := args.Get(0).(model.Owner)
	return o, args.Error(1)
}

type RestaurantRepoMock struct{ mock.Mock }

func (m *RestaurantRepoMock) Create(ctx context.Context, r model.Restaurant) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RestaurantRepoMock) Update(ctx context.Context, r model.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RestaurantRepoMock) FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	args := m.Called(ctx, restaurantID)
	r, _ := args.Get(0).(model.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepoMock) FindByOwnerID(ctx context.Context, ownerID int64) (model.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	r, _ := args.Get(0).(model.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepoMock) FindBySlug(ctx context.Context, slug string) (model.Restaurant, error) {
	args := m.Called(ctx, slug)
	r, _ := args.Get(0).(model.Restaurant)
	return r, args.Error(1)
}

type TableRepoMock struct{ mock.Mock }

func (m *TableRepoMock) Create(ctx context.Context, t model.Table) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TableRepoMock) Delete(ctx context.Context, tableID int64, restaurantID int64) error {
	args := m.Called(ctx, tableID, restaurantID)
	return args.Error(0)
}

func (m *TableRepoMock) ListByRestaurantID(ctx context.Context, restaurantID int64) ([]model.Table, error) {
	args := m.Called(ctx, restaurantID)
	ts, _ := args.Get(0).([]model.Table)
	return ts, args.Error(1)
}

func (m *TableRepoMock) FindByID(ctx context.Context, tableID int64) (model.Table, error) {
	args := m.Called(ctx, tableID)
	t, _ := args.Get(0).(model.Table)
	return t, args.Error(1)
}

func (m *TableRepoMock) FindByIDForUpdate(ctx context.Context, tableID int64) (model.Table, error) {
	args := m.Called(ctx, tableID)
	t, _ := args.Get(0).(model.Table)
	return t, args.Error(1)
}

func (m *TableRepoMock) FindByToken(ctx context.Context, token string) (model.Table, error) {
	args := m.Called(ctx, token)
	t, _ := args.Get(0).(model.Table)
	return t, args.Error(1)
}

func (m *TableRepoMock) RotateToken(ctx context.Context, tableID int64, newToken string) error {
	args := m.Called(ctx, tableID, newToken)
	return args.Error(0)
}

type CatalogRepoMock struct{ mock.Mock }

func (m *CatalogRepoMock) CreateCategory(ctx context.Context, c model.Category) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepoMock) ListCategories(ctx context.Context, restaurantID int64) ([]model.Category, error) {
	args := m.Called(ctx, restaurantID)
	cs, _ := args.Get(0).([]model.Category)
	return cs, args.Error(1)
}

func (m *CatalogRepoMock) DeleteCategory(ctx context.Context, categoryID int64, restaurantID int64) error {
	args := m.Called(ctx, categoryID, restaurantID)
	return args.Error(0)
}

func (m *CatalogRepoMock) CreateMenuItem(ctx context.Context, mi model.MenuItem) (int64, error) {
	args := m.Called(ctx, mi)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepoMock) UpdateMenuItem(ctx context.Context, mi model.MenuItem) error {
	args := m.Called(ctx, mi)
	return args.Error(0)
}

func (m *CatalogRepoMock) DeleteMenuItem(ctx context.Context, menuItemID int64, restaurantID int64) error {
	args := m.Called(ctx, menuItemID, restaurantID)
	return args.Error(0)
}

func (m *CatalogRepoMock) FindMenuItem(ctx context.Context, menuItemID int64) (model.MenuItem, error) {
	args := m.Called(ctx, menuItemID)
	mi, _ := args.Get(0).(model.MenuItem)
	return mi, args.Error(1)
}

func (m *CatalogRepoMock) ListMenuItems(ctx context.Context, restaurantID int64, onlyAvailable bool) ([]model.MenuItem, error) {
	args := m.Called(ctx, restaurantID, onlyAvailable)
	mis, _ := args.Get(0).([]model.MenuItem)
	return mis, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	args := m.Called(ctx, orderID, total)
	return args.Error(0)
}

func (m *OrderRepoMock) ListActiveByTableID(ctx context.Context, tableID int64) ([]model.Order, error) {
	args := m.Called(ctx, tableID)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderRepoMock) ListByRestaurantAndStatuses(ctx context.Context, restaurantID int64, statuses []model.OrderStatus) ([]model.Order, error) {
	args := m.Called(ctx, restaurantID, statuses)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderRepoMock) SettleActiveByTableID(ctx context.Context, tableID int64, paymentMethod string, now time.Time) (int64, error) {
	args := m.Called(ctx, tableID, paymentMethod, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) SummarizeActiveByTableID(ctx context.Context, tableID int64) (repo.TableActiveSummary, error) {
	args := m.Called(ctx, tableID)
	s, _ := args.Get(0).(repo.TableActiveSummary)
	return s, args.Error(1)
}

func (m *OrderRepoMock) DailySales(ctx context.Context, restaurantID int64, since time.Time) ([]repo.DailySalesRow, error) {
	args := m.Called(ctx, restaurantID, since)
	rows, _ := args.Get(0).([]repo.DailySalesRow)
	return rows, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) FindByID(ctx context.Context, itemID int64) (model.OrderItem, error) {
	args := m.Called(ctx, itemID)
	item, _ := args.Get(0).(model.OrderItem)
	return item, args.Error(1)
}

func (m *OrderItemRepoMock) Delete(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

// =====================
// Realtime / token / logger stubs
// =====================

// PublisherRecorder は配信されたイベントを記録するだけの Publisher。
// fanout は goroutine で走るので、読む側は Eventually 経由で待つこと。
type PublisherRecorder struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	RestaurantID int64
	Event        realtime.Event
}

func (p *PublisherRecorder) Publish(ctx context.Context, restaurantID int64, ev realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{RestaurantID: restaurantID, Event: ev})
	return nil
}

func (p *PublisherRecorder) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// TokenGenStub は決め打ちのトークンを順に払い出す
type TokenGenStub struct {
	mu     sync.Mutex
	tokens []string
	calls  int
}

func (g *TokenGenStub) NewToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls < len(g.tokens) {
		t := g.tokens[g.calls]
		g.calls++
		return t
	}
	g.calls++
	return "fallback-token"
}

func (g *TokenGenStub) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

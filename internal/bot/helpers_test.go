package bot_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kdsmedia/altoshopbot/internal/bot"
	"github.com/kdsmedia/altoshopbot/internal/catalog"
	"github.com/kdsmedia/altoshopbot/internal/chat"
	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/kdsmedia/altoshopbot/internal/session"
	"github.com/stretchr/testify/require"
)

const (
	adminID = "628000000001@c.us"
	buyerID = "628000000002@c.us"
)

// memStore is an in-memory model.Store with the same atomicity guarantees the
// Mongo implementation provides, enforced with one mutex.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	products []model.Product
	orders   []model.Order
	vouchers map[string]*model.Voucher
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		vouchers: make(map[string]*model.Voucher),
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Cart = append([]model.CartItem(nil), u.Cart...)
	c.ClaimedVouchers = append([]string(nil), u.ClaimedVouchers...)
	return &c
}

func (s *memStore) GetOrCreateUser(_ context.Context, userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID]; ok {
		return copyUser(u), nil
	}

	role := model.RoleUser
	if userID == adminID {
		role = model.RoleAdmin
	}
	u := &model.User{
		ID:              userID,
		Role:            role,
		ClaimedVouchers: []string{},
		ReferralCode:    "ALTOTEST01",
		CreatedAt:       time.Now(),
	}
	s.users[userID] = u
	return copyUser(u), nil
}

func (s *memStore) UpdateCart(_ context.Context, userID string, cart []model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.Cart = append([]model.CartItem(nil), cart...)
	return nil
}

func (s *memStore) ClearCart(ctx context.Context, userID string) error {
	return s.UpdateCart(ctx, userID, nil)
}

func (s *memStore) ListProducts(_ context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Product(nil), s.products...), nil
}

func (s *memStore) CreateProduct(_ context.Context, p model.Product) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	p.ID = fmt.Sprintf("prod-%d", s.seq)
	s.products = append(s.products, p)
	return p.ID, nil
}

func (s *memStore) CreateOrder(_ context.Context, order model.Order) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[order.UserID]
	if !ok {
		return "", model.ErrUserNotFound
	}

	s.seq++
	order.ID = fmt.Sprintf("order-%d", s.seq)
	s.orders = append(s.orders, order)
	u.Cart = nil
	return order.ID, nil
}

func (s *memStore) ListRecentOrders(_ context.Context, n int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Order
	for i := len(s.orders) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.orders[i])
	}
	return out, nil
}

func (s *memStore) ListUserIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memStore) ClaimDailyBonus(_ context.Context, userID string, amount int64, dayStart, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	if u.LastBonusClaim != nil && !u.LastBonusClaim.Before(dayStart) {
		return model.ErrBonusClaimed
	}
	u.Balance += amount
	u.LastBonusClaim = &now
	return nil
}

func (s *memStore) RedeemVoucher(_ context.Context, userID, code string) (*model.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vouchers[code]
	if !ok {
		return nil, model.ErrVoucherNotFound
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	for _, claimed := range u.ClaimedVouchers {
		if claimed == code {
			return nil, model.ErrVoucherClaimed
		}
	}
	if v.Quantity <= 0 {
		return nil, model.ErrVoucherExhausted
	}

	u.Balance += v.Amount
	u.ClaimedVouchers = append(u.ClaimedVouchers, code)
	v.Quantity--
	c := *v
	return &c, nil
}

func (s *memStore) user(t *testing.T, id string) *model.User {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	require.True(t, ok, "user %s not found", id)
	return copyUser(u)
}

var _ model.Store = (*memStore)(nil)

// captureTransport records every outbound action.
type captureTransport struct {
	mu      sync.Mutex
	texts   []string
	buttons []chat.Buttons
	lists   []chat.List
	media   []chat.Media
}

func (c *captureTransport) SendText(_ context.Context, _ string, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, text)
	return nil
}

func (c *captureTransport) SendButtons(_ context.Context, _ string, b chat.Buttons) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buttons = append(c.buttons, b)
	return nil
}

func (c *captureTransport) SendList(_ context.Context, _ string, l chat.List) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = append(c.lists, l)
	return nil
}

func (c *captureTransport) SendMedia(_ context.Context, _ string, m chat.Media) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.media = append(c.media, m)
	return nil
}

func (c *captureTransport) lastText(t *testing.T) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.texts, "no text was sent")
	return c.texts[len(c.texts)-1]
}

func (c *captureTransport) lastButtons(t *testing.T) chat.Buttons {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.buttons, "no buttons were sent")
	return c.buttons[len(c.buttons)-1]
}

func (c *captureTransport) lastList(t *testing.T) chat.List {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.lists, "no list was sent")
	return c.lists[len(c.lists)-1]
}

func (c *captureTransport) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts, c.buttons, c.lists, c.media = nil, nil, nil, nil
}

func (c *captureTransport) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.texts) + len(c.buttons) + len(c.lists) + len(c.media)
}

var _ chat.Transport = (*captureTransport)(nil)

// fakeResponder echoes queries, optionally failing.
type fakeResponder struct {
	mu      sync.Mutex
	fail    bool
	queries []string
	resets  int
}

func (f *fakeResponder) Reply(_ context.Context, _ string, query string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("model unavailable")
	}
	f.queries = append(f.queries, query)
	return "echo: " + query, nil
}

func (f *fakeResponder) Reset(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

type fixture struct {
	store     *memStore
	cache     *catalog.Cache
	sessions  *session.Store
	transport *captureTransport
	responder *fakeResponder
	engine    *bot.Engine
}

func newFixture(t *testing.T, products ...model.Product) *fixture {
	t.Helper()

	store := newMemStore()
	store.products = products
	for i := range store.products {
		store.seq++
		if store.products[i].ID == "" {
			store.products[i].ID = fmt.Sprintf("prod-%d", store.seq)
		}
	}

	cache := catalog.NewCache(store)
	require.NoError(t, cache.Reload(context.Background()))

	sessions := session.NewStore(0)
	transport := &captureTransport{}
	responder := &fakeResponder{}

	engine := bot.NewEngine(store, cache, sessions, transport, responder, bot.Config{
		ShippingFee:  20000,
		RecentOrders: 5,
	})

	return &fixture{
		store:     store,
		cache:     cache,
		sessions:  sessions,
		transport: transport,
		responder: responder,
		engine:    engine,
	}
}

func (f *fixture) text(senderID, body string) {
	f.engine.Handle(context.Background(), chat.Message{
		SenderID: senderID,
		Body:     body,
		Type:     chat.TypeText,
	})
}

func (f *fixture) button(senderID, id string) {
	f.engine.Handle(context.Background(), chat.Message{
		SenderID: senderID,
		ButtonID: id,
		Type:     chat.TypeButtons,
	})
}

func (f *fixture) row(senderID, id string) {
	f.engine.Handle(context.Background(), chat.Message{
		SenderID:  senderID,
		ListRowID: id,
		Type:      chat.TypeList,
	})
}

func cartOf(productID string, quantity int) []model.CartItem {
	return []model.CartItem{{ProductID: productID, Quantity: quantity}}
}

func shirt() model.Product {
	return model.Product{
		ID:       "shirt-1",
		Name:     "Kemeja Flanel",
		Category: model.CategoryFashion,
		Price:    150000,
		Stock:    10,
		Images:   []string{"https://img.example/shirt.jpg"},
		Options: &model.Options{
			Colors:  []string{"Merah", "Biru"},
			Sizes:   []string{"M", "L"},
			Sleeves: []string{"Pendek", "Panjang"},
		},
	}
}

func speaker() model.Product {
	return model.Product{
		ID:            "speaker-1",
		Name:          "Speaker Bluetooth",
		Category:      "Elektronik",
		Price:         100000,
		DiscountPrice: 80000,
		Stock:         5,
		Images:        []string{"https://img.example/speaker.jpg"},
		Description:   "Speaker portabel",
	}
}

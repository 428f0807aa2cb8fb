// Package bot is the conversation core: the command router, the multi-step
// flow engine, and the per-user dispatch discipline around them.
package bot

import (
	"context"
	"time"

	"github.com/kdsmedia/altoshopbot/internal/ai"
	"github.com/kdsmedia/altoshopbot/internal/catalog"
	"github.com/kdsmedia/altoshopbot/internal/chat"
	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/kdsmedia/altoshopbot/internal/present"
	"github.com/kdsmedia/altoshopbot/internal/session"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
)

// wib is the fixed shop timezone; calendar-day comparisons (daily bonus) are
// always evaluated in it so the claim boundary does not drift per caller.
var wib = time.FixedZone("WIB", 7*60*60)

const (
	cancelKeyword = "batal"
	finishCommand = "/selesai"

	defaultShippingFee  = 20000
	defaultRecentOrders = 5

	msgCancelled   = "Aksi dibatalkan."
	msgApology     = "Maaf, terjadi kesalahan. Silakan coba lagi."
	msgAIApology   = "Maaf, terjadi kesalahan saat memproses permintaan Anda ke AI."
	msgNumbersOnly = "Input tidak valid, masukkan *angka* saja."
)

// Config carries the engine's tunables.
type Config struct {
	ShippingFee  int64 `envconfig:"SHIPPING_FEE" default:"20000"`
	RecentOrders int   `envconfig:"RECENT_ORDERS" default:"5"`
}

// Engine executes conversation transitions. All entry points run under the
// per-user lock taken in Handle, so state reads and writes for one user never
// interleave.
type Engine struct {
	store     model.Store
	catalog   *catalog.Cache
	sessions  *session.Store
	locks     *session.UserLocks
	transport chat.Transport
	responder ai.Responder // nil disables the AI chat menu entry

	shippingFee  int64
	recentOrders int
}

func NewEngine(store model.Store, cache *catalog.Cache, sessions *session.Store, transport chat.Transport, responder ai.Responder, cfg Config) *Engine {
	if cfg.ShippingFee <= 0 {
		cfg.ShippingFee = defaultShippingFee
	}
	if cfg.RecentOrders <= 0 {
		cfg.RecentOrders = defaultRecentOrders
	}
	return &Engine{
		store:        store,
		catalog:      cache,
		sessions:     sessions,
		locks:        session.NewUserLocks(),
		transport:    transport,
		responder:    responder,
		shippingFee:  cfg.ShippingFee,
		recentOrders: cfg.RecentOrders,
	}
}

func (e *Engine) aiEnabled() bool {
	return e.responder != nil
}

// text sends a plain text reply, logging delivery failures.
func (e *Engine) text(ctx context.Context, to, body string) {
	if err := e.transport.SendText(ctx, to, body); err != nil {
		logx.Error().Err(err).Str("to", to).Msg("failed to send text")
	}
}

func (e *Engine) buttons(ctx context.Context, to string, b chat.Buttons) {
	if err := e.transport.SendButtons(ctx, to, b); err != nil {
		logx.Error().Err(err).Str("to", to).Msg("failed to send buttons")
	}
}

func (e *Engine) list(ctx context.Context, to string, l chat.List) {
	if err := e.transport.SendList(ctx, to, l); err != nil {
		logx.Error().Err(err).Str("to", to).Msg("failed to send list")
	}
}

func (e *Engine) media(ctx context.Context, to string, m chat.Media) {
	if err := e.transport.SendMedia(ctx, to, m); err != nil {
		logx.Error().Err(err).Str("to", to).Msg("failed to send media")
	}
}

// sendMainMenu shows the banner and the top-level menu, clearing any state.
func (e *Engine) sendMainMenu(ctx context.Context, u *model.User) {
	e.media(ctx, u.ID, present.Banner())
	e.list(ctx, u.ID, present.MainMenu(u, e.aiEnabled()))
	e.sessions.Clear(u.ID)
}

// cartSubtotal prices the cart against the current catalog snapshot. Lines
// whose product has gone stale are skipped; staleness is a display concern.
func (e *Engine) cartSubtotal(cart []model.CartItem) int64 {
	var subtotal int64
	for _, item := range cart {
		p, ok := e.catalog.Get(item.ProductID)
		if !ok {
			continue
		}
		subtotal += p.EffectivePrice() * int64(item.Quantity)
	}
	return subtotal
}

package model

import (
	"context"
	"time"
)

// Store is the persistent document store consumed by the bot core. Implementations
// must honour the atomicity notes on each method; everything else is plain
// request/response document access.
type Store interface {
	// GetOrCreateUser loads the user profile, creating a default one on first
	// contact: zero balance, empty cart, fresh referral code, admin role only
	// for the designated admin chat id.
	GetOrCreateUser(ctx context.Context, userID string) (*User, error)

	// UpdateCart replaces the user's cart wholesale.
	UpdateCart(ctx context.Context, userID string, cart []CartItem) error

	// ClearCart empties the user's cart.
	ClearCart(ctx context.Context, userID string) error

	// ListProducts returns every product document.
	ListProducts(ctx context.Context) ([]Product, error)

	// CreateProduct persists a new product and returns its assigned id.
	CreateProduct(ctx context.Context, p Product) (string, error)

	// CreateOrder persists the order and clears the user's cart in one
	// transaction; neither effect may land without the other.
	CreateOrder(ctx context.Context, order Order) (string, error)

	// ListRecentOrders returns at most n orders, newest first.
	ListRecentOrders(ctx context.Context, n int) ([]Order, error)

	// ListUserIDs returns every known chat id, for broadcast.
	ListUserIDs(ctx context.Context) ([]string, error)

	// ClaimDailyBonus credits amount to the user and stamps the claim time, but
	// only when the stored last-claim date falls before dayStart. The guard and
	// the credit are a single conditional update; a same-day retry returns
	// ErrBonusClaimed with no balance change, and an unknown user returns
	// ErrUserNotFound rather than masquerading as a repeat claim.
	ClaimDailyBonus(ctx context.Context, userID string, amount int64, dayStart, now time.Time) error

	// RedeemVoucher atomically credits the voucher amount to the user, appends
	// the code to the user's claimed set, and decrements the voucher quantity.
	// All three commit together or not at all. Returns ErrVoucherNotFound,
	// ErrVoucherExhausted, or ErrVoucherClaimed on the corresponding rejection;
	// quantity never goes negative and a user can never claim a code twice.
	RedeemVoucher(ctx context.Context, userID, code string) (*Voucher, error)
}

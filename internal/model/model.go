package model

import "time"

// Role separates regular shoppers from the store operator.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Categories is the fixed product category enumeration. CategoryFashion is the
// only category that carries variant options (colors, sizes, sleeves).
const CategoryFashion = "Fashion"

var Categories = []string{
	CategoryFashion,
	"Elektronik",
	"Peralatan",
	"Mainan",
	"Aksesoris",
	"Kecantikan",
	"Makanan",
}

// ValidCategory reports whether cat is one of the known categories.
func ValidCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// User is one chat participant. The ID is the opaque chat identifier, one per
// conversation. Balance is in whole rupiah.
type User struct {
	ID              string     `bson:"_id"`
	Role            Role       `bson:"role"`
	Balance         int64      `bson:"balance"`
	Cart            []CartItem `bson:"cart"`
	LastBonusClaim  *time.Time `bson:"last_bonus_claim,omitempty"`
	ClaimedVouchers []string   `bson:"claimed_vouchers"`
	ReferralCode    string     `bson:"referral_code"`
	CreatedAt       time.Time  `bson:"created_at"`
}

// IsAdmin reports whether the user may run the admin command namespace.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Options lists the selectable variant axes of a product, each in display order.
// A non-empty Colors list is what routes a product through the guided
// variant-selection flow.
type Options struct {
	Colors  []string `bson:"colors,omitempty"`
	Sizes   []string `bson:"sizes,omitempty"`
	Sleeves []string `bson:"sleeves,omitempty"`
}

// Product is a catalog entry. DiscountPrice of zero means no discount; when set
// it must be below Price.
type Product struct {
	ID            string   `bson:"_id,omitempty"`
	Name          string   `bson:"name"`
	Category      string   `bson:"category"`
	Price         int64    `bson:"price"`
	DiscountPrice int64    `bson:"discount_price,omitempty"`
	Stock         int      `bson:"stock"`
	Description   string   `bson:"description"`
	Images        []string `bson:"images"`
	Options       *Options `bson:"options,omitempty"`
}

// EffectivePrice is the price a buyer actually pays for one unit.
func (p *Product) EffectivePrice() int64 {
	if p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}

// HasColors reports whether the product enters the variant-selection flow.
func (p *Product) HasColors() bool {
	return p.Options != nil && len(p.Options.Colors) > 0
}

// SelectedOptions is the variant a buyer picked for one cart line.
type SelectedOptions struct {
	Color  string `bson:"color,omitempty"`
	Size   string `bson:"size,omitempty"`
	Sleeve string `bson:"sleeve,omitempty"`
}

// CartItem is one line in a user's cart. Two lines are the same when product id
// and selected options are structurally equal.
type CartItem struct {
	ProductID string           `bson:"product_id"`
	Quantity  int              `bson:"quantity"`
	Options   *SelectedOptions `bson:"options,omitempty"`
}

// SameLine reports whether other belongs to the same cart line as c.
func (c CartItem) SameLine(productID string, opts *SelectedOptions) bool {
	if c.ProductID != productID {
		return false
	}
	if c.Options == nil || opts == nil {
		return c.Options == nil && opts == nil
	}
	return *c.Options == *opts
}

// MergeCartItem adds one unit of (productID, opts) to cart, incrementing an
// existing matching line instead of appending a duplicate.
func MergeCartItem(cart []CartItem, productID string, opts *SelectedOptions) []CartItem {
	for i := range cart {
		if cart[i].SameLine(productID, opts) {
			cart[i].Quantity++
			return cart
		}
	}
	return append(cart, CartItem{ProductID: productID, Quantity: 1, Options: opts})
}

// ShippingInfo is the recipient detail collected during checkout.
type ShippingInfo struct {
	Name    string `bson:"name"`
	Address string `bson:"address"`
}

// OrderStatusPending is the only status this service ever assigns; fulfilment
// happens elsewhere.
const OrderStatusPending = "Pending"

// Order is an immutable snapshot taken at checkout confirmation.
type Order struct {
	ID          string       `bson:"_id,omitempty"`
	UserID      string       `bson:"user_id"`
	Items       []CartItem   `bson:"items"`
	Shipping    ShippingInfo `bson:"shipping"`
	Subtotal    int64        `bson:"subtotal"`
	ShippingFee int64        `bson:"shipping_fee"`
	Total       int64        `bson:"total"`
	Status      string       `bson:"status"`
	CreatedAt   time.Time    `bson:"created_at"`
}

// Voucher is a balance top-up code with a limited quantity. Codes are stored in
// canonical uppercase form.
type Voucher struct {
	Code     string `bson:"code"`
	Amount   int64  `bson:"amount"`
	Quantity int    `bson:"quantity"`
}

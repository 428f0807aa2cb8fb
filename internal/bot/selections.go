package bot

import (
	"context"
	"strings"
	"time"

	"github.com/kdsmedia/altoshopbot/internal/chat"
	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/kdsmedia/altoshopbot/internal/present"
	"github.com/kdsmedia/altoshopbot/internal/session"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
)

// handleButton reacts to a tapped button. Ids that only make sense inside a
// flow are ignored when no matching flow is active.
func (e *Engine) handleButton(ctx context.Context, u *model.User, st session.State, id string) {
	switch {
	case id == present.BtnCartAddFinal:
		e.addVariantToCart(ctx, u, st)

	case strings.HasPrefix(id, present.PrefixCartAdd):
		productID, _ := present.CutPrefix(id, present.PrefixCartAdd)
		e.addToCart(ctx, u, productID, nil)

	case strings.HasPrefix(id, present.PrefixDetail):
		productID, _ := present.CutPrefix(id, present.PrefixDetail)
		e.sendProductDetail(ctx, u, productID)

	case id == present.BtnBackToMenu:
		e.sendMainMenu(ctx, u)

	case id == present.BtnCartClear:
		if err := e.store.ClearCart(ctx, u.ID); err != nil {
			logx.Error().Err(err).Str("userID", u.ID).Msg("failed to clear cart")
			e.text(ctx, u.ID, msgApology)
			return
		}
		e.text(ctx, u.ID, "🗑️ Keranjang belanja Anda telah dikosongkan.")

	case id == present.BtnCheckoutStart:
		e.startCheckout(ctx, u)

	case id == present.BtnCheckoutNo || id == present.BtnProductCancel:
		e.sessions.Clear(u.ID)
		e.text(ctx, u.ID, msgCancelled)

	case id == present.BtnCheckoutOK:
		e.confirmCheckout(ctx, u, st)

	case id == present.BtnDiscountYes:
		if st.Product == nil || st.Step != session.StepAddDiscountPrompt {
			return
		}
		st.Step = session.StepAddDiscountPrice
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Baik. Masukkan *harga diskon* (hanya angka):")

	case id == present.BtnDiscountNo:
		if st.Product == nil || st.Step != session.StepAddDiscountPrompt {
			return
		}
		st.Step = session.StepAddStock
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "OK. Sekarang masukkan *jumlah stok*:")

	case id == present.BtnProductSave:
		e.saveProductDraft(ctx, u, st)

	default:
		logx.Debug().Str("buttonID", id).Str("userID", u.ID).Msg("ignoring unknown button")
	}
}

// handleListRow reacts to a picked list row.
func (e *Engine) handleListRow(ctx context.Context, u *model.User, st session.State, id string) {
	switch {
	case strings.HasPrefix(id, present.PrefixSelectColor):
		value, _ := present.CutPrefix(id, present.PrefixSelectColor)
		e.pickVariant(ctx, u, st, session.StepSelectColor, value)

	case strings.HasPrefix(id, present.PrefixSelectSize):
		value, _ := present.CutPrefix(id, present.PrefixSelectSize)
		e.pickVariant(ctx, u, st, session.StepSelectSize, value)

	case strings.HasPrefix(id, present.PrefixSelectSleeve):
		value, _ := present.CutPrefix(id, present.PrefixSelectSleeve)
		e.pickVariant(ctx, u, st, session.StepSelectSleeve, value)

	case strings.HasPrefix(id, present.PrefixAdminCat):
		category, _ := present.CutPrefix(id, present.PrefixAdminCat)
		e.startProductDraft(ctx, u, category)

	case strings.HasPrefix(id, present.PrefixCategory):
		category, _ := present.CutPrefix(id, present.PrefixCategory)
		e.sendProductList(ctx, u, category)

	case id == present.MenuCatalog:
		e.list(ctx, u.ID, present.CategoryList())

	case id == present.MenuCart:
		e.sendCartView(ctx, u)

	case id == present.MenuBonus:
		e.text(ctx, u.ID, present.BonusPage(u))

	case id == present.MenuProfile:
		e.text(ctx, u.ID, present.ProfileText(u))

	case id == present.MenuAIChat:
		if !e.aiEnabled() {
			e.text(ctx, u.ID, "Maaf, fitur AI sedang tidak tersedia.")
			return
		}
		e.sessions.Set(u.ID, session.State{Step: session.StepAIChat})
		e.text(ctx, u.ID, "Anda sekarang terhubung dengan Asisten AI. Silakan ajukan pertanyaan Anda.\n\nKetik */selesai* untuk kembali ke menu utama.")

	case id == present.MenuAdmin:
		if !u.IsAdmin() {
			return
		}
		e.text(ctx, u.ID, present.AdminPanelText())

	default:
		logx.Debug().Str("rowID", id).Str("userID", u.ID).Msg("ignoring unknown list row")
	}
}

// sendProductList shows in-stock products for one category (or all).
func (e *Engine) sendProductList(ctx context.Context, u *model.User, category string) {
	filter := category
	if category == present.CategoryAll {
		filter = ""
	}

	var inStock []model.Product
	for _, p := range e.catalog.ByCategory(filter) {
		if p.Stock > 0 {
			inStock = append(inStock, p)
		}
	}
	if len(inStock) == 0 {
		e.text(ctx, u.ID, "Maaf, tidak ada produk di kategori ini.")
		return
	}

	e.text(ctx, u.ID, "Menampilkan produk untuk kategori: *"+category+"*")
	for i := range inStock {
		media, card := present.ProductCard(&inStock[i])
		if media.URL != "" {
			e.media(ctx, u.ID, media)
		}
		e.buttons(ctx, u.ID, card)
	}
}

// sendProductDetail shows one product and, for variant-bearing products,
// opens the variant-selection flow.
func (e *Engine) sendProductDetail(ctx context.Context, u *model.User, productID string) {
	p, ok := e.catalog.Get(productID)
	if !ok {
		e.text(ctx, u.ID, "Produk tidak ditemukan.")
		return
	}

	for _, img := range p.Images {
		e.media(ctx, u.ID, chat.Media{URL: img})
	}

	if p.HasColors() {
		e.text(ctx, u.ID, present.ProductDetailText(&p))
		e.sessions.Set(u.ID, session.State{
			Step:    session.StepSelectColor,
			Variant: &session.VariantDraft{ProductID: p.ID},
		})
		e.list(ctx, u.ID, present.ColorList(&p))
		return
	}

	e.buttons(ctx, u.ID, present.ProductDetailButtons(&p))
}

// sendCartView renders the cart, or a short notice when it is empty.
func (e *Engine) sendCartView(ctx context.Context, u *model.User) {
	if len(u.Cart) == 0 {
		e.text(ctx, u.ID, "Keranjang belanja Anda kosong.")
		return
	}
	e.buttons(ctx, u.ID, present.CartView(u.Cart, e.catalog.Get))
}

// addToCart merges one unit of the product into the persisted cart.
func (e *Engine) addToCart(ctx context.Context, u *model.User, productID string, opts *model.SelectedOptions) {
	p, ok := e.catalog.Get(productID)
	if !ok {
		e.text(ctx, u.ID, "Produk tidak ditemukan.")
		return
	}

	cart := model.MergeCartItem(u.Cart, productID, opts)
	if err := e.store.UpdateCart(ctx, u.ID, cart); err != nil {
		logx.Error().Err(err).Str("userID", u.ID).Msg("failed to update cart")
		e.text(ctx, u.ID, msgApology)
		return
	}
	u.Cart = cart

	if opts != nil {
		e.text(ctx, u.ID, "✅ *"+p.Name+"* (Varian: "+present.VariantText(opts)+") berhasil ditambahkan ke keranjang!")
	} else {
		e.text(ctx, u.ID, "✅ *"+p.Name+"* ditambahkan ke keranjang!")
	}
}

// startCheckout opens the checkout flow; the non-empty cart precondition is
// enforced here, at the point that triggers checkout.
func (e *Engine) startCheckout(ctx context.Context, u *model.User) {
	if len(u.Cart) == 0 {
		e.text(ctx, u.ID, "Keranjang belanja Anda kosong.")
		return
	}
	e.sessions.Set(u.ID, session.State{
		Step:     session.StepCheckoutName,
		Checkout: &session.CheckoutDraft{ShippingFee: e.shippingFee},
	})
	e.text(ctx, u.ID, "Baik, kita mulai proses checkout.\n\nMohon ketik *nama penerima*:")
}

// confirmCheckout snapshots the cart into an order and clears both the cart
// and the conversation state. A confirm tap outside the flow is a no-op.
func (e *Engine) confirmCheckout(ctx context.Context, u *model.User, st session.State) {
	if st.Checkout == nil || st.Step != session.StepCheckoutConfirm {
		return
	}

	fresh, err := e.store.GetOrCreateUser(ctx, u.ID)
	if err != nil {
		logx.Error().Err(err).Str("userID", u.ID).Msg("failed to reload user for order")
		e.text(ctx, u.ID, msgApology)
		return
	}
	if len(fresh.Cart) == 0 {
		e.sessions.Clear(u.ID)
		e.text(ctx, u.ID, "Keranjang belanja Anda kosong.")
		return
	}

	order := model.Order{
		UserID: u.ID,
		Items:  fresh.Cart,
		Shipping: model.ShippingInfo{
			Name:    st.Checkout.Name,
			Address: st.Checkout.Address,
		},
		Subtotal:    st.Checkout.Subtotal,
		ShippingFee: st.Checkout.ShippingFee,
		Total:       st.Checkout.Total,
		Status:      model.OrderStatusPending,
		CreatedAt:   time.Now(),
	}
	if _, err := e.store.CreateOrder(ctx, order); err != nil {
		logx.Error().Err(err).Str("userID", u.ID).Msg("failed to create order")
		e.text(ctx, u.ID, msgApology)
		return
	}

	e.sessions.Clear(u.ID)
	e.text(ctx, u.ID, "🎉 Pesanan Anda berhasil dibuat! Terima kasih.")
}

// startProductDraft begins the admin add-product flow with the category
// already chosen; the Fashion category detours through the option steps.
func (e *Engine) startProductDraft(ctx context.Context, u *model.User, category string) {
	if !u.IsAdmin() || !model.ValidCategory(category) {
		return
	}

	st := session.State{Product: &session.ProductDraft{Category: category}}
	if category == model.CategoryFashion {
		st.Step = session.StepAddColors
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Kategori diatur ke *Fashion*. Sekarang masukkan *warna* yang tersedia (pisahkan dengan koma, contoh: Merah, Biru, Hitam):")
		return
	}

	st.Step = session.StepAddName
	e.sessions.Set(u.ID, st)
	e.text(ctx, u.ID, "Kategori diatur ke *"+category+"*. Sekarang masukkan *judul produk*:")
}

// saveProductDraft commits the whole draft as a new product and refreshes the
// catalog so the new entry is immediately visible.
func (e *Engine) saveProductDraft(ctx context.Context, u *model.User, st session.State) {
	if st.Product == nil || st.Step != session.StepAddConfirm || !u.IsAdmin() {
		return
	}

	if _, err := e.store.CreateProduct(ctx, st.Product.AsProduct()); err != nil {
		logx.Error().Err(err).Str("userID", u.ID).Msg("failed to create product")
		e.text(ctx, u.ID, msgApology)
		return
	}
	if err := e.catalog.Reload(ctx); err != nil {
		logx.Error().Err(err).Msg("catalog reload after product save failed")
	}

	e.sessions.Clear(u.ID)
	e.text(ctx, u.ID, "✅ Produk baru berhasil disimpan ke database!")
}

package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/kdsmedia/altoshopbot/internal/present"
	"github.com/kdsmedia/altoshopbot/internal/session"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
)

// handleFlowText continues an active flow with a free-text input.
func (e *Engine) handleFlowText(ctx context.Context, u *model.User, st session.State, body string) {
	switch {
	case st.Step == session.StepAIChat:
		e.aiChat(ctx, u, body)
	case st.Checkout != nil:
		e.checkoutText(ctx, u, st, body)
	case st.Product != nil:
		e.productDraftText(ctx, u, st, body)
	default:
		// Variant selection advances through list rows only; free text while
		// waiting for a pick is ignored.
	}
}

func (e *Engine) aiChat(ctx context.Context, u *model.User, body string) {
	reply, err := e.responder.Reply(ctx, u.ID, body)
	if err != nil {
		logx.Error().Err(err).Str("userID", u.ID).Msg("ai responder failed")
		e.text(ctx, u.ID, msgAIApology)
		return
	}
	e.text(ctx, u.ID, reply)
}

func (e *Engine) checkoutText(ctx context.Context, u *model.User, st session.State, body string) {
	switch st.Step {
	case session.StepCheckoutName:
		st.Checkout.Name = body
		st.Step = session.StepCheckoutAddress
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Terima kasih, "+body+".\n\nSekarang, mohon ketik *alamat lengkap* Anda:")

	case session.StepCheckoutAddress:
		// Totals are computed here against live catalog prices, not at
		// cart-add time.
		fresh, err := e.store.GetOrCreateUser(ctx, u.ID)
		if err != nil {
			logx.Error().Err(err).Str("userID", u.ID).Msg("failed to reload user for checkout")
			e.text(ctx, u.ID, msgApology)
			return
		}

		st.Checkout.Address = body
		st.Checkout.Subtotal = e.cartSubtotal(fresh.Cart)
		st.Checkout.ShippingFee = e.shippingFee
		st.Checkout.Total = st.Checkout.Subtotal + st.Checkout.ShippingFee
		st.Step = session.StepCheckoutConfirm
		e.sessions.Set(u.ID, st)
		e.buttons(ctx, u.ID, present.CheckoutSummary(st.Checkout))

	case session.StepCheckoutConfirm:
		// Waiting on the confirm buttons; free text changes nothing.
	}
}

// parseAmount accepts plain non-negative digit input; anything else makes the
// caller re-prompt the same step.
func parseAmount(body string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(body), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func splitTrimmed(body string) []string {
	parts := strings.Split(body, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) productDraftText(ctx context.Context, u *model.User, st session.State, body string) {
	if !u.IsAdmin() {
		// A non-admin can only hold this state through a role downgrade
		// mid-flow; drop the draft.
		e.sessions.Clear(u.ID)
		return
	}

	d := st.Product
	switch st.Step {
	case session.StepAddColors:
		d.Options = &model.Options{Colors: splitTrimmed(body)}
		st.Step = session.StepAddSizes
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Warna diatur. Sekarang masukkan *ukuran* yang tersedia (pisahkan dengan koma, contoh: S, M, L, XL):")

	case session.StepAddSizes:
		d.Options.Sizes = splitTrimmed(body)
		st.Step = session.StepAddSleeves
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Ukuran diatur. Sekarang masukkan *jenis lengan* yang tersedia (pisahkan dengan koma, contoh: Pendek, Panjang):")

	case session.StepAddSleeves:
		d.Options.Sleeves = splitTrimmed(body)
		st.Step = session.StepAddName
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Jenis lengan diatur. Sekarang masukkan *judul produk*:")

	case session.StepAddName:
		d.Name = body
		st.Step = session.StepAddImages
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Judul diatur. Sekarang masukkan *link gambar produk* (maksimal 5, pisahkan dengan koma):")

	case session.StepAddImages:
		d.Images = splitTrimmed(body)
		st.Step = session.StepAddPrice
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Gambar diatur. Sekarang masukkan *harga normal* (hanya angka):")

	case session.StepAddPrice:
		price, ok := parseAmount(body)
		if !ok {
			e.text(ctx, u.ID, msgNumbersOnly+" Masukkan *harga normal*:")
			return
		}
		d.Price = price
		st.Step = session.StepAddDiscountPrompt
		e.sessions.Set(u.ID, st)
		e.buttons(ctx, u.ID, present.DiscountPrompt())

	case session.StepAddDiscountPrice:
		dp, ok := parseAmount(body)
		if !ok {
			e.text(ctx, u.ID, msgNumbersOnly+" Masukkan *harga diskon*:")
			return
		}
		if dp >= d.Price {
			e.text(ctx, u.ID, "Harga diskon harus lebih kecil dari harga normal. Masukkan *harga diskon*:")
			return
		}
		d.DiscountPrice = dp
		st.Step = session.StepAddStock
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Harga diskon diatur. Sekarang masukkan *jumlah stok*:")

	case session.StepAddStock:
		stock, ok := parseAmount(body)
		if !ok {
			e.text(ctx, u.ID, msgNumbersOnly+" Masukkan *jumlah stok*:")
			return
		}
		d.Stock = int(stock)
		st.Step = session.StepAddDescription
		e.sessions.Set(u.ID, st)
		e.text(ctx, u.ID, "Stok diatur. Sekarang masukkan *deskripsi produk*:")

	case session.StepAddDescription:
		d.Description = body
		st.Step = session.StepAddConfirm
		e.sessions.Set(u.ID, st)
		e.buttons(ctx, u.ID, present.DraftSummary(d))

	case session.StepAddConfirm, session.StepAddDiscountPrompt:
		// Waiting on buttons; free text changes nothing.
	}
}

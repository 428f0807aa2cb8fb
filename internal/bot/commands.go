package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/kdsmedia/altoshopbot/internal/present"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
)

// handleCommand dispatches a slash command. It reports false when the command
// is unknown (or admin-gated for a non-admin caller) so the router falls
// through to the main menu.
func (e *Engine) handleCommand(ctx context.Context, u *model.User, body string) bool {
	args := strings.Fields(body)
	if len(args) == 0 {
		return false
	}

	switch strings.ToLower(args[0]) {
	case "/klaim":
		e.claimDailyBonus(ctx, u)
		return true

	case "/voucher":
		if len(args) < 2 {
			e.text(ctx, u.ID, "Gunakan format: /voucher [kode]")
			return true
		}
		e.redeemVoucher(ctx, u, args[1])
		return true

	case "/admin":
		if !u.IsAdmin() {
			// Silently fall through; non-admins get the main menu.
			return false
		}
		sub := ""
		if len(args) > 1 {
			sub = args[1]
		}
		e.adminCommand(ctx, u, sub, args[2:])
		return true
	}

	return false
}

const (
	bonusMin   = 1000
	bonusRange = 5000
)

// claimDailyBonus credits a random daily bonus once per WIB calendar day. The
// date guard and the credit are one conditional store update, so two racing
// claims from the same user cannot double-credit.
func (e *Engine) claimDailyBonus(ctx context.Context, u *model.User) {
	now := time.Now().In(wib)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, wib)
	amount := int64(bonusMin + rand.IntN(bonusRange))

	err := e.store.ClaimDailyBonus(ctx, u.ID, amount, dayStart, now)
	if errors.Is(err, model.ErrBonusClaimed) {
		e.text(ctx, u.ID, "Maaf, Anda sudah mengklaim bonus harian hari ini.")
		return
	}
	if err != nil {
		logx.Error().Err(err).Str("userID", u.ID).Msg("failed to claim bonus")
		e.text(ctx, u.ID, msgApology)
		return
	}

	e.text(ctx, u.ID, fmt.Sprintf("🎉 Selamat! Anda mendapatkan bonus harian sebesar *%s*!", present.FormatRupiah(amount)))
}

// redeemVoucher normalizes the code and delegates the exactly-once semantics
// to the store's transactional redeem.
func (e *Engine) redeemVoucher(ctx context.Context, u *model.User, code string) {
	canonical := strings.ToUpper(strings.TrimSpace(code))

	v, err := e.store.RedeemVoucher(ctx, u.ID, canonical)
	switch {
	case errors.Is(err, model.ErrVoucherNotFound):
		e.text(ctx, u.ID, "❌ Kode voucher tidak valid.")
	case errors.Is(err, model.ErrVoucherExhausted):
		e.text(ctx, u.ID, "❌ Maaf, voucher ini sudah habis.")
	case errors.Is(err, model.ErrVoucherClaimed):
		e.text(ctx, u.ID, "❌ Anda sudah pernah menggunakan voucher ini.")
	case err != nil:
		logx.Error().Err(err).Str("userID", u.ID).Str("code", canonical).Msg("failed to redeem voucher")
		e.text(ctx, u.ID, msgApology)
	default:
		e.text(ctx, u.ID, fmt.Sprintf("✅ Voucher berhasil digunakan! Saldo Anda bertambah *%s*.", present.FormatRupiah(v.Amount)))
	}
}

// adminCommand runs one admin subcommand; the caller has already been
// role-checked.
func (e *Engine) adminCommand(ctx context.Context, u *model.User, sub string, rest []string) {
	switch sub {
	case "tambahproduk":
		e.list(ctx, u.ID, present.AdminCategoryList())

	case "reloadproduk":
		if err := e.catalog.Reload(ctx); err != nil {
			e.text(ctx, u.ID, msgApology)
			return
		}
		e.text(ctx, u.ID, "✅ Cache produk berhasil dimuat ulang.")

	case "lihatpesanan":
		orders, err := e.store.ListRecentOrders(ctx, e.recentOrders)
		if err != nil {
			logx.Error().Err(err).Msg("failed to list recent orders")
			e.text(ctx, u.ID, msgApology)
			return
		}
		e.text(ctx, u.ID, present.OrdersDigest(orders))

	case "kirimpesan":
		e.broadcast(ctx, u, strings.Join(rest, " "))

	default:
		e.text(ctx, u.ID, "Perintah admin tidak valid. Coba: tambahproduk, reloadproduk, lihatpesanan, kirimpesan")
	}
}

// broadcast sends a free-text message to every known user. Per-recipient
// delivery failures are logged and skipped, never fatal.
func (e *Engine) broadcast(ctx context.Context, u *model.User, message string) {
	if message == "" {
		e.text(ctx, u.ID, "Gunakan format: /admin kirimpesan [pesan]")
		return
	}

	ids, err := e.store.ListUserIDs(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("failed to list users for broadcast")
		e.text(ctx, u.ID, msgApology)
		return
	}

	e.text(ctx, u.ID, fmt.Sprintf("Mengirim pesan ke %d pengguna...", len(ids)))
	for _, id := range ids {
		e.text(ctx, id, "*Pesan dari Admin:*\n"+message)
	}
}

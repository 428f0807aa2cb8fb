// Package present renders domain data into chat payloads. It owns every
// user-visible string so the bot core stays free of copy.
package present

import (
	"fmt"
	"strings"

	"github.com/kdsmedia/altoshopbot/internal/chat"
	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/kdsmedia/altoshopbot/internal/session"
)

const (
	// BannerURL is the storefront banner shown above the main menu.
	BannerURL = "https://blogger.googleusercontent.com/img/b/R29vZ2xl/AVvXsEjxWXh5i4NUdzFKG8crzDOwi9XazcHTAcsuF_JPtoK34yl5EqDa2gCgY9ySouq6kgf-T3FIl5tkhMVyHL3vS553WrSHwpS9BzEMeYsgvLc3a6sKokeZTKgPHwF5FQ2gKl7PBth4IO38aKbSG8Pd6mbAsQhzK5igZeV9HA3GOHZfw1vW-CcJpYCEOEsCAzo/s2816/Gemini_Generated_Image_24y9jo24y9jo24y9.png"

	// BankInstruction is the static payment instruction shown at checkout.
	BankInstruction = "Lakukan pembayaran ke BCA 123456789 a/n ALTOSHOP."
)

var categoryEmojis = map[string]string{
	"Fashion":    "👕",
	"Elektronik": "📱",
	"Peralatan":  "🛠️",
	"Mainan":     "🧸",
	"Aksesoris":  "⌚",
	"Kecantikan": "💄",
	"Makanan":    "🍔",
}

// Banner is the welcome attachment sent before the main menu.
func Banner() chat.Media {
	return chat.Media{URL: BannerURL, Caption: "Selamat datang di ALTOSHOP!"}
}

// MainMenu builds the top-level menu list. The AI row only appears when the
// responder is configured and the admin row only for admins.
func MainMenu(u *model.User, aiEnabled bool) chat.List {
	rows := []chat.Row{
		{ID: MenuCatalog, Title: "🛍️ Katalog Produk"},
		{ID: MenuCart, Title: "🛒 Lihat Keranjang"},
		{ID: MenuBonus, Title: "🎁 Halaman Bonus"},
		{ID: MenuProfile, Title: "👤 Profil Saya"},
	}
	if aiEnabled {
		rows = append(rows, chat.Row{ID: MenuAIChat, Title: "🤖 Tanya AI"})
	}
	if u.IsAdmin() {
		rows = append(rows, chat.Row{ID: MenuAdmin, Title: "⚙️ Panel Admin"})
	}

	return chat.List{
		Header:      "ALTOSHOP",
		Body:        "Pilih salah satu menu di bawah ini untuk memulai.",
		ButtonLabel: "Buka Menu",
		Sections:    []chat.Section{{Title: "Menu Utama", Rows: rows}},
	}
}

// CategoryList builds the catalog category picker, with an all-products row
// on top.
func CategoryList() chat.List {
	rows := []chat.Row{{ID: PrefixCategory + CategoryAll, Title: "✨ Semua Produk"}}
	for _, cat := range model.Categories {
		emoji := categoryEmojis[cat]
		if emoji == "" {
			emoji = "🛍️"
		}
		rows = append(rows, chat.Row{ID: PrefixCategory + cat, Title: emoji + " " + cat})
	}

	return chat.List{
		Header:      "Katalog",
		Body:        "Silakan pilih kategori.",
		ButtonLabel: "Pilih Kategori",
		Sections:    []chat.Section{{Title: "Pilih Kategori", Rows: rows}},
	}
}

func priceLine(p *model.Product) string {
	if p.DiscountPrice > 0 {
		return fmt.Sprintf("~%s~ *%s*", FormatRupiah(p.Price), FormatRupiah(p.DiscountPrice))
	}
	return FormatRupiah(p.Price)
}

// ProductCard builds the per-product teaser shown while browsing a category.
func ProductCard(p *model.Product) (chat.Media, chat.Buttons) {
	media := chat.Media{}
	if len(p.Images) > 0 {
		media.URL = p.Images[0]
	}
	card := chat.Buttons{
		Body:    fmt.Sprintf("*%s*\n%s", p.Name, priceLine(p)),
		Choices: []chat.Button{{ID: PrefixDetail + p.ID, Label: "Lihat Detail"}},
	}
	return media, card
}

// ProductDetailText builds the full detail body for one product.
func ProductDetailText(p *model.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", p.Name)
	if p.DiscountPrice > 0 {
		fmt.Fprintf(&b, "Harga: ~%s~ *%s*\n", FormatRupiah(p.Price), FormatRupiah(p.DiscountPrice))
	} else {
		fmt.Fprintf(&b, "*Harga:* %s\n", FormatRupiah(p.Price))
	}
	fmt.Fprintf(&b, "*Stok:* %d\n\n%s", p.Stock, p.Description)
	return b.String()
}

// ProductDetailButtons is the action set for products without variants.
func ProductDetailButtons(p *model.Product) chat.Buttons {
	return chat.Buttons{
		Header: "Detail Produk",
		Body:   ProductDetailText(p),
		Choices: []chat.Button{
			{ID: PrefixCartAdd + p.ID, Label: "+ Keranjang 🛒"},
			{ID: BtnBackToMenu, Label: "Kembali ke Menu ↩️"},
		},
	}
}

func optionList(title, body, button, prefix string, values []string) chat.List {
	rows := make([]chat.Row, 0, len(values))
	for _, v := range values {
		rows = append(rows, chat.Row{ID: prefix + v, Title: v})
	}
	return chat.List{
		Header:      "Opsi Produk",
		Body:        body,
		ButtonLabel: button,
		Sections:    []chat.Section{{Title: title, Rows: rows}},
	}
}

// ColorList opens the variant-selection flow.
func ColorList(p *model.Product) chat.List {
	return optionList("Pilih Warna", "Silakan pilih warna yang Anda inginkan.", "Pilih Warna",
		PrefixSelectColor, p.Options.Colors)
}

// SizeList follows a color pick.
func SizeList(p *model.Product, color string) chat.List {
	body := fmt.Sprintf("Warna *%s* dipilih. Sekarang, silakan pilih ukuran.", color)
	return optionList("Pilih Ukuran", body, "Pilih Ukuran", PrefixSelectSize, p.Options.Sizes)
}

// SleeveList follows the preceding pick, size or color depending on which
// axes the product carries.
func SleeveList(p *model.Product, prev string) chat.List {
	body := fmt.Sprintf("*%s* dipilih. Sekarang, pilih jenis lengan.", prev)
	return optionList("Pilih Jenis Lengan", body, "Pilih Lengan", PrefixSelectSleeve, p.Options.Sleeves)
}

// VariantText joins the picked option values for display.
func VariantText(opts *model.SelectedOptions) string {
	if opts == nil {
		return ""
	}
	var parts []string
	for _, v := range []string{opts.Color, opts.Size, opts.Sleeve} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " / ")
}

// VariantReady is the terminal add-to-cart prompt of the variant flow.
func VariantReady(p *model.Product, opts *model.SelectedOptions) chat.Buttons {
	return chat.Buttons{
		Header:  "Konfirmasi",
		Body:    fmt.Sprintf("Anda memilih *%s* (%s).", p.Name, VariantText(opts)),
		Choices: []chat.Button{{ID: BtnCartAddFinal, Label: "+ Keranjang 🛒"}},
	}
}

// ProductResolver looks a product up by id, typically backed by the catalog
// cache. Stale cart lines resolve to false and are rendered as unavailable.
type ProductResolver func(id string) (model.Product, bool)

// CartView renders the cart contents with per-line totals and the subtotal.
func CartView(cart []model.CartItem, resolve ProductResolver) chat.Buttons {
	var b strings.Builder
	b.WriteString("🛒 *Isi Keranjang Anda:*\n\n")

	var subtotal int64
	for i, item := range cart {
		p, ok := resolve(item.ProductID)
		if !ok {
			fmt.Fprintf(&b, "%d. _Produk tidak tersedia lagi_\n\n", i+1)
			continue
		}
		lineTotal := p.EffectivePrice() * int64(item.Quantity)
		subtotal += lineTotal

		fmt.Fprintf(&b, "%d. *%s*\n", i+1, p.Name)
		if item.Options != nil {
			fmt.Fprintf(&b, "   - Varian: %s\n", VariantText(item.Options))
		}
		fmt.Fprintf(&b, "   - Jumlah: %d\n   - Harga: %s\n\n", item.Quantity, FormatRupiah(lineTotal))
	}
	fmt.Fprintf(&b, "*Subtotal:* %s", FormatRupiah(subtotal))

	return chat.Buttons{
		Header: "Keranjang Belanja",
		Body:   b.String(),
		Choices: []chat.Button{
			{ID: BtnCheckoutStart, Label: "Checkout Sekarang 💳"},
			{ID: BtnCartClear, Label: "Kosongkan Keranjang 🗑️"},
		},
	}
}

// CheckoutSummary is the confirmation step of the checkout flow.
func CheckoutSummary(d *session.CheckoutDraft) chat.Buttons {
	body := fmt.Sprintf(
		"*Konfirmasi Pesanan Anda:*\n\n*Nama:* %s\n*Alamat:* %s\n\n*Subtotal:* %s\n*Ongkir:* %s\n*Total:* %s\n\n%s",
		d.Name, d.Address,
		FormatRupiah(d.Subtotal), FormatRupiah(d.ShippingFee), FormatRupiah(d.Total),
		BankInstruction,
	)
	return chat.Buttons{
		Header: "Konfirmasi",
		Body:   body,
		Choices: []chat.Button{
			{ID: BtnCheckoutOK, Label: "✅ Konfirmasi Pesanan"},
			{ID: BtnCheckoutNo, Label: "❌ Batal"},
		},
	}
}

// AdminCategoryList opens the add-product flow with the category pick.
func AdminCategoryList() chat.List {
	rows := make([]chat.Row, 0, len(model.Categories))
	for _, cat := range model.Categories {
		rows = append(rows, chat.Row{ID: PrefixAdminCat + cat, Title: cat})
	}
	return chat.List{
		Header:      "Tambah Produk",
		Body:        "Langkah 1: Pilih kategori untuk produk baru.",
		ButtonLabel: "Pilih Kategori",
		Sections:    []chat.Section{{Title: "Pilih Kategori Produk", Rows: rows}},
	}
}

// DiscountPrompt is the yes/no branch after the price step.
func DiscountPrompt() chat.Buttons {
	return chat.Buttons{
		Header: "Harga Diskon",
		Body:   "Harga diatur. Apakah produk ini memiliki *harga diskon*?",
		Choices: []chat.Button{
			{ID: BtnDiscountYes, Label: "Ya, Ada"},
			{ID: BtnDiscountNo, Label: "Tidak Ada"},
		},
	}
}

// DraftSummary is the whole-draft confirmation shown before saving a product.
func DraftSummary(d *session.ProductDraft) chat.Buttons {
	var b strings.Builder
	b.WriteString("*Konfirmasi Produk Baru:*\n\n")
	fmt.Fprintf(&b, "*Kategori:* %s\n", d.Category)
	if d.Options != nil {
		if len(d.Options.Colors) > 0 {
			fmt.Fprintf(&b, "*Warna:* %s\n", strings.Join(d.Options.Colors, ", "))
		}
		if len(d.Options.Sizes) > 0 {
			fmt.Fprintf(&b, "*Ukuran:* %s\n", strings.Join(d.Options.Sizes, ", "))
		}
		if len(d.Options.Sleeves) > 0 {
			fmt.Fprintf(&b, "*Lengan:* %s\n", strings.Join(d.Options.Sleeves, ", "))
		}
	}
	fmt.Fprintf(&b, "*Nama:* %s\n", d.Name)
	fmt.Fprintf(&b, "*Harga:* %s\n", FormatRupiah(d.Price))
	if d.DiscountPrice > 0 {
		fmt.Fprintf(&b, "*Harga Diskon:* %s\n", FormatRupiah(d.DiscountPrice))
	}
	fmt.Fprintf(&b, "*Stok:* %d\n", d.Stock)
	fmt.Fprintf(&b, "*Deskripsi:* %s\n", d.Description)
	fmt.Fprintf(&b, "*Gambar:* %d link", len(d.Images))

	return chat.Buttons{
		Header: "Konfirmasi",
		Body:   b.String(),
		Choices: []chat.Button{
			{ID: BtnProductSave, Label: "✅ Simpan Produk"},
			{ID: BtnProductCancel, Label: "❌ Batal"},
		},
	}
}

// BonusPage shows the balance and the bonus/voucher command hints.
func BonusPage(u *model.User) string {
	return fmt.Sprintf(
		"🎁 *Halaman Bonus*\n\nSaldo Anda: *%s*\n\nKetik */klaim* untuk bonus harian.\nKetik */voucher [kode]* untuk redeem voucher.",
		FormatRupiah(u.Balance),
	)
}

// ProfileText shows the user's identity, join date and referral code.
func ProfileText(u *model.User) string {
	number, _, _ := strings.Cut(u.ID, "@")
	return fmt.Sprintf(
		"👤 *Profil Anda*\n\n*Nomor:* %s\n*Bergabung:* %s\n*Kode Referral:* %s",
		number, u.CreatedAt.Format("02/01/2006"), u.ReferralCode,
	)
}

// AdminPanelText lists the admin command surface.
func AdminPanelText() string {
	return "⚙️ *Panel Admin*\n\nBerikut perintah yang tersedia:\n\n*/admin tambahproduk*\n*/admin reloadproduk*\n*/admin lihatpesanan*\n*/admin kirimpesan [pesan]*"
}

// OrdersDigest renders the most recent orders, newest first.
func OrdersDigest(orders []model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d Pesanan Terakhir:*\n\n", len(orders))
	for _, o := range orders {
		id := o.ID
		if len(id) > 5 {
			id = id[:5] + "..."
		}
		number, _, _ := strings.Cut(o.UserID, "@")
		fmt.Fprintf(&b, "*ID:* %s\n*User:* %s\n*Total:* %s\n*Status:* %s\n---\n",
			id, number, FormatRupiah(o.Total), o.Status)
	}
	return b.String()
}

package present

import "strings"

// Selection identifiers shared between the rendered payloads and the command
// router. Prefixed ids carry their argument after the prefix.
const (
	MenuCatalog = "menu_katalog"
	MenuCart    = "menu_keranjang"
	MenuBonus   = "menu_bonus"
	MenuProfile = "menu_profil"
	MenuAIChat  = "menu_ai_chat"
	MenuAdmin   = "menu_admin"

	BtnBackToMenu    = "back_to_menu"
	BtnCartClear     = "cart_clear"
	BtnCartAddFinal  = "cart_add_final"
	BtnCheckoutStart = "checkout_start"
	BtnCheckoutOK    = "checkout_confirm"
	BtnCheckoutNo    = "checkout_cancel"
	BtnDiscountYes   = "admin_add_discount_yes"
	BtnDiscountNo    = "admin_add_discount_no"
	BtnProductSave   = "admin_product_save"
	BtnProductCancel = "admin_product_cancel"

	PrefixDetail       = "detail_"
	PrefixCartAdd      = "cart_add_"
	PrefixCategory     = "cat_"
	PrefixAdminCat     = "admin_cat_"
	PrefixSelectColor  = "select_color_"
	PrefixSelectSize   = "select_size_"
	PrefixSelectSleeve = "select_sleeve_"

	// CategoryAll is the pseudo-category row showing every product.
	CategoryAll = "Semua"
)

// CutPrefix returns the argument part of a prefixed selection id.
func CutPrefix(id, prefix string) (string, bool) {
	return strings.CutPrefix(id, prefix)
}

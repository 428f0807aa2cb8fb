package present

import (
	"testing"

	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuIDs(u *model.User, aiEnabled bool) []string {
	rows := MainMenu(u, aiEnabled).Sections[0].Rows
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestMainMenuGating(t *testing.T) {
	buyer := &model.User{ID: "1@c.us", Role: model.RoleUser}
	admin := &model.User{ID: "2@c.us", Role: model.RoleAdmin}

	ids := menuIDs(buyer, false)
	assert.NotContains(t, ids, MenuAIChat)
	assert.NotContains(t, ids, MenuAdmin)

	ids = menuIDs(buyer, true)
	assert.Contains(t, ids, MenuAIChat)
	assert.NotContains(t, ids, MenuAdmin)

	ids = menuIDs(admin, true)
	assert.Contains(t, ids, MenuAIChat)
	assert.Contains(t, ids, MenuAdmin)
}

func TestVariantText(t *testing.T) {
	assert.Empty(t, VariantText(nil))
	assert.Equal(t, "Merah", VariantText(&model.SelectedOptions{Color: "Merah"}))
	assert.Equal(t, "Merah / L / Panjang",
		VariantText(&model.SelectedOptions{Color: "Merah", Size: "L", Sleeve: "Panjang"}))
	assert.Equal(t, "Merah / Panjang",
		VariantText(&model.SelectedOptions{Color: "Merah", Sleeve: "Panjang"}))
}

func TestCartViewSkipsStaleLines(t *testing.T) {
	catalog := map[string]model.Product{
		"p1": {ID: "p1", Name: "Speaker", Price: 100000, DiscountPrice: 80000},
	}
	resolve := func(id string) (model.Product, bool) {
		p, ok := catalog[id]
		return p, ok
	}

	cart := []model.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "gone", Quantity: 1},
	}
	view := CartView(cart, resolve)

	assert.Contains(t, view.Body, "Speaker")
	assert.Contains(t, view.Body, "_Produk tidak tersedia lagi_")
	assert.Contains(t, view.Body, "*Subtotal:* Rp 160.000", "stale lines must not price into the subtotal")

	require.Len(t, view.Choices, 2)
	assert.Equal(t, BtnCheckoutStart, view.Choices[0].ID)
	assert.Equal(t, BtnCartClear, view.Choices[1].ID)
}

func TestCategoryListCoversAllCategories(t *testing.T) {
	rows := CategoryList().Sections[0].Rows
	require.Len(t, rows, len(model.Categories)+1)
	assert.Equal(t, PrefixCategory+CategoryAll, rows[0].ID)
	for i, cat := range model.Categories {
		assert.Equal(t, PrefixCategory+cat, rows[i+1].ID)
	}
}

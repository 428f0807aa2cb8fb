package bot_test

import (
	"testing"

	"github.com/kdsmedia/altoshopbot/internal/present"
	"github.com/kdsmedia/altoshopbot/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackShowsMainMenu(t *testing.T) {
	f := newFixture(t, speaker())

	f.text(buyerID, "halo")

	list := f.transport.lastList(t)
	assert.Equal(t, "ALTOSHOP", list.Header)
	require.Len(t, list.Sections, 1)

	var ids []string
	for _, r := range list.Sections[0].Rows {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, present.MenuCatalog)
	assert.Contains(t, ids, present.MenuCart)
	assert.NotContains(t, ids, present.MenuAdmin, "non-admin must not see the admin row")
}

func TestFallbackShowsAdminRowForAdmin(t *testing.T) {
	f := newFixture(t, speaker())

	f.text(adminID, "halo")

	list := f.transport.lastList(t)
	var ids []string
	for _, r := range list.Sections[0].Rows {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, present.MenuAdmin)
}

func TestFallbackClearsStrayState(t *testing.T) {
	f := newFixture(t, speaker())

	// A state with no active step should be wiped by the menu fallback.
	f.sessions.Set(buyerID, session.State{})
	f.text(buyerID, "halo")

	_, ok := f.sessions.Get(buyerID)
	assert.False(t, ok)
}

func TestCancelKeywordClearsActiveFlow(t *testing.T) {
	f := newFixture(t, speaker())

	// Put the buyer mid-checkout with a non-empty cart.
	_, err := f.store.GetOrCreateUser(t.Context(), buyerID)
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateCart(t.Context(), buyerID, cartOf("speaker-1", 1)))
	f.button(buyerID, present.BtnCheckoutStart)
	_, ok := f.sessions.Get(buyerID)
	require.True(t, ok)
	f.transport.reset()

	f.text(buyerID, "BATAL")

	assert.Equal(t, "Aksi dibatalkan.", f.transport.lastText(t))
	_, ok = f.sessions.Get(buyerID)
	assert.False(t, ok, "state must be cleared")
	assert.Empty(t, f.transport.lists, "cancel must not re-show the menu")

	// Nothing persisted was touched.
	assert.Len(t, f.store.user(t, buyerID).Cart, 1)
	assert.Empty(t, f.store.orders)
}

func TestCancelKeywordIgnoredWhenIdle(t *testing.T) {
	f := newFixture(t, speaker())

	f.text(buyerID, "batal")

	// No flow active: falls through to the main menu.
	list := f.transport.lastList(t)
	assert.Equal(t, "ALTOSHOP", list.Header)
}

func TestUnknownSlashCommandFallsBack(t *testing.T) {
	f := newFixture(t, speaker())

	f.text(buyerID, "/nonexistent")

	list := f.transport.lastList(t)
	assert.Equal(t, "ALTOSHOP", list.Header)
}

func TestAdminCommandFromNonAdminFallsBack(t *testing.T) {
	f := newFixture(t, speaker())

	f.text(buyerID, "/admin tambahproduk")

	// Silently treated as unknown: main menu, not the category picker.
	list := f.transport.lastList(t)
	assert.Equal(t, "ALTOSHOP", list.Header)
}

func TestUnknownSelectionIdsAreNoOps(t *testing.T) {
	f := newFixture(t, speaker())

	f.button(buyerID, "bogus_button")
	f.row(buyerID, "bogus_row")
	// Flow-scoped ids without their flow active.
	f.button(buyerID, present.BtnCartAddFinal)
	f.row(buyerID, present.PrefixSelectColor+"Merah")

	_, ok := f.sessions.Get(buyerID)
	assert.False(t, ok)
	assert.Empty(t, f.store.user(t, buyerID).Cart)
	assert.Zero(t, f.transport.sentCount(), "no-ops must stay silent")
}

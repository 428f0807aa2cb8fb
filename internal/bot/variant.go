package bot

import (
	"context"

	"github.com/kdsmedia/altoshopbot/internal/model"
	"github.com/kdsmedia/altoshopbot/internal/present"
	"github.com/kdsmedia/altoshopbot/internal/session"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
)

// pickVariant records one option pick in the fixed order color → size →
// sleeve, then either advances to the next applicable axis or shows the
// terminal add-to-cart prompt. A pick arriving while no matching step is
// active is ignored: stale list taps must not corrupt another flow.
func (e *Engine) pickVariant(ctx context.Context, u *model.User, st session.State, step session.Step, value string) {
	if st.Variant == nil || st.Step != step {
		logx.Debug().Str("userID", u.ID).Str("step", string(step)).Msg("ignoring variant pick outside its step")
		return
	}

	p, ok := e.catalog.Get(st.Variant.ProductID)
	if !ok {
		// Catalog went stale mid-flow; abort the selection.
		e.sessions.Clear(u.ID)
		e.text(ctx, u.ID, "Produk tidak ditemukan.")
		return
	}

	switch step {
	case session.StepSelectColor:
		st.Variant.Options.Color = value
	case session.StepSelectSize:
		st.Variant.Options.Size = value
	case session.StepSelectSleeve:
		st.Variant.Options.Sleeve = value
	}

	// Advance to the next axis the product actually has and the draft still
	// misses. Picks arrive in color, size, sleeve order, so a product without
	// sizes goes from the color pick straight to the sleeve list.
	switch {
	case len(p.Options.Sizes) > 0 && st.Variant.Options.Size == "":
		st.Step = session.StepSelectSize
		e.sessions.Set(u.ID, st)
		e.list(ctx, u.ID, present.SizeList(&p, st.Variant.Options.Color))
	case len(p.Options.Sleeves) > 0 && st.Variant.Options.Sleeve == "":
		st.Step = session.StepSelectSleeve
		e.sessions.Set(u.ID, st)
		e.list(ctx, u.ID, present.SleeveList(&p, value))
	default:
		// Every applicable axis is picked: keep the completed draft and offer
		// the single add-to-cart choice.
		e.sessions.Set(u.ID, st)
		e.buttons(ctx, u.ID, present.VariantReady(&p, &st.Variant.Options))
	}
}

// addVariantToCart is the terminal action of the variant flow: merge the
// drafted variant into the persisted cart and leave the flow.
func (e *Engine) addVariantToCart(ctx context.Context, u *model.User, st session.State) {
	if st.Variant == nil {
		logx.Debug().Str("userID", u.ID).Msg("ignoring add-to-cart without a variant draft")
		return
	}
	p, ok := e.catalog.Get(st.Variant.ProductID)
	if !ok || !st.Variant.Complete(&p) {
		return
	}

	opts := st.Variant.Options
	e.sessions.Clear(u.ID)
	e.addToCart(ctx, u, p.ID, &opts)
}

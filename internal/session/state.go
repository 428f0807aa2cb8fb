package session

import "github.com/kdsmedia/altoshopbot/internal/model"

// Step identifies where in a guided flow a user currently is. The zero value
// means no flow is active.
type Step string

const (
	StepNone Step = ""

	// Free-form AI chat session, exited with the finish command.
	StepAIChat Step = "AI_CHAT"

	// Guided variant selection. After the last applicable pick the state stays
	// on its final step with a completed draft, waiting for the add-to-cart
	// confirmation button.
	StepSelectColor  Step = "SELECT_COLOR"
	StepSelectSize   Step = "SELECT_SIZE"
	StepSelectSleeve Step = "SELECT_SLEEVE"

	// Checkout.
	StepCheckoutName    Step = "CHECKOUT_NAMA"
	StepCheckoutAddress Step = "CHECKOUT_ALAMAT"
	StepCheckoutConfirm Step = "CHECKOUT_KONFIRMASI"

	// Admin product creation.
	StepAddColors         Step = "ADMIN_ADD_FASHION_COLORS"
	StepAddSizes          Step = "ADMIN_ADD_FASHION_SIZES"
	StepAddSleeves        Step = "ADMIN_ADD_FASHION_SLEEVES"
	StepAddName           Step = "ADMIN_ADD_NAME"
	StepAddImages         Step = "ADMIN_ADD_IMAGES"
	StepAddPrice          Step = "ADMIN_ADD_PRICE"
	StepAddDiscountPrompt Step = "ADMIN_ADD_DISCOUNT_PROMPT"
	StepAddDiscountPrice  Step = "ADMIN_ADD_DISCOUNT_PRICE"
	StepAddStock          Step = "ADMIN_ADD_STOCK"
	StepAddDescription    Step = "ADMIN_ADD_DESC"
	StepAddConfirm        Step = "ADMIN_ADD_CONFIRM"
)

// VariantDraft accumulates the buyer's picks during variant selection.
type VariantDraft struct {
	ProductID string
	Options   model.SelectedOptions
}

// Complete reports whether every applicable option axis has been picked, given
// the product the draft was opened for.
func (d *VariantDraft) Complete(p *model.Product) bool {
	if p.Options == nil {
		return true
	}
	if len(p.Options.Colors) > 0 && d.Options.Color == "" {
		return false
	}
	if len(p.Options.Sizes) > 0 && d.Options.Size == "" {
		return false
	}
	if len(p.Options.Sleeves) > 0 && d.Options.Sleeve == "" {
		return false
	}
	return true
}

// CheckoutDraft accumulates shipping info and the computed totals.
type CheckoutDraft struct {
	Name        string
	Address     string
	Subtotal    int64
	ShippingFee int64
	Total       int64
}

// ProductDraft accumulates the admin's answers; it is only ever committed as a
// whole at the confirm step.
type ProductDraft struct {
	Category      string
	Name          string
	Images        []string
	Price         int64
	DiscountPrice int64
	Stock         int
	Description   string
	Options       *model.Options
}

// AsProduct converts the finished draft into a product document.
func (d *ProductDraft) AsProduct() model.Product {
	return model.Product{
		Name:          d.Name,
		Category:      d.Category,
		Price:         d.Price,
		DiscountPrice: d.DiscountPrice,
		Stock:         d.Stock,
		Description:   d.Description,
		Images:        d.Images,
		Options:       d.Options,
	}
}

// State is one user's position in a flow plus the flow-scoped draft. Exactly
// one draft pointer is non-nil for the matching flow family; the AI chat step
// carries no draft. Absence of a State entry in the store means idle.
type State struct {
	Step     Step
	Variant  *VariantDraft
	Checkout *CheckoutDraft
	Product  *ProductDraft
}

// Active reports whether a flow is in progress.
func (s State) Active() bool {
	return s.Step != StepNone
}

package calendar

// StyleVariant names the fixed visual state of a day cell. The set is
// closed: presentation maps each variant to concrete styling.
type StyleVariant string

const (
	VariantDefault  StyleVariant = "default"
	VariantMuted    StyleVariant = "muted" // out-of-month day
	VariantToday    StyleVariant = "today"
	VariantOffer    StyleVariant = "offer"
	VariantOrdered  StyleVariant = "ordered"
	VariantSelected StyleVariant = "selected"
)

// StyleDescriptor is the resolved look of a single cell.
type StyleDescriptor struct {
	Variant    StyleVariant `json:"variant"`
	Background string       `json:"background"`
	Foreground string       `json:"foreground"`
	Border     string       `json:"border,omitempty"`
}

// Theme is the process-wide immutable style table. Copy-on-use: nothing in
// this package ever mutates a Theme after construction.
type Theme struct {
	Default  StyleDescriptor
	Muted    StyleDescriptor
	Today    StyleDescriptor
	Offer    StyleDescriptor
	Ordered  StyleDescriptor
	Selected StyleDescriptor
}

// DefaultTheme mirrors the mobile client's fixed color table.
var DefaultTheme = Theme{
	Default:  StyleDescriptor{Variant: VariantDefault, Background: "#ffffff", Foreground: "#1f2430"},
	Muted:    StyleDescriptor{Variant: VariantMuted, Background: "#ffffff", Foreground: "#b8bcc4"},
	Today:    StyleDescriptor{Variant: VariantToday, Background: "#ffffff", Foreground: "#1f2430", Border: "#3478f6"},
	Offer:    StyleDescriptor{Variant: VariantOffer, Background: "#e8f3ff", Foreground: "#1f2430"},
	Ordered:  StyleDescriptor{Variant: VariantOrdered, Background: "#e6f7ec", Foreground: "#1f2430"},
	Selected: StyleDescriptor{Variant: VariantSelected, Background: "#3478f6", Foreground: "#ffffff"},
}

// ResolveCellStyle maps a cell and the current selection to exactly one
// style variant. Deterministic precedence: selected > ordered > offer >
// today > out-of-month > default.
func (t Theme) ResolveCellStyle(cell DayCell, sel *Selection) StyleDescriptor {
	if sel != nil {
		if key, ok := sel.Selected(); ok && key == cell.DateKey && cell.IsCurrentMonth {
			return t.Selected
		}
	}
	switch {
	case cell.HasOrder:
		return t.Ordered
	case cell.HasOffer:
		return t.Offer
	case cell.IsToday:
		return t.Today
	case !cell.IsCurrentMonth:
		return t.Muted
	default:
		return t.Default
	}
}

package catalog

// AllCategory is the synthetic category that matches every record.
const AllCategory = "all"

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var categories = []Category{
	{ID: AllCategory, Label: "Tümü", Icon: "🧭"},
	{ID: "Tarih", Label: "Tarih", Icon: "⚔️"},
	{ID: "Sanat", Label: "Sanat", Icon: "🖼️"},
	{ID: "Bilim", Label: "Bilim", Icon: "🧪"},
	{ID: "Eğlence", Label: "Eğlence", Icon: "🎡"},
	{ID: "Kültür", Label: "Kültür", Icon: "🎨"},
}

// ASCII spellings seen in hand-edited data files.
var iconFallbacks = map[string]string{
	"Eglence": "🎡",
	"Kultur":  "🎨",
}

const defaultIcon = "📍"

// Categories returns the fixed category list, "all" first.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// KnownCategory reports whether id is in the fixed list.
func KnownCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryIcon resolves an icon by id, then by ASCII fallback, else a pin.
func CategoryIcon(id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Icon
		}
	}
	if icon, ok := iconFallbacks[id]; ok {
		return icon
	}
	return defaultIcon
}

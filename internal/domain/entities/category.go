package entities

// Category is a trade a professional can be listed under.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var categories = []Category{
	{ID: "electricista", Name: "Electricista", Icon: "zap"},
	{ID: "plomero", Name: "Plomero", Icon: "droplets"},
	{ID: "carpintero", Name: "Carpintero", Icon: "hammer"},
	{ID: "pintor", Name: "Pintor", Icon: "paintbrush"},
	{ID: "mecanico", Name: "Mecánico", Icon: "wrench"},
	{ID: "peluquero", Name: "Peluquero", Icon: "scissors"},
}

// Categories returns a copy of the fixed category list in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsValidCategory reports whether id names one of the fixed categories.
func IsValidCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

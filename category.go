package byguide

// Category is a fixed site section that groups reviews.
type Category struct {
	Slug        string `json:"slug"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Categories is a slice of Category.
type Categories []Category

// DefaultCategorySlug is assigned to posts submitted without a category.
const DefaultCategorySlug = "tech"

// BySlug returns the category with the given slug, if it exists.
func (cs Categories) BySlug(slug string) (Category, bool) {
	for _, c := range cs {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// HasCategory returns true if a category with the given slug exists.
func (cs Categories) HasCategory(slug string) bool {
	_, ok := cs.BySlug(slug)
	return ok
}

func DefaultCategories() Categories {
	return Categories{
		{
			Slug:        "desk-setup",
			Label:       "Desk Setup",
			Description: "Monitors, keyboards, chairs, and accessories for focused study sessions.",
		},
		{
			Slug:        "tech",
			Label:       "Tech",
			Description: "Laptops, tablets, and gadgets that keep up with classes and side projects.",
		},
		{
			Slug:        "productivity",
			Label:       "Productivity",
			Description: "Timers, apps, and tools to help you stay in flow and ship your best work.",
		},
	}
}

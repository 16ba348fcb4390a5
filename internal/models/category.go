package models

// Category is one of the fixed tip partitions
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories is the fixed, ordered category list. Each one owns an independent
// sequence of predictions.
var Categories = []Category{
	{ID: "freeTips", Name: "Free Tips"},
	{ID: "bankerTips", Name: "Banker Tips"},
	{ID: "free2Odds", Name: "Free 2 Odds"},
	{ID: "superSingle", Name: "Super Single"},
	{ID: "doubleChance", Name: "Double Chance"},
	{ID: "over1.5Goals", Name: "Over 1.5 Goals"},
	{ID: "over2.5Goals", Name: "Over 2.5 Goals"},
	{ID: "overUnder3.5Goals", Name: "Over/Under 3.5 Goals"},
	{ID: "btts", Name: "BTTS/GG"},
	{ID: "overCorners", Name: "Over Corners"},
	{ID: "correctScores", Name: "Correct Scores"},
	{ID: "draws", Name: "Draws"},
	{ID: "vvip", Name: "VVIP"},
}

// CategoryIDs returns the category identifiers in display order
func CategoryIDs() []string {
	ids := make([]string, len(Categories))
	for i, c := range Categories {
		ids[i] = c.ID
	}
	return ids
}

// IsValidCategory reports whether id names a known category
func IsValidCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryName returns the display name for id, or id itself when unknown
func CategoryName(id string) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

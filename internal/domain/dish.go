// Package domain defines the core types and interfaces for the recipe
// assistant. All other packages depend on domain; domain depends on nothing
// but its validator.
package domain

import "encoding/json"

// IngredientInfo is one ingredient detected in a photo.
type IngredientInfo struct {
	Name     string `json:"name"`
	State    string `json:"state,omitempty"`    // "raw", "fried", "chopped", ...
	Quantity string `json:"quantity,omitempty"` // free text, e.g. "2 slices"
}

// UnmarshalJSON accepts both the object form and a bare ingredient name,
// which is what the ingredient-only analysis endpoint returns.
func (i *IngredientInfo) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*i = IngredientInfo{Name: name}
		return nil
	}

	type alias IngredientInfo // avoids recursing into this method
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = IngredientInfo(a)
	return nil
}

// IdentifiedDish is the backend's description of the dish in a photo.
type IdentifiedDish struct {
	DishName          string           `json:"dish_name"`
	Type              string           `json:"type"`
	Origin            string           `json:"origin"`
	Ingredients       []IngredientInfo `json:"ingredients"`
	Preparation       []string         `json:"preparation"`
	CookingTime       string           `json:"cooking_time,omitempty"`
	ServingSuggestion string           `json:"serving_suggestion,omitempty"`
	SimilarRecipeID   string           `json:"similar_recipe_id,omitempty"`
	Success           bool             `json:"success"`
}

// IngredientNames projects the ingredients onto their names, keeping order.
// Duplicates are kept.
func (d *IdentifiedDish) IngredientNames() []string {
	if d == nil {
		return []string{}
	}
	names := make([]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// Clone returns a deep copy.
func (d *IdentifiedDish) Clone() *IdentifiedDish {
	if d == nil {
		return nil
	}
	c := *d
	c.Ingredients = append([]IngredientInfo(nil), d.Ingredients...)
	c.Preparation = append([]string(nil), d.Preparation...)
	return &c
}

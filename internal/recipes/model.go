package recipes

import (
	"time"

	"github.com/opyryanova/foodgram/internal/tags"
	"github.com/opyryanova/foodgram/internal/users"
)

// IngredientLine is one ingredient of a recipe with its amount.
type IngredientLine struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// Recipe is the full read representation. The favorited/cart flags and
// the author's is_subscribed are resolved against the requesting user.
type Recipe struct {
	ID               int64            `json:"id"`
	Tags             []tags.Tag       `json:"tags"`
	Author           users.PublicUser `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            *string          `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	Servings         int              `json:"servings"`

	// BaseServings is set only when the view was rescaled to a target
	// serving count; it then carries the authored count.
	BaseServings *int `json:"base_servings,omitempty"`

	PubDate time.Time `json:"-"`
}

// ShortRecipe is the card shape used by favorite and cart responses.
type ShortRecipe struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	CookingTime int     `json:"cooking_time"`
}

// IngredientAmount is a write-side (ingredient id, amount) pair.
type IngredientAmount struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeInput is the write model for create and update.
type RecipeInput struct {
	AuthorID    int64
	Name        string
	Text        string
	ImageURL    string
	CookingTime int
	Servings    int
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// Filter narrows recipe listings. Zero values mean "not filtered".
type Filter struct {
	AuthorID    int64
	TagSlugs    []string
	Name        string
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

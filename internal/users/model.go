package users

// PublicUser is the representation returned by the users API. The
// is_subscribed flag is resolved against the requesting user.
type PublicUser struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// RecipeCard is the short recipe representation embedded in
// subscription listings.
type RecipeCard struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	CookingTime int     `json:"cooking_time"`
}

// SubscribedAuthor is an author in the subscriptions feed, carrying a
// slice of their recipes.
type SubscribedAuthor struct {
	PublicUser
	Recipes      []RecipeCard `json:"recipes"`
	RecipesCount int          `json:"recipes_count"`
}

// NullableURL maps an empty stored URL to JSON null.
func NullableURL(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

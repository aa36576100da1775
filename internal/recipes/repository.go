package recipes

import "context"

// Repository defines all database operations for recipes and their
// per-user relations. viewerID is 0 for anonymous requests.
type Repository interface {
	List(ctx context.Context, viewerID int64, f Filter) ([]Recipe, int, error)
	Get(ctx context.Context, viewerID, recipeID int64) (*Recipe, error)
	Short(ctx context.Context, recipeID int64) (*ShortRecipe, error)

	Create(ctx context.Context, in *RecipeInput) (int64, error)
	Update(ctx context.Context, recipeID int64, in *RecipeInput) error
	Delete(ctx context.Context, recipeID int64) (bool, error)
	AuthorOf(ctx context.Context, recipeID int64) (int64, error)

	// Dictionary checks backing write validation.
	CountTags(ctx context.Context, ids []int64) (int, error)
	CountIngredients(ctx context.Context, ids []int64) (int, error)

	AddFavorite(ctx context.Context, userID, recipeID int64) (created bool, err error)
	RemoveFavorite(ctx context.Context, userID, recipeID int64) (deleted bool, err error)

	AddCartEntry(ctx context.Context, userID, recipeID int64, servings int) (created bool, err error)
	UpdateCartEntry(ctx context.Context, userID, recipeID int64, servings int) (found bool, err error)
	RemoveCartEntry(ctx context.Context, userID, recipeID int64) (deleted bool, err error)
	CartEntries(ctx context.Context, userID int64) ([]CartEntry, error)

	ShortLinkCode(ctx context.Context, recipeID int64) (string, error)
	SaveShortLink(ctx context.Context, recipeID int64, code string) error
	ResolveShortLink(ctx context.Context, code string) (int64, error)
}

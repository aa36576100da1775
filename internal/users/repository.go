package users

import "context"

// Repository defines the data-access contract for profiles and
// subscriptions. viewerID is 0 for anonymous requests.
type Repository interface {
	List(ctx context.Context, viewerID int64, limit, offset int) ([]PublicUser, int, error)
	Get(ctx context.Context, viewerID, userID int64) (*PublicUser, error)
	SetAvatar(ctx context.Context, userID int64, url string) error

	Subscribe(ctx context.Context, userID, authorID int64) (created bool, err error)
	Unsubscribe(ctx context.Context, userID, authorID int64) (deleted bool, err error)
	Subscriptions(ctx context.Context, userID int64, limit, offset int) ([]PublicUser, int, error)

	// RecipeCards loads every author's recipes, newest first.
	RecipeCards(ctx context.Context, authorIDs []int64) (map[int64][]RecipeCard, error)
}

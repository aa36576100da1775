package users

import (
	"context"
	"errors"
)

var (
	ErrSelfSubscribe     = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed to this user")
	ErrNotSubscribed     = errors.New("subscription does not exist")
	ErrNoMediaStore      = errors.New("image storage is not configured")
)

// MediaStore uploads a base64 image and returns its public URL.
type MediaStore interface {
	UploadImage(ctx context.Context, folder, encoded string) (string, error)
}

type Service struct {
	repo  Repository
	media MediaStore
}

func NewService(repo Repository, media MediaStore) *Service {
	return &Service{repo: repo, media: media}
}

func (s *Service) List(ctx context.Context, viewerID int64, limit, offset int) ([]PublicUser, int, error) {
	return s.repo.List(ctx, viewerID, limit, offset)
}

func (s *Service) Get(ctx context.Context, viewerID, userID int64) (*PublicUser, error) {
	return s.repo.Get(ctx, viewerID, userID)
}

// SetAvatar uploads the encoded image and stores its URL on the profile.
func (s *Service) SetAvatar(ctx context.Context, userID int64, encoded string) (string, error) {
	if s.media == nil {
		return "", ErrNoMediaStore
	}
	url, err := s.media.UploadImage(ctx, "avatars", encoded)
	if err != nil {
		return "", err
	}
	if err := s.repo.SetAvatar(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *Service) DeleteAvatar(ctx context.Context, userID int64) error {
	return s.repo.SetAvatar(ctx, userID, "")
}

func (s *Service) Subscribe(ctx context.Context, userID, authorID int64) (*SubscribedAuthor, error) {
	if userID == authorID {
		return nil, ErrSelfSubscribe
	}

	// Resolve the author first so an unknown id is a 404, not a 400.
	if _, err := s.repo.Get(ctx, userID, authorID); err != nil {
		return nil, err
	}

	created, err := s.repo.Subscribe(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadySubscribed
	}

	author, err := s.repo.Get(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	return s.withRecipes(ctx, []PublicUser{*author}, -1)
}

func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if _, err := s.repo.Get(ctx, userID, authorID); err != nil {
		return err
	}
	deleted, err := s.repo.Unsubscribe(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotSubscribed
	}
	return nil
}

// Subscriptions returns the authors the user follows, each with up to
// recipesLimit recipe cards (negative means no limit).
func (s *Service) Subscriptions(ctx context.Context, userID int64, limit, offset, recipesLimit int) ([]SubscribedAuthor, int, error) {
	authors, count, err := s.repo.Subscriptions(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]SubscribedAuthor, 0, len(authors))
	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}

	cards, err := s.repo.RecipeCards(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	for _, a := range authors {
		result = append(result, buildAuthor(a, cards[a.ID], recipesLimit))
	}
	return result, count, nil
}

func (s *Service) withRecipes(ctx context.Context, authors []PublicUser, recipesLimit int) (*SubscribedAuthor, error) {
	cards, err := s.repo.RecipeCards(ctx, []int64{authors[0].ID})
	if err != nil {
		return nil, err
	}
	sa := buildAuthor(authors[0], cards[authors[0].ID], recipesLimit)
	return &sa, nil
}

func buildAuthor(u PublicUser, cards []RecipeCard, recipesLimit int) SubscribedAuthor {
	total := len(cards)
	if recipesLimit >= 0 && len(cards) > recipesLimit {
		cards = cards[:recipesLimit]
	}
	if cards == nil {
		cards = []RecipeCard{}
	}
	return SubscribedAuthor{
		PublicUser:   u,
		Recipes:      cards,
		RecipesCount: total,
	}
}

package recipes

import (
	"context"
	"errors"
)

var (
	ErrNotAuthor         = errors.New("only the author can modify this recipe")
	ErrAlreadyFavorited  = errors.New("recipe is already in favorites")
	ErrNotFavorited      = errors.New("recipe is not in favorites")
	ErrAlreadyInCart     = errors.New("recipe is already in the shopping cart")
	ErrNotInCart         = errors.New("recipe is not in the shopping cart")
	ErrNoTags            = errors.New("add at least one tag")
	ErrDuplicateTags     = errors.New("tags must not repeat")
	ErrUnknownTag        = errors.New("unknown tag id")
	ErrNoIngredients     = errors.New("add at least one ingredient")
	ErrDuplicateLines    = errors.New("ingredients must not repeat")
	ErrUnknownIngredient = errors.New("unknown ingredient id")
	ErrBadAmount         = errors.New("ingredient amount must be at least 1")
	ErrBadCookingTime    = errors.New("cooking time must be at least 1 minute")
	ErrBadServings       = errors.New("servings must be between 1 and 50")
	ErrNameRequired      = errors.New("name is required")
	ErrTextRequired      = errors.New("description is required")
	ErrImageRequired     = errors.New("image is required")
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

func (s *Service) List(ctx context.Context, viewerID int64, f Filter) ([]Recipe, int, error) {
	return s.repo.List(ctx, viewerID, f)
}

// Get returns a recipe view, optionally rescaled to targetServings.
// targetServings <= 0 means "as authored".
func (s *Service) Get(ctx context.Context, viewerID, recipeID int64, targetServings int) (*Recipe, error) {
	rec, err := s.repo.Get(ctx, viewerID, recipeID)
	if err != nil {
		return nil, err
	}

	if targetServings > 0 {
		base := NormalizeBase(rec.Servings)
		target := ClampServings(targetServings)
		rec.Ingredients = ScaleLines(rec.Ingredients, base, target)
		rec.BaseServings = &base
		rec.Servings = target
	}
	return rec, nil
}

// CreateParams carries a new recipe; Image is a base64 payload.
type CreateParams struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Servings    int // 0 means default 1
	TagIDs      []int64
	Ingredients []IngredientAmount
}

func (s *Service) Create(ctx context.Context, authorID int64, p CreateParams) (*Recipe, error) {
	if p.Servings == 0 {
		p.Servings = 1
	}
	if err := s.validateWrite(ctx, p, true); err != nil {
		return nil, err
	}

	imageURL, err := s.uploadImage(ctx, p.Image)
	if err != nil {
		return nil, err
	}

	recipeID, err := s.repo.Create(ctx, &RecipeInput{
		AuthorID:    authorID,
		Name:        p.Name,
		Text:        p.Text,
		ImageURL:    imageURL,
		CookingTime: p.CookingTime,
		Servings:    p.Servings,
		TagIDs:      p.TagIDs,
		Ingredients: p.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, authorID, recipeID)
}

// UpdateParams carries a partial update; nil fields keep current values.
type UpdateParams struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	Servings    *int
	TagIDs      []int64
	Ingredients []IngredientAmount
}

func (s *Service) Update(ctx context.Context, userID, recipeID int64, p UpdateParams) (*Recipe, error) {
	if err := s.requireAuthor(ctx, userID, recipeID); err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	merged := CreateParams{
		Name:        current.Name,
		Text:        current.Text,
		CookingTime: current.CookingTime,
		Servings:    current.Servings,
		TagIDs:      tagIDs(current),
		Ingredients: ingredientAmounts(current),
	}
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.Text != nil {
		merged.Text = *p.Text
	}
	if p.CookingTime != nil {
		merged.CookingTime = *p.CookingTime
	}
	if p.Servings != nil {
		merged.Servings = *p.Servings
	}
	if p.TagIDs != nil {
		merged.TagIDs = p.TagIDs
	}
	if p.Ingredients != nil {
		merged.Ingredients = p.Ingredients
	}

	if err := s.validateWrite(ctx, merged, false); err != nil {
		return nil, err
	}

	imageURL := ""
	if current.Image != nil {
		imageURL = *current.Image
	}
	if p.Image != nil {
		imageURL, err = s.uploadImage(ctx, *p.Image)
		if err != nil {
			return nil, err
		}
	}

	err = s.repo.Update(ctx, recipeID, &RecipeInput{
		AuthorID:    current.Author.ID,
		Name:        merged.Name,
		Text:        merged.Text,
		ImageURL:    imageURL,
		CookingTime: merged.CookingTime,
		Servings:    merged.Servings,
		TagIDs:      merged.TagIDs,
		Ingredients: merged.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, userID, recipeID)
}

func (s *Service) Delete(ctx context.Context, userID, recipeID int64) error {
	if err := s.requireAuthor(ctx, userID, recipeID); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, recipeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) requireAuthor(ctx context.Context, userID, recipeID int64) error {
	authorID, err := s.repo.AuthorOf(ctx, recipeID)
	if err != nil {
		return err
	}
	if authorID != userID {
		return ErrNotAuthor
	}
	return nil
}

func (s *Service) validateWrite(ctx context.Context, p CreateParams, creating bool) error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Text == "" {
		return ErrTextRequired
	}
	if creating && p.Image == "" {
		return ErrImageRequired
	}
	if p.CookingTime < 1 {
		return ErrBadCookingTime
	}
	if p.Servings < MinServings || p.Servings > MaxServings {
		return ErrBadServings
	}

	if len(p.TagIDs) == 0 {
		return ErrNoTags
	}
	if hasDuplicateIDs(p.TagIDs) {
		return ErrDuplicateTags
	}
	if n, err := s.repo.CountTags(ctx, p.TagIDs); err != nil {
		return err
	} else if n != len(p.TagIDs) {
		return ErrUnknownTag
	}

	if len(p.Ingredients) == 0 {
		return ErrNoIngredients
	}
	ids := make([]int64, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		if ing.Amount < 1 {
			return ErrBadAmount
		}
		ids = append(ids, ing.ID)
	}
	if hasDuplicateIDs(ids) {
		return ErrDuplicateLines
	}
	if n, err := s.repo.CountIngredients(ctx, ids); err != nil {
		return err
	} else if n != len(ids) {
		return ErrUnknownIngredient
	}
	return nil
}

func (s *Service) uploadImage(ctx context.Context, encoded string) (string, error) {
	if s.media == nil {
		return "", ErrNoMediaStore
	}
	return s.media.UploadImage(ctx, "recipes", encoded)
}

func hasDuplicateIDs(ids []int64) bool {
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

func tagIDs(rec *Recipe) []int64 {
	ids := make([]int64, 0, len(rec.Tags))
	for _, t := range rec.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func ingredientAmounts(rec *Recipe) []IngredientAmount {
	out := make([]IngredientAmount, 0, len(rec.Ingredients))
	for _, line := range rec.Ingredients {
		out = append(out, IngredientAmount{ID: line.ID, Amount: line.Amount})
	}
	return out
}

// --------------------------------------------------
// Favorites
// --------------------------------------------------

func (s *Service) Favorite(ctx context.Context, userID, recipeID int64) (*ShortRecipe, error) {
	short, err := s.repo.Short(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.AddFavorite(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyFavorited
	}
	return short, nil
}

func (s *Service) Unfavorite(ctx context.Context, userID, recipeID int64) error {
	if _, err := s.repo.Short(ctx, recipeID); err != nil {
		return err
	}
	deleted, err := s.repo.RemoveFavorite(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFavorited
	}
	return nil
}

// --------------------------------------------------
// Shopping cart
// --------------------------------------------------

// AddToCart creates a cart entry. A nil servings takes the recipe's
// base serving count; any value is clamped to [1, 50].
func (s *Service) AddToCart(ctx context.Context, userID, recipeID int64, servings *int) (*ShortRecipe, error) {
	return s.setCartServings(ctx, userID, recipeID, servings, true)
}

// UpdateCartServings changes the chosen serving count of an existing
// entry.
func (s *Service) UpdateCartServings(ctx context.Context, userID, recipeID int64, servings *int) (*ShortRecipe, error) {
	return s.setCartServings(ctx, userID, recipeID, servings, false)
}

// setCartServings is the single upsert path behind both cart writes.
func (s *Service) setCartServings(ctx context.Context, userID, recipeID int64, servings *int, create bool) (*ShortRecipe, error) {
	short, err := s.repo.Short(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	chosen := 0
	if servings != nil {
		chosen = ClampServings(*servings)
	} else {
		rec, err := s.repo.Get(ctx, userID, recipeID)
		if err != nil {
			return nil, err
		}
		chosen = NormalizeBase(rec.Servings)
	}

	if create {
		created, err := s.repo.AddCartEntry(ctx, userID, recipeID, chosen)
		if err != nil {
			return nil, err
		}
		if !created {
			return nil, ErrAlreadyInCart
		}
		return short, nil
	}

	found, err := s.repo.UpdateCartEntry(ctx, userID, recipeID, chosen)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotInCart
	}
	return short, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	if _, err := s.repo.Short(ctx, recipeID); err != nil {
		return err
	}
	deleted, err := s.repo.RemoveCartEntry(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotInCart
	}
	return nil
}

// ShoppingListText aggregates the user's cart into the downloadable
// plain-text shopping list.
func (s *Service) ShoppingListText(ctx context.Context, userID int64) (string, error) {
	entries, err := s.repo.CartEntries(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(AggregateShoppingList(entries)), nil
}

// --------------------------------------------------
// Short links
// --------------------------------------------------

// ShortLink returns the recipe's short-link code, creating it on first
// request. Codes are base62 and stable per recipe.
func (s *Service) ShortLink(ctx context.Context, recipeID int64) (string, error) {
	if _, err := s.repo.Short(ctx, recipeID); err != nil {
		return "", err
	}

	code, err := s.repo.ShortLinkCode(ctx, recipeID)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	code = EncodeBase62(recipeID)
	if err := s.repo.SaveShortLink(ctx, recipeID, code); err != nil {
		return "", err
	}
	return code, nil
}

// ResolveShortLink maps a code back to its recipe id.
func (s *Service) ResolveShortLink(ctx context.Context, code string) (int64, error) {
	return s.repo.ResolveShortLink(ctx, code)
}

package recipes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opyryanova/foodgram/internal/tags"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	nextID  int64
	recipes map[int64]*Recipe

	knownTags map[int64]tags.Tag
	knownIngs map[int64]IngredientLine // amount unused, carries name/unit

	favorites  map[[2]int64]bool
	cart       map[[2]int64]int
	shortLinks map[int64]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:  1,
		recipes: make(map[int64]*Recipe),
		knownTags: map[int64]tags.Tag{
			1: {ID: 1, Name: "breakfast", Slug: "breakfast"},
			2: {ID: 2, Name: "dinner", Slug: "dinner"},
		},
		knownIngs: map[int64]IngredientLine{
			10: {ID: 10, Name: "flour", MeasurementUnit: "g"},
			11: {ID: 11, Name: "milk", MeasurementUnit: "ml"},
		},
		favorites:  make(map[[2]int64]bool),
		cart:       make(map[[2]int64]int),
		shortLinks: make(map[int64]string),
	}
}

func (f *fakeRepo) List(_ context.Context, _ int64, _ Filter) ([]Recipe, int, error) {
	out := []Recipe{}
	for _, r := range f.recipes {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, _, recipeID int64) (*Recipe, error) {
	r, ok := f.recipes[recipeID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	cp.Ingredients = append([]IngredientLine(nil), r.Ingredients...)
	cp.Tags = append([]tags.Tag(nil), r.Tags...)
	return &cp, nil
}

func (f *fakeRepo) Short(_ context.Context, recipeID int64) (*ShortRecipe, error) {
	r, ok := f.recipes[recipeID]
	if !ok {
		return nil, ErrNotFound
	}
	return &ShortRecipe{ID: r.ID, Name: r.Name, CookingTime: r.CookingTime}, nil
}

func (f *fakeRepo) Create(_ context.Context, in *RecipeInput) (int64, error) {
	id := f.nextID
	f.nextID++
	f.recipes[id] = f.materialize(id, in)
	return id, nil
}

func (f *fakeRepo) Update(_ context.Context, recipeID int64, in *RecipeInput) error {
	if _, ok := f.recipes[recipeID]; !ok {
		return ErrNotFound
	}
	f.recipes[recipeID] = f.materialize(recipeID, in)
	return nil
}

func (f *fakeRepo) materialize(id int64, in *RecipeInput) *Recipe {
	rec := &Recipe{
		ID:          id,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		Servings:    in.Servings,
	}
	rec.Author.ID = in.AuthorID
	if in.ImageURL != "" {
		img := in.ImageURL
		rec.Image = &img
	}
	for _, tagID := range in.TagIDs {
		rec.Tags = append(rec.Tags, f.knownTags[tagID])
	}
	for _, ing := range in.Ingredients {
		line := f.knownIngs[ing.ID]
		line.Amount = ing.Amount
		rec.Ingredients = append(rec.Ingredients, line)
	}
	return rec
}

func (f *fakeRepo) Delete(_ context.Context, recipeID int64) (bool, error) {
	if _, ok := f.recipes[recipeID]; !ok {
		return false, nil
	}
	delete(f.recipes, recipeID)
	return true, nil
}

func (f *fakeRepo) AuthorOf(_ context.Context, recipeID int64) (int64, error) {
	r, ok := f.recipes[recipeID]
	if !ok {
		return 0, ErrNotFound
	}
	return r.Author.ID, nil
}

func (f *fakeRepo) CountTags(_ context.Context, ids []int64) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := f.knownTags[id]; ok {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountIngredients(_ context.Context, ids []int64) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := f.knownIngs[id]; ok {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) AddFavorite(_ context.Context, userID, recipeID int64) (bool, error) {
	k := [2]int64{userID, recipeID}
	if f.favorites[k] {
		return false, nil
	}
	f.favorites[k] = true
	return true, nil
}

func (f *fakeRepo) RemoveFavorite(_ context.Context, userID, recipeID int64) (bool, error) {
	k := [2]int64{userID, recipeID}
	if !f.favorites[k] {
		return false, nil
	}
	delete(f.favorites, k)
	return true, nil
}

func (f *fakeRepo) AddCartEntry(_ context.Context, userID, recipeID int64, servings int) (bool, error) {
	k := [2]int64{userID, recipeID}
	if _, ok := f.cart[k]; ok {
		return false, nil
	}
	f.cart[k] = servings
	return true, nil
}

func (f *fakeRepo) UpdateCartEntry(_ context.Context, userID, recipeID int64, servings int) (bool, error) {
	k := [2]int64{userID, recipeID}
	if _, ok := f.cart[k]; !ok {
		return false, nil
	}
	f.cart[k] = servings
	return true, nil
}

func (f *fakeRepo) RemoveCartEntry(_ context.Context, userID, recipeID int64) (bool, error) {
	k := [2]int64{userID, recipeID}
	if _, ok := f.cart[k]; !ok {
		return false, nil
	}
	delete(f.cart, k)
	return true, nil
}

func (f *fakeRepo) CartEntries(_ context.Context, userID int64) ([]CartEntry, error) {
	entries := []CartEntry{}
	for k, servings := range f.cart {
		if k[0] != userID {
			continue
		}
		r := f.recipes[k[1]]
		entries = append(entries, CartEntry{
			RecipeID:     k[1],
			BaseServings: r.Servings,
			Servings:     servings,
			Lines:        r.Ingredients,
		})
	}
	return entries, nil
}

func (f *fakeRepo) ShortLinkCode(_ context.Context, recipeID int64) (string, error) {
	code, ok := f.shortLinks[recipeID]
	if !ok {
		return "", ErrNotFound
	}
	return code, nil
}

func (f *fakeRepo) SaveShortLink(_ context.Context, recipeID int64, code string) error {
	if _, ok := f.shortLinks[recipeID]; !ok {
		f.shortLinks[recipeID] = code
	}
	return nil
}

func (f *fakeRepo) ResolveShortLink(_ context.Context, code string) (int64, error) {
	for id, c := range f.shortLinks {
		if c == code {
			return id, nil
		}
	}
	return 0, ErrNotFound
}

type fakeMedia struct{}

func (fakeMedia) UploadImage(_ context.Context, folder, _ string) (string, error) {
	return "https://media.example/" + folder + "/test.png", nil
}

func validCreate() CreateParams {
	return CreateParams{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		Image:       "data:image/png;base64,xxxx",
		CookingTime: 20,
		Servings:    2,
		TagIDs:      []int64{1},
		Ingredients: []IngredientAmount{{ID: 10, Amount: 100}},
	}
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, fakeMedia{}), repo
}

func TestCreateRecipe(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.Create(context.Background(), 7, validCreate())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", rec.Name)
	assert.Equal(t, int64(7), rec.Author.ID)
	assert.Equal(t, 2, rec.Servings)
	require.NotNil(t, rec.Image)
	assert.Contains(t, *rec.Image, "recipes/")
}

func TestCreateRecipeValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateParams)
		want   error
	}{
		{"no tags", func(p *CreateParams) { p.TagIDs = nil }, ErrNoTags},
		{"duplicate tags", func(p *CreateParams) { p.TagIDs = []int64{1, 1} }, ErrDuplicateTags},
		{"unknown tag", func(p *CreateParams) { p.TagIDs = []int64{99} }, ErrUnknownTag},
		{"no ingredients", func(p *CreateParams) { p.Ingredients = nil }, ErrNoIngredients},
		{"duplicate ingredients", func(p *CreateParams) {
			p.Ingredients = []IngredientAmount{{ID: 10, Amount: 1}, {ID: 10, Amount: 2}}
		}, ErrDuplicateLines},
		{"unknown ingredient", func(p *CreateParams) {
			p.Ingredients = []IngredientAmount{{ID: 99, Amount: 1}}
		}, ErrUnknownIngredient},
		{"zero amount", func(p *CreateParams) {
			p.Ingredients = []IngredientAmount{{ID: 10, Amount: 0}}
		}, ErrBadAmount},
		{"no image", func(p *CreateParams) { p.Image = "" }, ErrImageRequired},
		{"bad cooking time", func(p *CreateParams) { p.CookingTime = 0 }, ErrBadCookingTime},
		{"servings over limit", func(p *CreateParams) { p.Servings = 51 }, ErrBadServings},
		{"no name", func(p *CreateParams) { p.Name = "" }, ErrNameRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validCreate()
			tc.mutate(&p)
			_, err := svc.Create(ctx, 7, p)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateDefaultsServingsToOne(t *testing.T) {
	svc, _ := newTestService()

	p := validCreate()
	p.Servings = 0
	rec, err := svc.Create(context.Background(), 7, p)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Servings)
}

func TestGetWithTargetServingsScalesAmounts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := validCreate()
	p.Servings = 2
	p.Ingredients = []IngredientAmount{{ID: 10, Amount: 10}}
	rec, err := svc.Create(ctx, 7, p)
	require.NoError(t, err)

	scaled, err := svc.Get(ctx, 0, rec.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 15, scaled.Ingredients[0].Amount)
	assert.Equal(t, 3, scaled.Servings)
	require.NotNil(t, scaled.BaseServings)
	assert.Equal(t, 2, *scaled.BaseServings)

	// As-authored view stays untouched.
	plain, err := svc.Get(ctx, 0, rec.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, plain.Ingredients[0].Amount)
	assert.Nil(t, plain.BaseServings)
}

func TestUpdateOnlyByAuthor(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)

	name := "Stolen"
	_, err = svc.Update(ctx, 8, rec.ID, UpdateParams{Name: &name})
	assert.ErrorIs(t, err, ErrNotAuthor)

	err = svc.Delete(ctx, 8, rec.ID)
	assert.ErrorIs(t, err, ErrNotAuthor)
}

func TestPartialUpdateKeepsOtherFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)

	name := "Crepes"
	updated, err := svc.Update(ctx, 7, rec.ID, UpdateParams{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Crepes", updated.Name)
	assert.Equal(t, rec.Text, updated.Text)
	assert.Equal(t, rec.CookingTime, updated.CookingTime)
	assert.Len(t, updated.Ingredients, 1)
}

func TestFavoriteTwiceFails(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)

	_, err = svc.Favorite(ctx, 9, rec.ID)
	require.NoError(t, err)

	_, err = svc.Favorite(ctx, 9, rec.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	require.NoError(t, svc.Unfavorite(ctx, 9, rec.ID))
	assert.ErrorIs(t, svc.Unfavorite(ctx, 9, rec.ID), ErrNotFavorited)
}

func TestAddToCartDefaultsToBaseServings(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p := validCreate()
	p.Servings = 4
	rec, err := svc.Create(ctx, 7, p)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, 9, rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, repo.cart[[2]int64{9, rec.ID}])
}

func TestDuplicateAddThenUpdateCart(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)

	three := 3
	_, err = svc.AddToCart(ctx, 9, rec.ID, &three)
	require.NoError(t, err)

	// A second create must fail so the client falls back to update.
	five := 5
	_, err = svc.AddToCart(ctx, 9, rec.ID, &five)
	assert.ErrorIs(t, err, ErrAlreadyInCart)
	assert.Equal(t, 3, repo.cart[[2]int64{9, rec.ID}], "failed create must not change servings")

	_, err = svc.UpdateCartServings(ctx, 9, rec.ID, &five)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.cart[[2]int64{9, rec.ID}])
}

func TestCartServingsClamped(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)

	huge := 999
	_, err = svc.AddToCart(ctx, 9, rec.ID, &huge)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.cart[[2]int64{9, rec.ID}])

	negative := -5
	_, err = svc.UpdateCartServings(ctx, 9, rec.ID, &negative)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.cart[[2]int64{9, rec.ID}])
}

func TestUpdateCartRequiresMembership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)

	two := 2
	_, err = svc.UpdateCartServings(ctx, 9, rec.ID, &two)
	assert.ErrorIs(t, err, ErrNotInCart)

	assert.ErrorIs(t, svc.RemoveFromCart(ctx, 9, rec.ID), ErrNotInCart)
}

func TestShoppingListText(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Base 2 servings, 100 g flour; chosen 4 -> 200 g.
	p := validCreate()
	p.Servings = 2
	p.Ingredients = []IngredientAmount{{ID: 10, Amount: 100}}
	recA, err := svc.Create(ctx, 7, p)
	require.NoError(t, err)

	// Base 1 serving, 50 g flour; chosen 1 -> 50 g.
	q := validCreate()
	q.Name = "Bread"
	q.Servings = 1
	q.Ingredients = []IngredientAmount{{ID: 10, Amount: 50}}
	recB, err := svc.Create(ctx, 7, q)
	require.NoError(t, err)

	four := 4
	_, err = svc.AddToCart(ctx, 9, recA.ID, &four)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 9, recB.ID, nil)
	require.NoError(t, err)

	text, err := svc.ShoppingListText(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "flour — 250 g", text)
}

func TestShoppingListEmptyCart(t *testing.T) {
	svc, _ := newTestService()

	text, err := svc.ShoppingListText(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list is empty.", text)
}

func TestShortLinkIsStable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, 7, validCreate())
	require.NoError(t, err)

	code, err := svc.ShortLink(ctx, rec.ID)
	require.NoError(t, err)
	require.NotEmpty(t, code)

	again, err := svc.ShortLink(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, code, again)

	back, err := svc.ResolveShortLink(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, back)
}

func TestShortLinkUnknownRecipe(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ShortLink(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

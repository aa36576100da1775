package auth

import (
	"context"
	"strings"
)

// InMemoryUserRepository backs service tests without a database.
type InMemoryUserRepository struct {
	users  map[string]*User
	nextID int64
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]*User), nextID: 1}
}

func (r *InMemoryUserRepository) Save(_ context.Context, user *User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[strings.ToLower(user.Email)] = user
	return nil
}

func (r *InMemoryUserRepository) FindByLogin(_ context.Context, login string) (*User, error) {
	login = strings.ToLower(login)
	if u, ok := r.users[login]; ok {
		return u, nil
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Username, login) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *InMemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.users[strings.ToLower(email)]
	return ok, nil
}

func (r *InMemoryUserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

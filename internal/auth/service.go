package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("username contains forbidden characters")
	ErrForbiddenUsername  = errors.New("this username is not allowed")
	ErrMissingFields      = errors.New("missing required fields")
)

// usernameRe mirrors Django's UnicodeUsernameValidator charset.
var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// Names that collide with API routes or are otherwise reserved.
var forbiddenUsernames = map[string]bool{
	"me":            true,
	"admin":         true,
	"subscriptions": true,
}

type Service struct {
	repo UserRepository
}

func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, username, email, firstName, lastName, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if !usernameRe.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if forbiddenUsernames[strings.ToLower(username)] {
		return nil, ErrForbiddenUsername
	}

	if taken, err := s.repo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.repo.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:  username,
		Email:     strings.ToLower(email),
		FirstName: firstName,
		LastName:  lastName,
		Password:  string(hashedPassword),
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login accepts an email or a username as the login.
func (s *Service) Login(ctx context.Context, login, password string) (*User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.Password),
		[]byte(password),
	); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

package auth

import (
	"context"
	"errors"
	"testing"
)

func TestPasswordIsHashedBeforeSaving(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)

	password := "Password@123"

	_, err := service.Register(context.Background(), "tester", "test@example.com", "Test", "User", password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := repo.users["test@example.com"]
	if user == nil {
		t.Fatalf("user not found")
	}

	if user.Password == password {
		t.Fatalf("password was stored in plain text")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)
	ctx := context.Background()

	if _, err := service.Register(ctx, "first", "test@example.com", "", "", "Password@123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := service.Register(ctx, "second", "test@example.com", "", "", "Password@123")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)
	ctx := context.Background()

	if _, err := service.Register(ctx, "tester", "one@example.com", "", "", "Password@123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := service.Register(ctx, "Tester", "two@example.com", "", "", "Password@123")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterValidatesUsername(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)
	ctx := context.Background()

	if _, err := service.Register(ctx, "bad name!", "a@example.com", "", "", "pw"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}

	for _, reserved := range []string{"me", "Me", "admin", "subscriptions"} {
		if _, err := service.Register(ctx, reserved, "a@example.com", "", "", "pw"); !errors.Is(err, ErrForbiddenUsername) {
			t.Fatalf("username %q: expected ErrForbiddenUsername, got %v", reserved, err)
		}
	}
}

func TestRegisterRequiresFields(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)

	_, err := service.Register(context.Background(), "tester", "test@example.com", "", "", "")
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestLoginByEmailOrUsername(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)
	ctx := context.Background()

	if _, err := service.Register(ctx, "tester", "Test@Example.com", "", "", "Password@123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, login := range []string{"test@example.com", "tester", "TESTER"} {
		if _, err := service.Login(ctx, login, "Password@123"); err != nil {
			t.Fatalf("login %q: unexpected error: %v", login, err)
		}
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := NewInMemoryUserRepository()
	service := NewService(repo)
	ctx := context.Background()

	if _, err := service.Register(ctx, "tester", "test@example.com", "", "", "Password@123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.Login(ctx, "test@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Login(ctx, "ghost@example.com", "Password@123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

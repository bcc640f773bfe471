package repository

import (
	"errors"
	"testing"

	"github.com/stylecloset/wardrobe-service/internal/domain"
)

func TestUserRepositoryCreateNormalizesEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	u := &domain.User{Email: "Ada@Example.COM", FirstName: "Ada"}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}

	found, err := repo.FindByEmail("ADA@example.com")
	if err != nil {
		t.Fatalf("find by mixed-case email: %v", err)
	}
	if found.ID != u.ID {
		t.Fatalf("expected same user, got %s and %s", found.ID, u.ID)
	}
}

func TestUserRepositoryDuplicateEmailCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.Create(&domain.User{Email: "Ada@X.com"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := repo.Create(&domain.User{Email: "ada@x.com"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserRepositoryFindMisses(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	if _, err := repo.FindByEmail("ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByID("no-such-id"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

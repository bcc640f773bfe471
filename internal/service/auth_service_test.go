package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthFixture(t *testing.T) (*AuthService, repository.UserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	users := repository.NewUserRepository(db)
	return NewAuthService(users, 4), users
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "analytical-engine",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == nil || *user.PasswordHash == "analytical-engine" {
		t.Fatal("password must be stored as a digest")
	}

	got, err := svc.Login(context.Background(), "ADA@EXAMPLE.COM", "analytical-engine")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestRegisterDuplicateEmailDiffersOnlyInCase(t *testing.T) {
	svc, users := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "Ada@X.com", Password: "password-one"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), RegisterInput{Email: "ada@x.com", Password: "password-two"})
	if !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// The conflict must not have created a second row.
	if _, err := users.FindByEmail("ada@x.com"); err != nil {
		t.Fatalf("original user must remain: %v", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, users := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "ada@x.com", Password: "right-password"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	// Federated-only account: no password digest at all.
	if err := users.Create(&domain.User{Email: "sso@x.com"}); err != nil {
		t.Fatalf("create federated user: %v", err)
	}

	cases := []struct {
		name, email, password string
	}{
		{"unknown email", "ghost@x.com", "whatever-pass"},
		{"wrong password", "ada@x.com", "wrong-password"},
		{"federated-only account", "sso@x.com", "any-password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected uniform ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stylecloset/wardrobe-service/internal/domain"
)

func TestWardrobeRepositoryListNewestFirstScopedToUser(t *testing.T) {
	db := newTestDB(t)
	ada := createTestUser(t, db, "ada@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	repo := NewWardrobeRepository(db)

	older := &domain.WardrobeItem{UserID: ada.ID, Category: "camisa", Color: "azul", Material: "algodao"}
	if err := repo.Create(older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	db.Model(older).Update("created_at", time.Now().Add(-time.Hour))

	newer := &domain.WardrobeItem{UserID: ada.ID, Category: "calca", Color: "preta", Material: "jeans"}
	if err := repo.Create(newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}
	if err := repo.Create(&domain.WardrobeItem{UserID: bob.ID, Category: "casaco", Color: "cinza", Material: "la"}); err != nil {
		t.Fatalf("create other user item: %v", err)
	}

	items, err := repo.ListByUser(ada.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %s", items[0].Category)
	}
}

func TestWardrobeRepositoryCrossUserAccessDenied(t *testing.T) {
	db := newTestDB(t)
	ada := createTestUser(t, db, "ada@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	repo := NewWardrobeRepository(db)

	item := &domain.WardrobeItem{UserID: ada.ID, Category: "vestido", Color: "verde", Material: "linho"}
	if err := repo.Create(item); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.FindByIDForUser(bob.ID, item.ID); !errors.Is(err, ErrWardrobeItemNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
	if err := repo.DeleteByIDForUser(bob.ID, item.ID); !errors.Is(err, ErrWardrobeItemNotFound) {
		t.Fatalf("expected delete denied for other user, got %v", err)
	}
	if _, err := repo.FindByIDForUser(ada.ID, item.ID); err != nil {
		t.Fatalf("owner must still see the item: %v", err)
	}
}

func TestWardrobeRepositoryUpdateAndTagsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ada := createTestUser(t, db, "ada@example.com")
	repo := NewWardrobeRepository(db)

	item := &domain.WardrobeItem{
		UserID:   ada.ID,
		Category: "camisa",
		Color:    "branca",
		Material: "algodao",
		Tags:     domain.StringList{"trabalho", "verao"},
		Season:   strPtr(domain.SeasonSummer),
	}
	if err := repo.Create(item); err != nil {
		t.Fatalf("create: %v", err)
	}

	item.Color = "bege"
	item.Tags = append(item.Tags, "casual")
	if err := repo.Update(item); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.FindByIDForUser(ada.ID, item.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Color != "bege" {
		t.Fatalf("color not updated: %q", got.Color)
	}
	if len(got.Tags) != 3 || got.Tags[2] != "casual" {
		t.Fatalf("tags not round-tripped: %v", got.Tags)
	}
}

func TestStyleProfileRepositoryUpsertKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	ada := createTestUser(t, db, "ada@example.com")
	repo := NewStyleProfileRepository(db)

	if _, err := repo.FindByUser(ada.ID); !errors.Is(err, ErrStyleProfileNotFound) {
		t.Fatalf("expected missing profile, got %v", err)
	}

	first := &domain.StyleProfile{UserID: ada.ID, Styles: strPtr("minimalista")}
	if err := repo.Upsert(first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &domain.StyleProfile{UserID: ada.ID, Styles: strPtr("classico"), Formality: strPtr(domain.FormalityHigh)}
	if err := repo.Upsert(second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.FindByUser(ada.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != first.ID {
		t.Fatal("upsert must reuse the existing row")
	}
	if got.Styles == nil || *got.Styles != "classico" {
		t.Fatalf("profile not updated: %+v", got)
	}

	var count int64
	db.Model(&domain.StyleProfile{}).Where("user_id = ?", ada.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one profile row, got %d", count)
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func newProductFixture() (ProductService, *mockProductRepository) {
	repo := newMockProductRepository()
	return NewProductService(repo), repo
}

func TestCreateProductRequiresTitle(t *testing.T) {
	svc, repo := newProductFixture()

	_, err := svc.Create(context.Background(), CreateProductInput{Price: decimal.NewFromInt(5)})
	if !errors.Is(err, ErrProductTitleRequired) {
		t.Fatalf("expected ErrProductTitleRequired, got %v", err)
	}
	if len(repo.products) != 0 {
		t.Fatalf("expected no persisted products, found %d", len(repo.products))
	}
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc, _ := newProductFixture()

	_, err := svc.Create(context.Background(), CreateProductInput{
		Title: "Widget",
		Price: decimal.NewFromInt(-1),
	})
	if !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}
}

func TestProperty_CreatedProductRoundTrips(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("created products come back with the same fields", prop.ForAll(
		func(title string, priceCents int) bool {
			svc, _ := newProductFixture()
			ctx := context.Background()

			price := decimal.New(int64(priceCents), -2)
			created, err := svc.Create(ctx, CreateProductInput{Title: title, Price: price})
			if err != nil {
				t.Logf("unexpected error: %v", err)
				return false
			}

			fetched, err := svc.Get(ctx, created.ID)
			if err != nil {
				t.Logf("unexpected error: %v", err)
				return false
			}
			return fetched.Title == title && fetched.Price.Equal(price)
		},
		gen.RegexMatch(`[A-Za-z][A-Za-z0-9 ]{0,30}`),
		gen.IntRange(0, 1000000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUpdateProductAppliesZeroValues(t *testing.T) {
	svc, repo := newProductFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{
		Title:       "Widget",
		Description: "A fine widget",
		Price:       decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Zero values in a patch are real updates, not omissions
	zero := decimal.Zero
	empty := ""
	updated, err := svc.Update(ctx, created.ID, domain.ProductPatch{
		Price:       &zero,
		Description: &empty,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !updated.Price.Equal(decimal.Zero) {
		t.Fatalf("expected price 0, got %s", updated.Price)
	}
	if updated.Description != "" {
		t.Fatalf("expected cleared description, got %q", updated.Description)
	}
	if updated.Title != "Widget" {
		t.Fatalf("omitted title must stay untouched, got %q", updated.Title)
	}
	if !repo.products[created.ID].Price.Equal(decimal.Zero) {
		t.Fatal("zero price not persisted")
	}
}

func TestUpdateProductLeavesOmittedFieldsAlone(t *testing.T) {
	svc, _ := newProductFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{
		Title:       "Widget",
		Description: "A fine widget",
		Category:    "tools",
		Price:       decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newTitle := "Renamed widget"
	updated, err := svc.Update(ctx, created.ID, domain.ProductPatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Title != newTitle {
		t.Fatalf("expected title %q, got %q", newTitle, updated.Title)
	}
	if updated.Description != "A fine widget" || updated.Category != "tools" || !updated.Price.Equal(decimal.NewFromInt(10)) {
		t.Fatal("omitted fields must stay untouched")
	}
}

func TestUpdateProductRejectsEmptyTitle(t *testing.T) {
	svc, _ := newProductFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Title: "Widget", Price: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := ""
	if _, err := svc.Update(ctx, created.ID, domain.ProductPatch{Title: &empty}); !errors.Is(err, ErrProductTitleRequired) {
		t.Fatalf("expected ErrProductTitleRequired, got %v", err)
	}
}

func TestGetImage(t *testing.T) {
	svc, _ := newProductFixture()
	ctx := context.Background()

	withImage, err := svc.Create(ctx, CreateProductInput{
		Title: "Widget",
		Price: decimal.NewFromInt(10),
		Image: &domain.ProductImage{ContentType: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withoutImage, err := svc.Create(ctx, CreateProductInput{Title: "Plain", Price: decimal.NewFromInt(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	image, err := svc.GetImage(ctx, withImage.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if image.ContentType != "image/png" || len(image.Data) != 4 {
		t.Fatalf("unexpected image payload: %+v", image)
	}

	if _, err := svc.GetImage(ctx, withoutImage.ID); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
	if _, err := svc.GetImage(ctx, uuid.New()); !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc, repo := newProductFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Title: "Widget", Price: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.products) != 0 {
		t.Fatal("product not removed")
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

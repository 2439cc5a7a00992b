package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"spendbook/config"
	"spendbook/models"
)

// newTestStore connects to the TEST_DB_* database, provisions a fresh
// expenses table and returns the store. Tests are skipped when no test
// database is available.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST not set, skipping integration test")
	}

	cfg := config.Config{
		DBHost:     os.Getenv("TEST_DB_HOST"),
		DBPort:     envOrDefault("TEST_DB_PORT", "5432"),
		DBUser:     envOrDefault("TEST_DB_USER", "postgres"),
		DBPassword: envOrDefault("TEST_DB_PASSWORD", "postgres"),
		DBName:     envOrDefault("TEST_DB_NAME", "spendbook_test"),
		DBSSLMode:  "disable",
		DBPoolSize: 4,
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := EnsureDatabase(ctx, cfg, logger); err != nil {
		t.Fatalf("failed to ensure test database: %v", err)
	}
	store, err := Open(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(store.Close)

	if err := store.CreateSchema(ctx); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if _, err := store.pool.Exec(ctx, "TRUNCATE expenses RESTART IDENTITY"); err != nil {
		t.Fatalf("failed to truncate expenses: %v", err)
	}
	return store
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, models.ExpenseInput{
		Description: "  Coffee  ",
		Amount:      amount("3.5"),
		Category:    "Food",
	})
	if err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}

	if created.ID <= 0 {
		t.Errorf("expected a positive assigned id, got %d", created.ID)
	}
	if created.Description != "Coffee" {
		t.Errorf("expected trimmed description, got %q", created.Description)
	}
	if created.Amount != "3.50" {
		t.Errorf("expected amount rendered as 3.50, got %q", created.Amount)
	}
	if created.Category != "Food" {
		t.Errorf("expected category Food, got %q", created.Category)
	}
	if created.Date == "" {
		t.Error("expected a server-assigned date")
	}

	expenses, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("failed to list expenses: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(expenses))
	}
	if !reflect.DeepEqual(expenses[0], *created) {
		t.Errorf("listed expense %+v does not match created %+v", expenses[0], *created)
	}
}

func TestCreateDefaultsCategory(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create(context.Background(), models.ExpenseInput{
		Description: "Mystery purchase",
		Amount:      amount("9.99"),
	})
	if err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
	if created.Category != DefaultCategory {
		t.Errorf("expected category %q, got %q", DefaultCategory, created.Category)
	}
}

func TestCreateRejectedWriteLeavesStateUnchanged(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	invalid := []models.ExpenseInput{
		{Description: "", Amount: amount("3.50")},
		{Description: "Coffee", Amount: decimal.Zero},
		{Description: "Coffee", Amount: amount("-3.50")},
		{Description: "Coffee", Amount: amount("3.505")},
	}
	for _, in := range invalid {
		var verr *ValidationError
		if _, err := store.Create(ctx, in); !errors.As(err, &verr) {
			t.Errorf("input %+v: expected ValidationError, got %v", in, err)
		}
	}

	expenses, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("failed to list expenses: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("expected no persisted expenses after rejected writes, got %d", len(expenses))
	}
}

func TestListFiltersByCategory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []models.ExpenseInput{
		{Description: "Coffee", Amount: amount("3.50"), Category: "Food"},
		{Description: "Lunch", Amount: amount("12.00"), Category: "Food"},
		{Description: "Bus ticket", Amount: amount("2.75"), Category: "Transport"},
	}
	for _, in := range seed {
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatalf("failed to seed expense: %v", err)
		}
	}

	food, err := store.List(ctx, "Food")
	if err != nil {
		t.Fatalf("failed to list by category: %v", err)
	}
	if len(food) != 2 {
		t.Fatalf("expected 2 food expenses, got %d", len(food))
	}
	for _, e := range food {
		if e.Category != "Food" {
			t.Errorf("expected only Food expenses, got category %q", e.Category)
		}
	}
}

func TestListOrdersByDateDescending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := models.ExpenseInput{Description: "Old", Amount: amount("1.00"), Date: "2024-01-01 09:00:00"}
	newer := models.ExpenseInput{Description: "New", Amount: amount("2.00"), Date: "2025-01-01 09:00:00"}
	if _, err := store.Create(ctx, older); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, newer); err != nil {
		t.Fatal(err)
	}

	expenses, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("failed to list expenses: %v", err)
	}
	if len(expenses) != 2 || expenses[0].Description != "New" {
		t.Errorf("expected newest expense first, got %+v", expenses)
	}
}

func TestListIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, models.ExpenseInput{Description: "Coffee", Amount: amount("3.50")}); err != nil {
		t.Fatal(err)
	}

	first, err := store.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated List without writes differs: %+v vs %+v", first, second)
	}
}

func TestGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, models.ExpenseInput{Description: "Coffee", Amount: amount("3.50")})
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get expense: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("got %+v, want %+v", got, created)
	}

	if _, err := store.Get(ctx, created.ID+1000); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, models.ExpenseInput{
		Description: "Coffee",
		Amount:      amount("3.50"),
		Category:    "Food",
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := store.Update(ctx, created.ID, models.ExpenseInput{
		Description: "Large coffee",
		Amount:      amount("4.00"),
		Category:    "Food",
	})
	if err != nil {
		t.Fatalf("failed to update expense: %v", err)
	}

	if updated.ID != created.ID {
		t.Errorf("id changed on update: %d -> %d", created.ID, updated.ID)
	}
	if updated.Amount != "4.00" {
		t.Errorf("expected amount 4.00, got %q", updated.Amount)
	}
	if updated.Description != "Large coffee" {
		t.Errorf("expected updated description, got %q", updated.Description)
	}
	if updated.Date != created.Date {
		t.Errorf("date changed without client input: %q -> %q", created.Date, updated.Date)
	}
}

func TestUpdateNotFoundLeavesStateUnchanged(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, models.ExpenseInput{Description: "Coffee", Amount: amount("3.50")}); err != nil {
		t.Fatal(err)
	}
	before, err := store.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Update(ctx, 9999, models.ExpenseInput{Description: "Ghost", Amount: amount("1.00")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	after, err := store.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("store state changed by failed update")
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, models.ExpenseInput{Description: "Coffee", Amount: amount("3.50")})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("failed to delete expense: %v", err)
	}

	expenses, err := store.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(expenses) != 0 {
		t.Errorf("expected empty list after delete, got %d rows", len(expenses))
	}

	// Deleting again signals "no such record", not a storage fault.
	if err := store.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []models.ExpenseInput{
		{Description: "Coffee", Amount: amount("3.50"), Category: "Food"},
		{Description: "Lunch", Amount: amount("12.00"), Category: "Food"},
		{Description: "Bus ticket", Amount: amount("2.75"), Category: "Transport"},
	}
	for _, in := range seed {
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("failed to summarize: %v", err)
	}

	if summary.Total != "18.25" {
		t.Errorf("expected grand total 18.25, got %q", summary.Total)
	}
	if len(summary.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(summary.Categories))
	}
	if summary.Categories[0].Category != "Food" || summary.Categories[0].Total != "15.50" {
		t.Errorf("expected Food 15.50 first, got %+v", summary.Categories[0])
	}
	if summary.Categories[0].Count != 2 {
		t.Errorf("expected 2 food expenses, got %d", summary.Categories[0].Count)
	}
}

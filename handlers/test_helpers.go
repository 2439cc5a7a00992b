package handlers

import (
	"context"
	"strings"
	"time"

	"spendbook/database"
	"spendbook/models"
)

// fakeStore is an in-memory ExpenseStore used by the handler tests. It
// mirrors the real store's validation rules and error taxonomy so the
// handlers can be exercised without PostgreSQL.
type fakeStore struct {
	nextID   int
	expenses []models.Expense

	// failWith, when set, makes every operation fail with it.
	failWith error
	// pingErr controls the health probe.
	pingErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) validate(in *models.ExpenseInput) error {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return &database.ValidationError{Msg: "description is required"}
	}
	if in.Amount.Sign() <= 0 {
		return &database.ValidationError{Msg: "amount must be greater than zero"}
	}
	if in.Amount.Exponent() < -2 {
		return &database.ValidationError{Msg: "amount cannot have more than two decimal places"}
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = database.DefaultCategory
	}
	return nil
}

func (f *fakeStore) List(ctx context.Context, category string) ([]models.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.Expense, 0)
	for _, e := range f.expenses {
		if category == "" || e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id int) (*models.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, e := range f.expenses {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) Create(ctx context.Context, in models.ExpenseInput) (*models.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if err := f.validate(&in); err != nil {
		return nil, err
	}
	date := in.Date
	if date == "" {
		date = time.Now().Format("2006-01-02 15:04:05")
	}
	e := models.Expense{
		ID:          f.nextID,
		Description: in.Description,
		Amount:      in.Amount.StringFixed(2),
		Category:    in.Category,
		Date:        date,
	}
	f.nextID++
	f.expenses = append([]models.Expense{e}, f.expenses...)
	return &e, nil
}

func (f *fakeStore) Update(ctx context.Context, id int, in models.ExpenseInput) (*models.Expense, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if err := f.validate(&in); err != nil {
		return nil, err
	}
	for i, e := range f.expenses {
		if e.ID == id {
			e.Description = in.Description
			e.Amount = in.Amount.StringFixed(2)
			e.Category = in.Category
			if in.Date != "" {
				e.Date = in.Date
			}
			f.expenses[i] = e
			return &e, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) Delete(ctx context.Context, id int) error {
	if f.failWith != nil {
		return f.failWith
	}
	for i, e := range f.expenses {
		if e.ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeStore) Summary(ctx context.Context) (*models.Summary, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	// Handler tests only need the shape; totals are exercised against the
	// real store in the database package.
	return &models.Summary{Total: "0.00", Categories: []models.CategoryTotal{}}, nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	return f.pingErr
}

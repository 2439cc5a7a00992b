package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"spendbook/models"
)

// DefaultCategory is assigned when a client omits the category.
const DefaultCategory = "Other"

const timeLayout = "2006-01-02 15:04:05"

// expenseColumns casts amount to text so NUMERIC(12,2) arrives already
// formatted with two decimal digits.
const expenseColumns = "id, description, amount::text, category, date"

// validateInput normalizes and checks a create/update payload. It returns
// the parsed date, zero when the client left it unset. Validation happens
// entirely in memory; a rejected payload never reaches the database.
func validateInput(in *models.ExpenseInput) (time.Time, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return time.Time{}, &ValidationError{Msg: "description is required"}
	}

	if in.Amount.Sign() <= 0 {
		return time.Time{}, &ValidationError{Msg: "amount must be greater than zero"}
	}
	if in.Amount.Exponent() < -2 {
		return time.Time{}, &ValidationError{Msg: "amount cannot have more than two decimal places"}
	}

	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = DefaultCategory
	}

	if in.Date == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{timeLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, in.Date); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationErrorf("date %q is not in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format", in.Date)
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	var date time.Time
	if err := row.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &date); err != nil {
		return nil, err
	}
	e.Date = date.Format(timeLayout)
	return &e, nil
}

// List returns all expenses, newest first. An empty category lists
// everything; otherwise only that category's rows are returned.
func (s *Store) List(ctx context.Context, category string) ([]models.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses"
	args := []interface{}{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("listing expenses", err)
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, storageError("scanning expense row", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("listing expenses", err)
	}
	return expenses, nil
}

// Get returns a single expense or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int) (*models.Expense, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = $1", id)
	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("reading expense", err)
	}
	return e, nil
}

// Create validates the input, inserts a row and re-reads it inside a
// single transaction, so server-assigned fields are authoritative and a
// failed read leaves no orphan row behind.
func (s *Store) Create(ctx context.Context, in models.ExpenseInput) (*models.Expense, error) {
	date, err := validateInput(&in)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storageError("beginning transaction", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO expenses (description, amount, category, date)
		VALUES ($1, $2::numeric, $3, $4)
		RETURNING id
	`, in.Description, in.Amount.StringFixed(2), in.Category, date).Scan(&id)
	if err != nil {
		return nil, storageError("inserting expense", err)
	}

	e, err := scanExpense(tx.QueryRow(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = $1", id))
	if err != nil {
		return nil, storageError("reading back inserted expense", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageError("committing expense", err)
	}

	s.logger.Debug("expense created", "id", e.ID, "category", e.Category)
	return e, nil
}

// Update overwrites the mutable fields of an existing expense and
// refreshes updated_at. The id and created_at never change. A date is
// only overwritten when the client supplied one.
func (s *Store) Update(ctx context.Context, id int, in models.ExpenseInput) (*models.Expense, error) {
	date, err := validateInput(&in)
	if err != nil {
		return nil, err
	}
	var datePtr *time.Time
	if !date.IsZero() {
		datePtr = &date
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE expenses
		SET description = $1,
		    amount = $2::numeric,
		    category = $3,
		    date = COALESCE($4, date),
		    updated_at = now()
		WHERE id = $5
	`, in.Description, in.Amount.StringFixed(2), in.Category, datePtr, id)
	if err != nil {
		return nil, storageError("updating expense", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id)
}

// Delete removes an expense. Deleting an id that is already gone reports
// ErrNotFound; it is not a storage fault.
func (s *Store) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return storageError("deleting expense", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary aggregates spend per category, largest first, plus the grand
// total across all expenses.
func (s *Store) Summary(ctx context.Context) (*models.Summary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT category, COUNT(*), SUM(amount)::text
		FROM expenses
		GROUP BY category
		ORDER BY SUM(amount) DESC, category
	`)
	if err != nil {
		return nil, storageError("summarizing expenses", err)
	}
	defer rows.Close()

	summary := &models.Summary{Categories: make([]models.CategoryTotal, 0)}
	total := decimal.Zero
	for rows.Next() {
		var ct models.CategoryTotal
		var rawTotal string
		if err := rows.Scan(&ct.Category, &ct.Count, &rawTotal); err != nil {
			return nil, storageError("scanning summary row", err)
		}
		amount, err := decimal.NewFromString(rawTotal)
		if err != nil {
			return nil, storageError("parsing summary total", err)
		}
		ct.Total = amount.StringFixed(2)
		total = total.Add(amount)
		summary.Categories = append(summary.Categories, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("summarizing expenses", err)
	}

	summary.Total = total.StringFixed(2)
	return summary, nil
}

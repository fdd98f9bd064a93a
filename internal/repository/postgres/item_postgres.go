package postgres

import (
	"context"
	"database/sql"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// ItemPostgres is a PostgreSQL implementation of repository.ItemRepository.
type ItemPostgres struct {
	db *sql.DB
}

// NewItemPostgres creates a new ItemPostgres repository.
func NewItemPostgres(db *sql.DB) *ItemPostgres {
	return &ItemPostgres{db: db}
}

var _ repository.ItemRepository = (*ItemPostgres)(nil)

const itemColumns = `id, name, price, stock_quantity, author, isbn, image_key`

func scanItem(s interface{ Scan(...any) error }) (model.Item, error) {
	var i model.Item
	err := s.Scan(&i.ID, &i.Name, &i.Price, &i.StockQuantity, &i.Author, &i.ISBN, &i.ImageKey)
	return i, err
}

// Save inserts an item row and returns the generated ID.
func (r *ItemPostgres) Save(ctx context.Context, item *model.Item) (int64, error) {
	const q = `
		INSERT INTO items (name, price, stock_quantity, author, isbn)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, q,
		item.Name,
		item.Price,
		item.StockQuantity,
		item.Author,
		item.ISBN,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// FindByID fetches a single item by its ID.
func (r *ItemPostgres) FindByID(ctx context.Context, id int64) (*model.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs fetches several items with one IN query.
func (r *ItemPostgres) FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []model.Item{}, nil
	}
	in, args := inPlaceholders(ids, 1)
	q := `SELECT ` + itemColumns + ` FROM items WHERE id IN (` + in + `) ORDER BY id`
	return r.list(ctx, q, args...)
}

// FindAll returns every item ordered by ID.
func (r *ItemPostgres) FindAll(ctx context.Context) ([]model.Item, error) {
	const q = `SELECT ` + itemColumns + ` FROM items ORDER BY id`
	return r.list(ctx, q)
}

// Update overwrites the mutable catalog fields of an item.
func (r *ItemPostgres) Update(ctx context.Context, item *model.Item) error {
	const q = `UPDATE items SET name = $1, price = $2, stock_quantity = $3 WHERE id = $4`
	return execOne(ctx, r.db, q, item.Name, item.Price, item.StockQuantity, item.ID)
}

// UpdateImageKey stores the object key of the item's cover image.
func (r *ItemPostgres) UpdateImageKey(ctx context.Context, id int64, key string) error {
	const q = `UPDATE items SET image_key = $1 WHERE id = $2`
	return execOne(ctx, r.db, q, key, id)
}

func (r *ItemPostgres) list(ctx context.Context, q string, args ...any) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// execOne runs a statement that must affect exactly one row; zero rows maps to sql.ErrNoRows.
func execOne(ctx context.Context, db queryer, q string, args ...any) error {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const itemCols = `id, name, shade, brand, unit, reorder_level, expiry_date, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Shade, &it.Brand, &it.Unit, &it.ReorderLevel,
		&it.ExpiryDate, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repoPG) CreateItem(ctx context.Context, it *Item) error {
	it.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory_item (id, name, shade, brand, unit, reorder_level, expiry_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		it.ID, it.Name, it.Shade, it.Brand, it.Unit, it.ReorderLevel, it.ExpiryDate,
	)
	return err
}

func (r *repoPG) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+itemCols+` FROM inventory_item WHERE id = $1`, id))
}

func (r *repoPG) UpdateItem(ctx context.Context, it *Item) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inventory_item SET
			name = $2, shade = $3, brand = $4, unit = $5, reorder_level = $6, expiry_date = $7, updated_at = NOW()
		WHERE id = $1`,
		it.ID, it.Name, it.Shade, it.Brand, it.Unit, it.ReorderLevel, it.ExpiryDate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_item WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) ListItems(ctx context.Context, limit, offset int) ([]*Item, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_item`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+itemCols+` FROM inventory_item
		ORDER BY name, shade LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *repoPG) RecordMovement(ctx context.Context, mv *Movement) error {
	mv.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stock_movement (id, item_id, type, quantity, reason)
		VALUES ($1,$2,$3,$4,$5)`,
		mv.ID, mv.ItemID, mv.Type, mv.Quantity, mv.Reason,
	)
	return err
}

func (r *repoPG) ListMovements(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*Movement, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movement WHERE item_id = $1`, itemID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, item_id, type, quantity, reason, created_at FROM stock_movement
		WHERE item_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, itemID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var movements []*Movement
	for rows.Next() {
		var mv Movement
		if err := rows.Scan(&mv.ID, &mv.ItemID, &mv.Type, &mv.Quantity, &mv.Reason, &mv.CreatedAt); err != nil {
			return nil, 0, err
		}
		movements = append(movements, &mv)
	}
	return movements, total, rows.Err()
}

func (r *repoPG) CurrentStock(ctx context.Context, itemID uuid.UUID) (int, error) {
	var stock int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM stock_movement WHERE item_id = $1`, itemID,
	).Scan(&stock)
	return stock, err
}

func (r *repoPG) LowStock(ctx context.Context) ([]*ItemStock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+itemCols+`, COALESCE(m.stock, 0) AS stock
		FROM inventory_item i
		LEFT JOIN (
			SELECT item_id, SUM(quantity) AS stock FROM stock_movement GROUP BY item_id
		) m ON m.item_id = i.id
		WHERE COALESCE(m.stock, 0) <= i.reorder_level
		ORDER BY i.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ItemStock
	for rows.Next() {
		var it Item
		var stock int
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Shade, &it.Brand, &it.Unit, &it.ReorderLevel,
			&it.ExpiryDate, &it.CreatedAt, &it.UpdatedAt, &stock,
		); err != nil {
			return nil, err
		}
		result = append(result, &ItemStock{Item: &it, Stock: stock})
	}
	return result, rows.Err()
}

func (r *repoPG) ExpiringSoon(ctx context.Context, before time.Time) ([]*Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemCols+` FROM inventory_item
		WHERE expiry_date IS NOT NULL AND expiry_date <= $1 ORDER BY expiry_date`, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

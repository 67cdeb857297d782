package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lborres/inventrack/core"
)

func (a *Adapter) CreateSale(ctx context.Context, s *core.Sale) error {
	query := `INSERT INTO public.sales (product_id, product_name, unit_amount, date_processed, client_name, total_price, received_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	err := a.pool.QueryRow(ctx, query,
		s.ProductID, s.ProductName, s.UnitAmount, s.DateProcessed, s.ClientName, s.TotalPrice, s.ReceivedAt,
	).Scan(&s.ID)
	return storeError(err)
}

func (a *Adapter) ListCategories(ctx context.Context) ([]*core.Category, error) {
	rows, err := a.pool.Query(ctx, `SELECT id, name, type FROM public.categories ORDER BY id`)
	if err != nil {
		return nil, storeError(err)
	}
	return collect(rows, func(row pgx.Row) (*core.Category, error) {
		c := &core.Category{}
		if err := row.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		return c, nil
	})
}

package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lborres/inventrack/core"
)

const productColumns = `id, name, wholesale_price_per_unit, retail_price_per_unit,
	quantity_office_1, quantity_office_8, quantity_home, display_shelf, reorder_point,
	short_description, long_description, sku, supplier_id, category_id, note, image_url,
	measurement_unit, status, created_at, updated_at`

func scanProduct(row pgx.Row) (*core.Product, error) {
	p := &core.Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.WholesalePricePerUnit, &p.RetailPricePerUnit,
		&p.QuantityOffice1, &p.QuantityOffice8, &p.QuantityHome, &p.DisplayShelf, &p.ReorderPoint,
		&p.ShortDescription, &p.LongDescription, &p.SKU, &p.SupplierID, &p.CategoryID, &p.Note, &p.ImageURL,
		&p.MeasurementUnit, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (a *Adapter) ListProducts(ctx context.Context) ([]*core.Product, error) {
	rows, err := a.pool.Query(ctx, `SELECT `+productColumns+` FROM public.products ORDER BY id`)
	if err != nil {
		return nil, storeError(err)
	}
	return collect(rows, scanProduct)
}

func (a *Adapter) GetProduct(ctx context.Context, id int64) (*core.Product, error) {
	p, err := scanProduct(a.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM public.products WHERE id = $1`, id))
	if err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

func (a *Adapter) CreateProduct(ctx context.Context, p *core.Product) error {
	query := `INSERT INTO public.products (name, wholesale_price_per_unit, retail_price_per_unit,
	              quantity_office_1, quantity_office_8, quantity_home, display_shelf, reorder_point,
	              short_description, long_description, sku, supplier_id, category_id, note, image_url,
	              measurement_unit, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	          RETURNING id, created_at, updated_at`

	err := a.pool.QueryRow(ctx, query,
		p.Name, p.WholesalePricePerUnit, p.RetailPricePerUnit,
		p.QuantityOffice1, p.QuantityOffice8, p.QuantityHome, p.DisplayShelf, p.ReorderPoint,
		p.ShortDescription, p.LongDescription, p.SKU, p.SupplierID, p.CategoryID, p.Note, p.ImageURL,
		p.MeasurementUnit, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	return storeError(err)
}

func (a *Adapter) UpdateProduct(ctx context.Context, id int64, patch *core.ProductPatch) (*core.Product, error) {
	query, args := updateSQL("public.products", "id", productColumns, patch.Assignments())
	p, err := scanProduct(a.pool.QueryRow(ctx, query, append(args, id)...))
	if err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

func (a *Adapter) DeleteProduct(ctx context.Context, id int64) error {
	return deleteRow(ctx, a.pool, "public.products", "id", id)
}

package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lborres/inventrack/core"
)

const supplierColumns = `id, name, contact_person, email, phone, address, created_at, updated_at`

func scanSupplier(row pgx.Row) (*core.Supplier, error) {
	s := &core.Supplier{}
	err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *Adapter) ListSuppliers(ctx context.Context) ([]*core.Supplier, error) {
	rows, err := a.pool.Query(ctx, `SELECT `+supplierColumns+` FROM public.suppliers ORDER BY id`)
	if err != nil {
		return nil, storeError(err)
	}
	return collect(rows, scanSupplier)
}

// ListSupplierSummaries computes the stock totals of every supplier in one
// grouped join. Suppliers without products get zero totals.
func (a *Adapter) ListSupplierSummaries(ctx context.Context) ([]*core.SupplierSummary, error) {
	query := `SELECT s.id, s.name, s.contact_person, s.email, s.phone, s.address, s.created_at, s.updated_at,
	                 COALESCE(SUM(p.wholesale_price_per_unit * (p.quantity_office_1 + p.quantity_office_8 + p.quantity_home + p.display_shelf)), 0)::float8,
	                 COALESCE(SUM(p.retail_price_per_unit * (p.quantity_office_1 + p.quantity_office_8 + p.quantity_home + p.display_shelf)), 0)::float8,
	                 COALESCE(SUM(p.quantity_office_1 + p.quantity_office_8 + p.quantity_home + p.display_shelf), 0)::bigint
	          FROM public.suppliers s
	          LEFT JOIN public.products p ON p.supplier_id = s.id
	          GROUP BY s.id
	          ORDER BY s.id`

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, storeError(err)
	}
	return collect(rows, func(row pgx.Row) (*core.SupplierSummary, error) {
		s := &core.SupplierSummary{Supplier: &core.Supplier{}}
		err := row.Scan(
			&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt,
			&s.StockWholesaleValue, &s.StockRetailValue, &s.TotalQuantity,
		)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

func (a *Adapter) GetSupplier(ctx context.Context, id int64) (*core.Supplier, error) {
	s, err := scanSupplier(a.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM public.suppliers WHERE id = $1`, id))
	if err != nil {
		return nil, storeError(err)
	}
	return s, nil
}

func (a *Adapter) CreateSupplier(ctx context.Context, s *core.Supplier) error {
	query := `INSERT INTO public.suppliers (name, contact_person, email, phone, address)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`

	err := a.pool.QueryRow(ctx, query, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return storeError(err)
}

func (a *Adapter) UpdateSupplier(ctx context.Context, id int64, patch *core.SupplierPatch) (*core.Supplier, error) {
	query, args := updateSQL("public.suppliers", "id", supplierColumns, patch.Assignments())
	s, err := scanSupplier(a.pool.QueryRow(ctx, query, append(args, id)...))
	if err != nil {
		return nil, storeError(err)
	}
	return s, nil
}

func (a *Adapter) DeleteSupplier(ctx context.Context, id int64) error {
	return deleteRow(ctx, a.pool, "public.suppliers", "id", id)
}

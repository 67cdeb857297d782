package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lborres/inventrack/core"
)

const profileColumns = `id::text, user_id::text, first_name, last_name, full_name, email, cell_number,
	profile_image_url, role, created_at, updated_at`

func scanProfile(row pgx.Row) (*core.Profile, error) {
	p := &core.Profile{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.FullName, &p.Email, &p.CellNumber,
		&p.ProfileImageURL, &p.Role, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (a *Adapter) ListProfiles(ctx context.Context) ([]*core.Profile, error) {
	rows, err := a.pool.Query(ctx, `SELECT `+profileColumns+` FROM public.profiles ORDER BY created_at`)
	if err != nil {
		return nil, storeError(err)
	}
	return collect(rows, scanProfile)
}

func (a *Adapter) GetProfile(ctx context.Context, id string) (*core.Profile, error) {
	p, err := scanProfile(a.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM public.profiles WHERE id = $1`, id))
	if err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

func (a *Adapter) GetProfileByUserID(ctx context.Context, userID string) (*core.Profile, error) {
	p, err := scanProfile(a.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM public.profiles WHERE user_id = $1`, userID))
	if err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

func (a *Adapter) CreateProfile(ctx context.Context, p *core.Profile) error {
	return createProfile(ctx, a.pool, p)
}

func createProfile(ctx context.Context, q querier, p *core.Profile) error {
	query := `INSERT INTO public.profiles (user_id, first_name, last_name, full_name, email, cell_number, profile_image_url, role)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id::text, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		p.UserID, p.FirstName, p.LastName, p.FullName, p.Email, p.CellNumber, p.ProfileImageURL, p.Role,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return storeError(err)
}

func (a *Adapter) UpdateProfile(ctx context.Context, id string, patch *core.ProfilePatch) (*core.Profile, error) {
	query, args := updateSQL("public.profiles", "id", profileColumns, patch.Assignments())
	p, err := scanProfile(a.pool.QueryRow(ctx, query, append(args, id)...))
	if err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

func (a *Adapter) DeleteProfile(ctx context.Context, id string) error {
	return deleteRow(ctx, a.pool, "public.profiles", "id", id)
}

func (a *Adapter) SetProfileImage(ctx context.Context, userID, url string) (*core.Profile, error) {
	query := `UPDATE public.profiles SET profile_image_url = $1, updated_at = now()
	          WHERE user_id = $2
	          RETURNING ` + profileColumns

	p, err := scanProfile(a.pool.QueryRow(ctx, query, url, userID))
	if err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

package pgx

import (
	"context"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lborres/inventrack/core"
)

// ObjectsPath is where the HTTP layer serves objects of a TableBucket.
const ObjectsPath = "/api/storage/objects/"

// TableBucket keeps uploaded images in the storage_objects table and lets
// the API serve them back.
type TableBucket struct {
	pool    *pgxpool.Pool
	baseURL string
}

var (
	_ core.ImageBucket  = (*TableBucket)(nil)
	_ core.ObjectReader = (*TableBucket)(nil)
)

// NewTableBucket returns a bucket whose public URLs start with baseURL,
// e.g. https://api.example.com. An empty baseURL yields relative URLs.
func NewTableBucket(pool *pgxpool.Pool, baseURL string) *TableBucket {
	return &TableBucket{pool: pool, baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *TableBucket) Upload(ctx context.Context, name, contentType string, data []byte) error {
	query := `INSERT INTO public.storage_objects (name, content_type, data)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (name) DO UPDATE
	          SET content_type = EXCLUDED.content_type, data = EXCLUDED.data, updated_at = now()`

	_, err := b.pool.Exec(ctx, query, name, contentType, data)
	return storeError(err)
}

func (b *TableBucket) PublicURL(name string) string {
	return b.baseURL + ObjectsPath + url.PathEscape(name)
}

func (b *TableBucket) GetObject(ctx context.Context, name string) (*core.StoredObject, error) {
	obj := &core.StoredObject{Name: name}
	err := b.pool.QueryRow(ctx, `SELECT content_type, data FROM public.storage_objects WHERE name = $1`, name).
		Scan(&obj.ContentType, &obj.Data)
	if err != nil {
		return nil, storeError(err)
	}
	return obj, nil
}

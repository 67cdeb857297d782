package supabase

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/lborres/inventrack/core"
)

const DefaultBucket = "profile-images"

// Bucket stores images in a public Supabase Storage bucket.
type Bucket struct {
	client     *Client
	serviceKey string
	name       string
}

var _ core.ImageBucket = (*Bucket)(nil)

// NewBucket returns the storage bucket. Writes use serviceKey, falling back
// to the client's key when it is empty.
func NewBucket(client *Client, serviceKey, name string) *Bucket {
	if name == "" {
		name = DefaultBucket
	}
	return &Bucket{client: client, serviceKey: serviceKey, name: name}
}

// Upload writes the object, replacing any object with the same name.
func (b *Bucket) Upload(ctx context.Context, name, contentType string, data []byte) error {
	return b.client.do(ctx, request{
		method:      http.MethodPost,
		path:        "/storage/v1/object/" + b.name + "/" + url.PathEscape(name),
		key:         b.serviceKey,
		contentType: contentType,
		headers:     map[string]string{"x-upsert": "true"},
		body:        bytes.NewReader(data),
	}, nil)
}

func (b *Bucket) PublicURL(name string) string {
	return b.client.baseURL + "/storage/v1/object/public/" + b.name + "/" + url.PathEscape(name)
}

package core

import (
	"context"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// ProductStorage defines product-related database operations
type ProductStorage interface {
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, id int64, patch *ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// SupplierStorage defines supplier-related database operations
type SupplierStorage interface {
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*Supplier, error)
	CreateSupplier(ctx context.Context, s *Supplier) error
	UpdateSupplier(ctx context.Context, id int64, patch *SupplierPatch) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
}

// SupplierAggregator is implemented by stores that can compute supplier
// stock totals themselves.
type SupplierAggregator interface {
	ListSupplierSummaries(ctx context.Context) ([]*SupplierSummary, error)
}

// ProfileStorage defines profile-related database operations
type ProfileStorage interface {
	ListProfiles(ctx context.Context) ([]*Profile, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	GetProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	CreateProfile(ctx context.Context, p *Profile) error
	UpdateProfile(ctx context.Context, id string, patch *ProfilePatch) (*Profile, error)
	DeleteProfile(ctx context.Context, id string) error
	SetProfileImage(ctx context.Context, userID, url string) (*Profile, error)
}

// SaleStorage persists webhook sale notifications
type SaleStorage interface {
	CreateSale(ctx context.Context, s *Sale) error
}

// CategoryStorage defines category lookups
type CategoryStorage interface {
	ListCategories(ctx context.Context) ([]*Category, error)
}

type StorageAdapter interface {
	ProductStorage
	SupplierStorage
	ProfileStorage
	SaleStorage
	CategoryStorage
}

// ============================================
// AUTH PROVIDER PORT
// ============================================

// AccountProvider creates and authenticates accounts
type AccountProvider interface {
	CreateAccount(ctx context.Context, input SignUpInput) (*Account, error)
	Authenticate(ctx context.Context, email, password string) (*Account, error)
}

// TransactionalSignUp is implemented by providers that can create the
// account and its profile atomically. The profile's UserID is filled in.
type TransactionalSignUp interface {
	CreateAccountWithProfile(ctx context.Context, input SignUpInput, profile *Profile) (*Account, error)
}

// ============================================
// OBJECT STORAGE PORT
// ============================================

// ImageBucket stores uploaded images. Upload overwrites an existing object.
type ImageBucket interface {
	Upload(ctx context.Context, name, contentType string, data []byte) error
	PublicURL(name string) string
}

// ObjectReader is implemented by buckets that serve their own objects.
type ObjectReader interface {
	GetObject(ctx context.Context, name string) (*StoredObject, error)
}

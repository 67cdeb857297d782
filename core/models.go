package core

import "time"

// Account represents an identity record owned by the auth provider
//
// This is the "credential" - how someone proves who they are
type Account struct {
	ID               string          `json:"id"`
	Email            string          `json:"email"`
	EmailConfirmedAt *time.Time      `json:"email_confirmed_at"`
	Metadata         AccountMetadata `json:"user_metadata"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AccountMetadata is the signup data stored alongside the account by the provider.
type AccountMetadata struct {
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	CellNumber string `json:"cell_number,omitempty"`
}

func (a *Account) EmailConfirmed() bool {
	return a.EmailConfirmedAt != nil && !a.EmailConfirmedAt.IsZero()
}

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Profile is the application-level user record, one per Account
//
// This is the "identity" - who someone is inside the inventory
type Profile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	CellNumber      string    `json:"cell_number"`
	ProfileImageURL *string   `json:"profile_image_url"`
	Role            Role      `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type StockStatus string

const (
	StockOut    StockStatus = "out"
	StockLow    StockStatus = "low"
	StockNormal StockStatus = "normal"
)

// Human readable stock levels returned next to every product.
const (
	LevelOutOfStock = "Out of Stock"
	LevelLowStock   = "Low Stock"
	LevelInStock    = "In Stock"
)

type Product struct {
	ID                    int64       `json:"id"`
	Name                  string      `json:"name"`
	WholesalePricePerUnit float64     `json:"wholesale_price_per_unit"`
	RetailPricePerUnit    float64     `json:"retail_price_per_unit"`
	QuantityOffice1       int         `json:"quantity_office_1"`
	QuantityOffice8       int         `json:"quantity_office_8"`
	QuantityHome          int         `json:"quantity_home"`
	DisplayShelf          int         `json:"display_shelf"`
	ReorderPoint          int         `json:"reorder_point"`
	ShortDescription      *string     `json:"short_description"`
	LongDescription       *string     `json:"long_description"`
	SKU                   *string     `json:"sku"`
	SupplierID            *int64      `json:"supplier_id"`
	CategoryID            *int64      `json:"category_id"`
	Note                  *string     `json:"note"`
	ImageURL              *string     `json:"image_url"`
	MeasurementUnit       *string     `json:"measurement_unit"`
	Status                StockStatus `json:"status"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// TotalQuantity sums the stock held at every location.
func (p *Product) TotalQuantity() int {
	return p.QuantityOffice1 + p.QuantityOffice8 + p.QuantityHome + p.DisplayShelf
}

// DeriveStatus classifies the current stock against the reorder point.
func (p *Product) DeriveStatus() StockStatus {
	total := p.TotalQuantity()
	switch {
	case total == 0:
		return StockOut
	case total <= p.ReorderPoint:
		return StockLow
	default:
		return StockNormal
	}
}

func (p *Product) StockLevel() string {
	switch p.DeriveStatus() {
	case StockOut:
		return LevelOutOfStock
	case StockLow:
		return LevelLowStock
	default:
		return LevelInStock
	}
}

// ProductView is the model returned to clients
type ProductView struct {
	*Product
	TotalQuantity int    `json:"total_quantity"`
	StockLevel    string `json:"stock_level"`
}

func NewProductView(p *Product) *ProductView {
	return &ProductView{
		Product:       p,
		TotalQuantity: p.TotalQuantity(),
		StockLevel:    p.StockLevel(),
	}
}

type Supplier struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person"`
	Email         *string   `json:"email"`
	Phone         *string   `json:"phone"`
	Address       *string   `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SupplierSummary is a supplier with stock totals over the products referencing it.
type SupplierSummary struct {
	*Supplier
	StockWholesaleValue float64 `json:"stock_wholesale_value"`
	StockRetailValue    float64 `json:"stock_retail_value"`
	TotalQuantity       int     `json:"total_quantity"`
}

type CategoryType string

const (
	CategoryRetail  CategoryType = "retail"
	CategoryService CategoryType = "service"
)

type Category struct {
	ID   int64        `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

// Sale is a product-sale notification received through the webhook, stored verbatim.
type Sale struct {
	ID            int64     `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	UnitAmount    float64   `json:"unit_amount"`
	DateProcessed string    `json:"date_processed"`
	ClientName    string    `json:"client_name"`
	TotalPrice    float64   `json:"total_price"`
	ReceivedAt    time.Time `json:"received_at"`
}

// StoredObject is a file held by an ImageBucket.
type StoredObject struct {
	Name        string
	ContentType string
	Data        []byte
}

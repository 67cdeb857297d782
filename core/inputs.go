package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SignUpInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	FirstName  string `json:"firstName" validate:"required,max=50"`
	LastName   string `json:"lastName" validate:"required,max=50"`
	CellNumber string `json:"cellNumber" validate:"required,numeric,len=10"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignUpResult struct {
	User    *Account `json:"user"`
	Profile *Profile `json:"profile"`
}

type LoginResult struct {
	User      *Account  `json:"user"`
	Profile   *Profile  `json:"profile"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Assignment is a single column update produced by a patch.
type Assignment struct {
	Column string
	Value  any
}

type ProductInput struct {
	Name                  string       `json:"name" validate:"required,max=255"`
	WholesalePricePerUnit *float64     `json:"wholesale_price_per_unit" validate:"required,gte=0"`
	RetailPricePerUnit    *float64     `json:"retail_price_per_unit" validate:"required,gte=0"`
	QuantityOffice1       *int         `json:"quantity_office_1" validate:"required,gte=0"`
	QuantityOffice8       *int         `json:"quantity_office_8" validate:"required,gte=0"`
	QuantityHome          *int         `json:"quantity_home" validate:"required,gte=0"`
	DisplayShelf          *int         `json:"display_shelf" validate:"omitempty,gte=0"`
	ReorderPoint          *int         `json:"reorder_point" validate:"required,gte=0"`
	ShortDescription      *string      `json:"short_description" validate:"omitempty,max=500"`
	LongDescription       *string      `json:"long_description" validate:"omitempty,max=2000"`
	SKU                   *string      `json:"sku" validate:"omitempty,max=50"`
	SupplierID            *int64       `json:"supplier_id" validate:"omitempty,gt=0"`
	CategoryID            *int64       `json:"category_id" validate:"omitempty,gt=0"`
	Note                  *string      `json:"note" validate:"omitempty,max=1000"`
	ImageURL              *string      `json:"image_url" validate:"omitempty,url,max=500"`
	MeasurementUnit       *string      `json:"measurement_unit" validate:"omitempty,max=50"`
	Status                *StockStatus `json:"status" validate:"omitempty,oneof=out low normal"`
}

// Product builds the record to insert. Status is derived when not supplied.
func (in *ProductInput) Product() *Product {
	p := &Product{
		Name:                  in.Name,
		WholesalePricePerUnit: deref(in.WholesalePricePerUnit),
		RetailPricePerUnit:    deref(in.RetailPricePerUnit),
		QuantityOffice1:       deref(in.QuantityOffice1),
		QuantityOffice8:       deref(in.QuantityOffice8),
		QuantityHome:          deref(in.QuantityHome),
		DisplayShelf:          deref(in.DisplayShelf),
		ReorderPoint:          deref(in.ReorderPoint),
		ShortDescription:      in.ShortDescription,
		LongDescription:       in.LongDescription,
		SKU:                   in.SKU,
		SupplierID:            in.SupplierID,
		CategoryID:            in.CategoryID,
		Note:                  in.Note,
		ImageURL:              in.ImageURL,
		MeasurementUnit:       in.MeasurementUnit,
	}
	if in.Status != nil {
		p.Status = *in.Status
	} else {
		p.Status = p.DeriveStatus()
	}
	return p
}

// ProductPatch carries a partial update. Nil fields are left unchanged.
type ProductPatch struct {
	Name                  *string      `json:"name" validate:"omitempty,max=255"`
	WholesalePricePerUnit *float64     `json:"wholesale_price_per_unit" validate:"omitempty,gte=0"`
	RetailPricePerUnit    *float64     `json:"retail_price_per_unit" validate:"omitempty,gte=0"`
	QuantityOffice1       *int         `json:"quantity_office_1" validate:"omitempty,gte=0"`
	QuantityOffice8       *int         `json:"quantity_office_8" validate:"omitempty,gte=0"`
	QuantityHome          *int         `json:"quantity_home" validate:"omitempty,gte=0"`
	DisplayShelf          *int         `json:"display_shelf" validate:"omitempty,gte=0"`
	ReorderPoint          *int         `json:"reorder_point" validate:"omitempty,gte=0"`
	ShortDescription      *string      `json:"short_description" validate:"omitempty,max=500"`
	LongDescription       *string      `json:"long_description" validate:"omitempty,max=2000"`
	SKU                   *string      `json:"sku" validate:"omitempty,max=50"`
	SupplierID            *int64       `json:"supplier_id" validate:"omitempty,gt=0"`
	CategoryID            *int64       `json:"category_id" validate:"omitempty,gt=0"`
	Note                  *string      `json:"note" validate:"omitempty,max=1000"`
	ImageURL              *string      `json:"image_url" validate:"omitempty,url,max=500"`
	MeasurementUnit       *string      `json:"measurement_unit" validate:"omitempty,max=50"`
	Status                *StockStatus `json:"status" validate:"omitempty,oneof=out low normal"`
}

func (in *ProductPatch) Assignments() []Assignment {
	var out []Assignment
	out = appendSet(out, "name", in.Name)
	out = appendSet(out, "wholesale_price_per_unit", in.WholesalePricePerUnit)
	out = appendSet(out, "retail_price_per_unit", in.RetailPricePerUnit)
	out = appendSet(out, "quantity_office_1", in.QuantityOffice1)
	out = appendSet(out, "quantity_office_8", in.QuantityOffice8)
	out = appendSet(out, "quantity_home", in.QuantityHome)
	out = appendSet(out, "display_shelf", in.DisplayShelf)
	out = appendSet(out, "reorder_point", in.ReorderPoint)
	out = appendSet(out, "short_description", in.ShortDescription)
	out = appendSet(out, "long_description", in.LongDescription)
	out = appendSet(out, "sku", in.SKU)
	out = appendSet(out, "supplier_id", in.SupplierID)
	out = appendSet(out, "category_id", in.CategoryID)
	out = appendSet(out, "note", in.Note)
	out = appendSet(out, "image_url", in.ImageURL)
	out = appendSet(out, "measurement_unit", in.MeasurementUnit)
	out = appendSet(out, "status", in.Status)
	return out
}

// Apply copies the set fields onto p.
func (in *ProductPatch) Apply(p *Product) {
	setIf(&p.Name, in.Name)
	setIf(&p.WholesalePricePerUnit, in.WholesalePricePerUnit)
	setIf(&p.RetailPricePerUnit, in.RetailPricePerUnit)
	setIf(&p.QuantityOffice1, in.QuantityOffice1)
	setIf(&p.QuantityOffice8, in.QuantityOffice8)
	setIf(&p.QuantityHome, in.QuantityHome)
	setIf(&p.DisplayShelf, in.DisplayShelf)
	setIf(&p.ReorderPoint, in.ReorderPoint)
	setPtrIf(&p.ShortDescription, in.ShortDescription)
	setPtrIf(&p.LongDescription, in.LongDescription)
	setPtrIf(&p.SKU, in.SKU)
	setPtrIf(&p.SupplierID, in.SupplierID)
	setPtrIf(&p.CategoryID, in.CategoryID)
	setPtrIf(&p.Note, in.Note)
	setPtrIf(&p.ImageURL, in.ImageURL)
	setPtrIf(&p.MeasurementUnit, in.MeasurementUnit)
	setIf(&p.Status, in.Status)
}

type SupplierInput struct {
	Name          string  `json:"name" validate:"required,max=255"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
}

func (in *SupplierInput) Supplier() *Supplier {
	return &Supplier{
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
	}
}

type SupplierPatch struct {
	Name          *string `json:"name" validate:"omitempty,max=255"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	Email         *string `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
}

func (in *SupplierPatch) Assignments() []Assignment {
	var out []Assignment
	out = appendSet(out, "name", in.Name)
	out = appendSet(out, "contact_person", in.ContactPerson)
	out = appendSet(out, "email", in.Email)
	out = appendSet(out, "phone", in.Phone)
	out = appendSet(out, "address", in.Address)
	return out
}

func (in *SupplierPatch) Apply(s *Supplier) {
	setIf(&s.Name, in.Name)
	setPtrIf(&s.ContactPerson, in.ContactPerson)
	setPtrIf(&s.Email, in.Email)
	setPtrIf(&s.Phone, in.Phone)
	setPtrIf(&s.Address, in.Address)
}

type ProfileInput struct {
	UserID          string  `json:"user_id" validate:"required,uuid"`
	FirstName       string  `json:"first_name" validate:"omitempty,max=50"`
	LastName        string  `json:"last_name" validate:"omitempty,max=50"`
	FullName        string  `json:"full_name" validate:"required,max=255"`
	Email           string  `json:"email" validate:"omitempty,email,max=255"`
	CellNumber      string  `json:"cell_number" validate:"omitempty,max=20"`
	ProfileImageURL *string `json:"profile_image_url" validate:"omitempty,url,max=500"`
	Role            Role    `json:"role" validate:"omitempty,oneof=admin manager staff"`
}

func (in *ProfileInput) Profile() *Profile {
	role := in.Role
	if role == "" {
		role = RoleStaff
	}
	return &Profile{
		UserID:          in.UserID,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		FullName:        in.FullName,
		Email:           in.Email,
		CellNumber:      in.CellNumber,
		ProfileImageURL: in.ProfileImageURL,
		Role:            role,
	}
}

type ProfilePatch struct {
	FirstName       *string `json:"first_name" validate:"omitempty,max=50"`
	LastName        *string `json:"last_name" validate:"omitempty,max=50"`
	FullName        *string `json:"full_name" validate:"omitempty,max=255"`
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	CellNumber      *string `json:"cell_number" validate:"omitempty,max=20"`
	ProfileImageURL *string `json:"profile_image_url" validate:"omitempty,url,max=500"`
	Role            *Role   `json:"role" validate:"omitempty,oneof=admin manager staff"`
}

func (in *ProfilePatch) Assignments() []Assignment {
	var out []Assignment
	out = appendSet(out, "first_name", in.FirstName)
	out = appendSet(out, "last_name", in.LastName)
	out = appendSet(out, "full_name", in.FullName)
	out = appendSet(out, "email", in.Email)
	out = appendSet(out, "cell_number", in.CellNumber)
	out = appendSet(out, "profile_image_url", in.ProfileImageURL)
	out = appendSet(out, "role", in.Role)
	return out
}

func (in *ProfilePatch) Apply(p *Profile) {
	setIf(&p.FirstName, in.FirstName)
	setIf(&p.LastName, in.LastName)
	setIf(&p.FullName, in.FullName)
	setIf(&p.Email, in.Email)
	setIf(&p.CellNumber, in.CellNumber)
	setPtrIf(&p.ProfileImageURL, in.ProfileImageURL)
	setIf(&p.Role, in.Role)
}

// FlexString accepts a JSON string or number. Sale notifications send product ids as either.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// SaleInput is the webhook payload. Every field is required.
type SaleInput struct {
	ProductID     FlexString `json:"product_id"`
	ProductName   string     `json:"product_name"`
	UnitAmount    *float64   `json:"unit_amount"`
	DateProcessed string     `json:"date_processed"`
	ClientName    string     `json:"client_name"`
	TotalPrice    *float64   `json:"total_price"`
}

func (in *SaleInput) Complete() bool {
	return strings.TrimSpace(string(in.ProductID)) != "" &&
		strings.TrimSpace(in.ProductName) != "" &&
		in.UnitAmount != nil &&
		strings.TrimSpace(in.DateProcessed) != "" &&
		strings.TrimSpace(in.ClientName) != "" &&
		in.TotalPrice != nil
}

func (in *SaleInput) Sale() *Sale {
	return &Sale{
		ProductID:     string(in.ProductID),
		ProductName:   in.ProductName,
		UnitAmount:    deref(in.UnitAmount),
		DateProcessed: in.DateProcessed,
		ClientName:    in.ClientName,
		TotalPrice:    deref(in.TotalPrice),
	}
}

// ParseID parses a positive integer resource id.
func ParseID(raw, resource string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, InvalidID(resource)
	}
	return id, nil
}

// ParseUUID validates a uuid resource id and returns its canonical form.
func ParseUUID(raw, resource string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", InvalidID(resource)
	}
	return id.String(), nil
}

func appendSet[T any](out []Assignment, column string, v *T) []Assignment {
	if v == nil {
		return out
	}
	return append(out, Assignment{Column: column, Value: *v})
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setPtrIf[T any](dst **T, v *T) {
	if v != nil {
		val := *v
		*dst = &val
	}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

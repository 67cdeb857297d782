package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lborres/inventrack/core"
)

func noRows(what string) error {
	return &core.StoreError{Code: core.CodeNoRows, Message: what + " not found"}
}

// FakeStore is a test-only fake implementing core.StorageAdapter.
// Rows live in maps; the exported error fields inject failures. Missing
// rows and duplicate profiles fail with the same codes the real stores use.
type FakeStore struct {
	mu sync.RWMutex

	products   map[int64]*core.Product
	suppliers  map[int64]*core.Supplier
	profiles   map[string]*core.Profile
	sales      []*core.Sale
	categories []*core.Category
	nextID     int64

	ListErr          error
	GetErr           error
	CreateErr        error
	UpdateErr        error
	DeleteErr        error
	CreateProfileErr error
	CreateSaleErr    error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		products:  make(map[int64]*core.Product),
		suppliers: make(map[int64]*core.Supplier),
		profiles:  make(map[string]*core.Profile),
	}
}

func (f *FakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

// Products

func (f *FakeStore) ListProducts(ctx context.Context) ([]*core.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]*core.Product, 0, len(f.products))
	for _, p := range f.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeStore) GetProduct(ctx context.Context, id int64) (*core.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	p, ok := f.products[id]
	if !ok {
		return nil, noRows("product")
	}
	cp := *p
	return &cp, nil
}

func (f *FakeStore) CreateProduct(ctx context.Context, p *core.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return f.CreateErr
	}
	p.ID = f.id()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *FakeStore) UpdateProduct(ctx context.Context, id int64, patch *core.ProductPatch) (*core.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	p, ok := f.products[id]
	if !ok {
		return nil, noRows("product")
	}
	patch.Apply(p)
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (f *FakeStore) DeleteProduct(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.products[id]; !ok {
		return noRows("product")
	}
	delete(f.products, id)
	return nil
}

// Suppliers

func (f *FakeStore) ListSuppliers(ctx context.Context) ([]*core.Supplier, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]*core.Supplier, 0, len(f.suppliers))
	for _, s := range f.suppliers {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeStore) GetSupplier(ctx context.Context, id int64) (*core.Supplier, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	s, ok := f.suppliers[id]
	if !ok {
		return nil, noRows("supplier")
	}
	cp := *s
	return &cp, nil
}

func (f *FakeStore) CreateSupplier(ctx context.Context, s *core.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return f.CreateErr
	}
	s.ID = f.id()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	f.suppliers[s.ID] = &cp
	return nil
}

func (f *FakeStore) UpdateSupplier(ctx context.Context, id int64, patch *core.SupplierPatch) (*core.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	s, ok := f.suppliers[id]
	if !ok {
		return nil, noRows("supplier")
	}
	patch.Apply(s)
	s.UpdatedAt = time.Now().UTC()
	cp := *s
	return &cp, nil
}

func (f *FakeStore) DeleteSupplier(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.suppliers[id]; !ok {
		return noRows("supplier")
	}
	delete(f.suppliers, id)
	return nil
}

// Profiles

func (f *FakeStore) ListProfiles(ctx context.Context) ([]*core.Profile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]*core.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *FakeStore) GetProfile(ctx context.Context, id string) (*core.Profile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, noRows("profile")
	}
	cp := *p
	return &cp, nil
}

func (f *FakeStore) GetProfileByUserID(ctx context.Context, userID string) (*core.Profile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	if p := f.profileByUser(userID); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, noRows("profile")
}

func (f *FakeStore) profileByUser(userID string) *core.Profile {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (f *FakeStore) CreateProfile(ctx context.Context, p *core.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateProfileErr != nil {
		return f.CreateProfileErr
	}
	if f.profileByUser(p.UserID) != nil {
		return &core.StoreError{Code: core.CodeUniqueViolation, Message: "duplicate key value violates unique constraint"}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *FakeStore) UpdateProfile(ctx context.Context, id string, patch *core.ProfilePatch) (*core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, noRows("profile")
	}
	patch.Apply(p)
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (f *FakeStore) DeleteProfile(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.profiles[id]; !ok {
		return noRows("profile")
	}
	delete(f.profiles, id)
	return nil
}

func (f *FakeStore) SetProfileImage(ctx context.Context, userID, url string) (*core.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	p := f.profileByUser(userID)
	if p == nil {
		return nil, noRows("profile")
	}
	p.ProfileImageURL = &url
	cp := *p
	return &cp, nil
}

// ProfileCount returns the number of stored profiles.
func (f *FakeStore) ProfileCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.profiles)
}

// Sales

func (f *FakeStore) CreateSale(ctx context.Context, s *core.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateSaleErr != nil {
		return f.CreateSaleErr
	}
	s.ID = f.id()
	cp := *s
	f.sales = append(f.sales, &cp)
	return nil
}

// Sales returns a copy of every recorded sale.
func (f *FakeStore) Sales() []*core.Sale {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*core.Sale, len(f.sales))
	copy(out, f.sales)
	return out
}

// Categories

func (f *FakeStore) ListCategories(ctx context.Context) ([]*core.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]*core.Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

func (f *FakeStore) AddCategory(c *core.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	f.categories = append(f.categories, c)
}

// FakeAggregatingStore is a FakeStore that also computes supplier totals
// itself, like a store with SQL aggregation.
type FakeAggregatingStore struct {
	*FakeStore
	AggregateCalls int
}

func NewFakeAggregatingStore() *FakeAggregatingStore {
	return &FakeAggregatingStore{FakeStore: NewFakeStore()}
}

func (f *FakeAggregatingStore) ListSupplierSummaries(ctx context.Context) ([]*core.SupplierSummary, error) {
	suppliers, err := f.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := f.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.AggregateCalls++
	f.mu.Unlock()

	out := make([]*core.SupplierSummary, 0, len(suppliers))
	for _, s := range suppliers {
		summary := &core.SupplierSummary{Supplier: s}
		for _, p := range products {
			if p.SupplierID == nil || *p.SupplierID != s.ID {
				continue
			}
			qty := p.QuantityOffice1 + p.QuantityOffice8 + p.QuantityHome + p.DisplayShelf
			summary.StockWholesaleValue += float64(qty) * p.WholesalePricePerUnit
			summary.StockRetailValue += float64(qty) * p.RetailPricePerUnit
			summary.TotalQuantity += qty
		}
		out = append(out, summary)
	}
	return out, nil
}

type fakeAccount struct {
	account  *core.Account
	password string
}

// FakeAccounts is a test-only fake implementing core.AccountProvider.
// Accounts are keyed by email; passwords are compared in plain text.
type FakeAccounts struct {
	mu       sync.RWMutex
	accounts map[string]*fakeAccount

	AutoConfirm bool
	CreateErr   error
	AuthErr     error
}

func NewFakeAccounts() *FakeAccounts {
	return &FakeAccounts{accounts: make(map[string]*fakeAccount)}
}

func (f *FakeAccounts) CreateAccount(ctx context.Context, input core.SignUpInput) (*core.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if _, exists := f.accounts[input.Email]; exists {
		return nil, &core.StoreError{Code: core.CodeUserExists, Message: "User already registered"}
	}

	account := &core.Account{
		ID:    uuid.NewString(),
		Email: input.Email,
		Metadata: core.AccountMetadata{
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			CellNumber: input.CellNumber,
		},
		CreatedAt: time.Now().UTC(),
	}
	if f.AutoConfirm {
		confirmed := account.CreatedAt
		account.EmailConfirmedAt = &confirmed
	}
	f.accounts[input.Email] = &fakeAccount{account: account, password: input.Password}
	cp := *account
	return &cp, nil
}

func (f *FakeAccounts) Authenticate(ctx context.Context, email, password string) (*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.AuthErr != nil {
		return nil, f.AuthErr
	}
	stored, ok := f.accounts[email]
	if !ok || stored.password != password {
		return nil, &core.StoreError{Code: core.CodeInvalidCredentials, Message: "Invalid login credentials"}
	}
	cp := *stored.account
	return &cp, nil
}

// Confirm marks the account's email as confirmed.
func (f *FakeAccounts) Confirm(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stored, ok := f.accounts[email]; ok {
		now := time.Now().UTC()
		stored.account.EmailConfirmedAt = &now
	}
}

// Count returns the number of accounts created.
func (f *FakeAccounts) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.accounts)
}

// FakeTransactionalAccounts creates the account and profile together and
// rolls the account back when the profile write fails.
type FakeTransactionalAccounts struct {
	*FakeAccounts
	Profiles core.ProfileStorage
}

func (f *FakeTransactionalAccounts) CreateAccountWithProfile(ctx context.Context, input core.SignUpInput, profile *core.Profile) (*core.Account, error) {
	account, err := f.CreateAccount(ctx, input)
	if err != nil {
		return nil, err
	}
	profile.UserID = account.ID
	if err := f.Profiles.CreateProfile(ctx, profile); err != nil {
		f.mu.Lock()
		delete(f.accounts, input.Email)
		f.mu.Unlock()
		return nil, err
	}
	return account, nil
}

// FakeBucket is a test-only fake implementing core.ImageBucket and
// core.ObjectReader.
type FakeBucket struct {
	mu      sync.RWMutex
	objects map[string]*core.StoredObject

	BaseURL   string
	UploadErr error
}

func NewFakeBucket() *FakeBucket {
	return &FakeBucket{
		objects: make(map[string]*core.StoredObject),
		BaseURL: "https://cdn.example.test/profile-images",
	}
}

func (f *FakeBucket) Upload(ctx context.Context, name, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UploadErr != nil {
		return f.UploadErr
	}
	f.objects[name] = &core.StoredObject{Name: name, ContentType: contentType, Data: data}
	return nil
}

func (f *FakeBucket) PublicURL(name string) string {
	return f.BaseURL + "/" + name
}

func (f *FakeBucket) GetObject(ctx context.Context, name string) (*core.StoredObject, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	obj, ok := f.objects[name]
	if !ok {
		return nil, noRows("object")
	}
	return obj, nil
}

// Objects returns the names of every stored object.
func (f *FakeBucket) Objects() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.objects))
	for name := range f.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

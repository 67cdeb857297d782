package services

import (
	"fmt"
	"net/http"

	"github.com/lborres/inventrack/core"
)

// Operation ids the HTTP adapters bind handlers to.
const (
	OpSignUp             = "signUp"
	OpLogin              = "login"
	OpLogout             = "logout"
	OpValidateToken      = "validateToken"
	OpListProducts       = "listProducts"
	OpCreateProduct      = "createProduct"
	OpImportProducts     = "importProducts"
	OpExportProducts     = "exportProducts"
	OpGetProduct         = "getProduct"
	OpUpdateProduct      = "updateProduct"
	OpDeleteProduct      = "deleteProduct"
	OpListSuppliers      = "listSuppliers"
	OpCreateSupplier     = "createSupplier"
	OpGetSupplier        = "getSupplier"
	OpUpdateSupplier     = "updateSupplier"
	OpDeleteSupplier     = "deleteSupplier"
	OpListProfiles       = "listProfiles"
	OpCreateProfile      = "createProfile"
	OpGetProfile         = "getProfile"
	OpUpdateProfile      = "updateProfile"
	OpDeleteProfile      = "deleteProfile"
	OpListCategories     = "listCategories"
	OpReceiveWebhook     = "receiveWebhook"
	OpUploadProfileImage = "uploadProfileImage"
	OpGetProfileImage    = "getProfileImage"
	OpGetStoredObject    = "getStoredObject"
	OpHealthCheck        = "healthCheck"
)

func endpoint(method, path string, access core.Access, opID, desc string) core.Endpoint {
	return core.Endpoint{
		Path:   path,
		Method: method,
		Access: access,
		Metadata: core.EndpointMetadata{
			OperationID: opID,
			Description: desc,
		},
	}
}

// BaseEndpoints returns every route of the API in registration order.
// Static paths come before parameterized siblings so routers that match in
// order resolve /api/products/export before /api/products/:id.
func BaseEndpoints() []core.Endpoint {
	signUp := endpoint(http.MethodPost, "/api/user/signup", core.AccessPublic, OpSignUp, "Create an account and its profile")
	signUp.Metadata.RateLimited = true
	login := endpoint(http.MethodPost, "/api/user/login", core.AccessPublic, OpLogin, "Sign in with email and password")
	login.Metadata.RateLimited = true

	return []core.Endpoint{
		signUp,
		login,
		endpoint(http.MethodPost, "/api/user/logout", core.AccessPublic, OpLogout, "Clear the session cookie"),
		endpoint(http.MethodGet, "/api/user/validate-token", core.AccessPublic, OpValidateToken, "Check the session cookie"),

		endpoint(http.MethodGet, "/api/products", core.AccessSession, OpListProducts, "List products with stock levels"),
		endpoint(http.MethodPost, "/api/products", core.AccessSession, OpCreateProduct, "Create a product"),
		endpoint(http.MethodPost, "/api/products/import", core.AccessSession, OpImportProducts, "Create products from an xlsx workbook"),
		endpoint(http.MethodGet, "/api/products/export", core.AccessSession, OpExportProducts, "Download every product as an xlsx workbook"),
		endpoint(http.MethodGet, "/api/products/:id", core.AccessSession, OpGetProduct, "Get a product"),
		endpoint(http.MethodPut, "/api/products/:id", core.AccessSession, OpUpdateProduct, "Update a product"),
		endpoint(http.MethodDelete, "/api/products/:id", core.AccessSession, OpDeleteProduct, "Delete a product"),

		endpoint(http.MethodGet, "/api/suppliers", core.AccessSession, OpListSuppliers, "List suppliers with stock totals"),
		endpoint(http.MethodPost, "/api/suppliers", core.AccessSession, OpCreateSupplier, "Create a supplier"),
		endpoint(http.MethodGet, "/api/suppliers/:id", core.AccessSession, OpGetSupplier, "Get a supplier"),
		endpoint(http.MethodPut, "/api/suppliers/:id", core.AccessSession, OpUpdateSupplier, "Update a supplier"),
		endpoint(http.MethodDelete, "/api/suppliers/:id", core.AccessSession, OpDeleteSupplier, "Delete a supplier"),

		endpoint(http.MethodGet, "/api/profiles", core.AccessSession, OpListProfiles, "List profiles"),
		endpoint(http.MethodPost, "/api/profiles", core.AccessSession, OpCreateProfile, "Create a profile"),
		endpoint(http.MethodGet, "/api/profiles/:id", core.AccessSession, OpGetProfile, "Get a profile"),
		endpoint(http.MethodPut, "/api/profiles/:id", core.AccessSession, OpUpdateProfile, "Update a profile"),
		endpoint(http.MethodDelete, "/api/profiles/:id", core.AccessSession, OpDeleteProfile, "Delete a profile"),

		endpoint(http.MethodGet, "/api/categories", core.AccessSession, OpListCategories, "List product categories"),

		endpoint(http.MethodPost, "/api/webhook", core.AccessWebhook, OpReceiveWebhook, "Record a product sale notification"),

		endpoint(http.MethodGet, "/api/storage/objects/:name", core.AccessPublic, OpGetStoredObject, "Serve a stored image"),
		endpoint(http.MethodPost, "/api/storage/:userId/inventrack-profile-images", core.AccessSession, OpUploadProfileImage, "Upload a profile image"),
		endpoint(http.MethodGet, "/api/storage/:userId/inventrack-profile-images", core.AccessSession, OpGetProfileImage, "Get the profile image URL"),

		endpoint(http.MethodGet, "/healthz", core.AccessPublic, OpHealthCheck, "Liveness probe"),
	}
}

// EndpointRegistry holds the route catalog in registration order and
// rejects duplicate METHOD:PATH combinations and duplicate operation ids.
type EndpointRegistry struct {
	order  []*core.Endpoint
	byKey  map[string]*core.Endpoint
	byOpID map[string]*core.Endpoint
}

// NewEndpointRegistry creates a registry with BaseEndpoints registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		byKey:  make(map[string]*core.Endpoint),
		byOpID: make(map[string]*core.Endpoint),
	}
	if err := reg.Register(BaseEndpoints()); err != nil {
		panic(err)
	}
	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

// Register adds endpoints to the registry. If any of them conflicts with a
// registered endpoint or with another in the batch, nothing is registered.
func (r *EndpointRegistry) Register(endpoints []core.Endpoint) error {
	seen := make(map[string]bool, len(endpoints))
	seenOps := make(map[string]bool, len(endpoints))
	for i := range endpoints {
		ep := &endpoints[i]
		key := endpointKey(ep)
		if _, exists := r.byKey[key]; exists {
			return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
		}
		if seen[key] {
			return fmt.Errorf("duplicate endpoint in batch: %s %s", ep.Method, ep.Path)
		}
		seen[key] = true

		opID := ep.Metadata.OperationID
		if prev, exists := r.byOpID[opID]; exists {
			return fmt.Errorf("operation id %q already used by %s %s", opID, prev.Method, prev.Path)
		}
		if seenOps[opID] {
			return fmt.Errorf("duplicate operation id in batch: %q", opID)
		}
		seenOps[opID] = true
	}

	for i := range endpoints {
		ep := endpoints[i]
		r.byKey[endpointKey(&ep)] = &ep
		r.byOpID[ep.Metadata.OperationID] = &ep
		r.order = append(r.order, &ep)
	}
	return nil
}

// Endpoints returns every registered endpoint in registration order.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	out := make([]*core.Endpoint, len(r.order))
	copy(out, r.order)
	return out
}

// OperationIDs lists the operation ids of every registered endpoint.
func (r *EndpointRegistry) OperationIDs() []string {
	ids := make([]string, 0, len(r.order))
	for _, ep := range r.order {
		ids = append(ids, ep.Metadata.OperationID)
	}
	return ids
}

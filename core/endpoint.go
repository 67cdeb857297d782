package core

// Access describes what a request must present to reach an endpoint
type Access string

const (
	AccessPublic  Access = "public"
	AccessSession Access = "session" // valid session cookie or bearer token
	AccessWebhook Access = "webhook" // shared secret in x-webhook-token
)

// Endpoint is a framework-agnostic route description. HTTP adapters bind a
// handler to every endpoint by its operation id.
type Endpoint struct {
	Path     string
	Method   string
	Access   Access
	Metadata EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
	RateLimited bool
}

// ErrorBody is the JSON error shape returned to clients
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Kind    string            `json:"kind,omitempty"`
	Cause   string            `json:"cause,omitempty"`
	Stack   string            `json:"stack,omitempty"`
	Body    string            `json:"body,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
}

package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lborres/inventrack/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "anon-key", server.Client(), nil)
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func validSignUp() core.SignUpInput {
	return core.SignUpInput{
		Email:      "a@x.io",
		Password:   "secret1",
		FirstName:  "A",
		LastName:   "B",
		CellNumber: "5551234567",
	}
}

// Requirement: signup posts the credentials with the profile metadata and
// accepts both the user and the session response shapes.
func TestAccounts_CreateAccount(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantConfirmed bool
	}{
		{
			name: "confirmation pending returns the user",
			body: `{"id":"11111111-1111-1111-1111-111111111111","email":"a@x.io","user_metadata":{"first_name":"A"}}`,
		},
		{
			name:          "autoconfirm returns a session",
			body:          `{"access_token":"t","user":{"id":"11111111-1111-1111-1111-111111111111","email":"a@x.io","email_confirmed_at":"2025-01-01T00:00:00Z","user_metadata":{"first_name":"A"}}}`,
			wantConfirmed: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			var got signUpRequest
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/v1/signup" {
					t.Errorf("path = %q, want /auth/v1/signup", r.URL.Path)
				}
				if r.Header.Get("apikey") != "anon-key" || r.Header.Get("Authorization") != "Bearer anon-key" {
					t.Errorf("missing api key headers: %v", r.Header)
				}
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("decode request: %v", err)
				}
				reply(http.StatusOK, test.body)(w, r)
			})
			accounts := NewAccounts(client)

			// Act
			account, err := accounts.CreateAccount(context.Background(), validSignUp())

			// Assert
			if err != nil {
				t.Fatalf("CreateAccount() error = %v", err)
			}
			if got.Data.FirstName != "A" || got.Data.CellNumber != "5551234567" {
				t.Errorf("metadata sent = %+v", got.Data)
			}
			if account.ID != "11111111-1111-1111-1111-111111111111" || account.Metadata.FirstName != "A" {
				t.Errorf("account = %+v", account)
			}
			if account.EmailConfirmed() != test.wantConfirmed {
				t.Errorf("EmailConfirmed() = %v, want %v", account.EmailConfirmed(), test.wantConfirmed)
			}
		})
	}
}

// Requirement: provider error responses become store errors with the
// provider code, which translate to the matching kind.
func TestClient_ErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantKind core.Kind
	}{
		{name: "existing user", status: http.StatusUnprocessableEntity, body: `{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`, wantCode: core.CodeUserExists, wantKind: core.KindConflict},
		{name: "bad credentials", status: http.StatusBadRequest, body: `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`, wantCode: core.CodeInvalidCredentials, wantKind: core.KindUnauthenticated},
		{name: "legacy invalid grant", status: http.StatusBadRequest, body: `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, wantCode: core.CodeInvalidCredentials, wantKind: core.KindUnauthenticated},
		{name: "unconfirmed email", status: http.StatusBadRequest, body: `{"code":400,"error_code":"email_not_confirmed","msg":"Email not confirmed"}`, wantCode: core.CodeEmailNotConfirmed, wantKind: core.KindAuthorization},
		{name: "rate limited without code", status: http.StatusTooManyRequests, body: `{}`, wantCode: core.CodeRateLimit, wantKind: core.KindRateLimited},
		{name: "postgrest code", status: http.StatusNotAcceptable, body: `{"code":"PGRST116","message":"no rows"}`, wantCode: core.CodeNoRows, wantKind: core.KindNotFound},
		{name: "unknown failure", status: http.StatusBadGateway, body: `not json`, wantKind: core.KindInternal},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			accounts := NewAccounts(newTestClient(t, reply(test.status, test.body)))

			// Act
			_, err := accounts.Authenticate(context.Background(), "a@x.io", "secret1")

			// Assert
			var se *core.StoreError
			if !errors.As(err, &se) {
				t.Fatalf("Authenticate() error = %v, want *core.StoreError", err)
			}
			if se.Code != test.wantCode {
				t.Errorf("Code = %q, want %q", se.Code, test.wantCode)
			}
			if se.Message == "" {
				t.Error("Message should not be empty")
			}
			if got := core.KindOf(core.Translate(err, "user")); got != test.wantKind {
				t.Errorf("translated kind = %v, want %v", got, test.wantKind)
			}
		})
	}
}

// Requirement: login returns the user of the password grant.
func TestAccounts_Authenticate(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("url = %v, want password grant", r.URL)
		}
		reply(http.StatusOK, `{"access_token":"t","user":{"id":"u-1","email":"a@x.io","email_confirmed_at":"2025-01-01T00:00:00Z"}}`)(w, r)
	})

	// Act
	account, err := NewAccounts(client).Authenticate(context.Background(), "a@x.io", "secret1")

	// Assert
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if account.ID != "u-1" || !account.EmailConfirmed() {
		t.Errorf("account = %+v", account)
	}
}

// Requirement: uploads upsert into the bucket with the service key and the
// public URL points at the public object path.
func TestBucket_Upload(t *testing.T) {
	// Arrange
	var gotPath, gotAuth, gotUpsert, gotType string
	var gotBody []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		reply(http.StatusOK, `{"Key":"profile-images/p.png"}`)(w, r)
	})
	bucket := NewBucket(client, "service-key", "")

	// Act
	err := bucket.Upload(context.Background(), "p.png", "image/png", []byte("png-bytes"))

	// Assert
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if gotPath != "/storage/v1/object/profile-images/p.png" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer service-key" || gotUpsert != "true" || gotType != "image/png" {
		t.Errorf("headers: auth=%q upsert=%q type=%q", gotAuth, gotUpsert, gotType)
	}
	if string(gotBody) != "png-bytes" {
		t.Errorf("body = %q", gotBody)
	}
	if want := client.baseURL + "/storage/v1/object/public/profile-images/p.png"; bucket.PublicURL("p.png") != want {
		t.Errorf("PublicURL() = %q, want %q", bucket.PublicURL("p.png"), want)
	}
}

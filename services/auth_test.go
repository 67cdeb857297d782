package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lborres/inventrack/core"
)

const testSecret = "test-secret-that-is-at-least-32-chars!"

func newTestAuthService(accounts core.AccountProvider, store *FakeStore) *AuthService {
	sm := NewSessionManager(core.SessionConfig{Secret: testSecret, MaxAge: 24 * time.Hour})
	return NewAuthService(accounts, store, sm, NewValidator(), nil)
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

// Requirement: SignUp creates exactly one account and one profile whose
// full name joins first and last name.
func TestAuthService_SignUp(t *testing.T) {
	tests := []struct {
		name     string
		input    func() core.SignUpInput
		setup    func(*FakeAccounts, *FakeStore)
		wantKind core.Kind
		wantErr  bool
	}{
		{
			name:  "creates account and profile for valid input",
			input: validSignUp,
		},
		{
			name: "lowercases email before creating the account",
			input: func() core.SignUpInput {
				in := validSignUp()
				in.Email = "  A@X.IO "
				return in
			},
		},
		{
			name: "rejects invalid email",
			input: func() core.SignUpInput {
				in := validSignUp()
				in.Email = "not-an-email"
				return in
			},
			wantErr:  true,
			wantKind: core.KindValidation,
		},
		{
			name: "rejects short password",
			input: func() core.SignUpInput {
				in := validSignUp()
				in.Password = "12345"
				return in
			},
			wantErr:  true,
			wantKind: core.KindValidation,
		},
		{
			name: "rejects cell number that is not ten digits",
			input: func() core.SignUpInput {
				in := validSignUp()
				in.CellNumber = "555-123"
				return in
			},
			wantErr:  true,
			wantKind: core.KindValidation,
		},
		{
			name:  "returns conflict for existing account",
			input: validSignUp,
			setup: func(accounts *FakeAccounts, _ *FakeStore) {
				_, _ = accounts.CreateAccount(context.Background(), validSignUp())
			},
			wantErr:  true,
			wantKind: core.KindConflict,
		},
		{
			name:  "returns rate limited when provider throttles",
			input: validSignUp,
			setup: func(accounts *FakeAccounts, _ *FakeStore) {
				accounts.CreateErr = &core.StoreError{Code: core.CodeRateLimit, Message: "too many"}
			},
			wantErr:  true,
			wantKind: core.KindRateLimited,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			accounts := NewFakeAccounts()
			store := NewFakeStore()
			if test.setup != nil {
				test.setup(accounts, store)
			}
			service := newTestAuthService(accounts, store)
			before := accounts.Count()

			// Act
			result, err := service.SignUp(context.Background(), test.input())

			// Assert
			if (err != nil) != test.wantErr {
				t.Fatalf("SignUp() error = %v, wantErr %v", err, test.wantErr)
			}
			if test.wantErr {
				if kind := core.KindOf(err); kind != test.wantKind {
					t.Errorf("SignUp() kind = %v, want %v", kind, test.wantKind)
				}
				return
			}
			if result.User.Email != "a@x.io" {
				t.Errorf("User.Email = %q, want %q", result.User.Email, "a@x.io")
			}
			if result.Profile.FullName != "A B" {
				t.Errorf("Profile.FullName = %q, want %q", result.Profile.FullName, "A B")
			}
			if result.Profile.UserID != result.User.ID {
				t.Errorf("Profile.UserID = %q, want %q", result.Profile.UserID, result.User.ID)
			}
			if got := accounts.Count() - before; got != 1 {
				t.Errorf("accounts created = %d, want 1", got)
			}
			if got := store.ProfileCount(); got != 1 {
				t.Errorf("profiles created = %d, want 1", got)
			}
		})
	}
}

// Requirement: when the provider supports it, account and profile are
// created atomically; a failed profile write leaves no account behind.
func TestAuthService_SignUp_Transactional(t *testing.T) {
	tests := []struct {
		name         string
		profileErr   error
		wantErr      bool
		wantAccounts int
		wantProfiles int
	}{
		{name: "creates both", wantAccounts: 1, wantProfiles: 1},
		{
			name:         "rolls back account when profile fails",
			profileErr:   &core.StoreError{Code: core.CodeNotNull, Message: "null value"},
			wantErr:      true,
			wantAccounts: 0,
			wantProfiles: 0,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			store := NewFakeStore()
			store.CreateProfileErr = test.profileErr
			accounts := &FakeTransactionalAccounts{FakeAccounts: NewFakeAccounts(), Profiles: store}
			service := newTestAuthService(accounts, store)

			// Act
			_, err := service.SignUp(context.Background(), validSignUp())

			// Assert
			if (err != nil) != test.wantErr {
				t.Fatalf("SignUp() error = %v, wantErr %v", err, test.wantErr)
			}
			if got := accounts.Count(); got != test.wantAccounts {
				t.Errorf("accounts = %d, want %d", got, test.wantAccounts)
			}
			if got := store.ProfileCount(); got != test.wantProfiles {
				t.Errorf("profiles = %d, want %d", got, test.wantProfiles)
			}
		})
	}
}

// Requirement: Login authenticates, refuses unconfirmed emails and issues
// a session token that verifies.
func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		confirmed bool
		wantErr   error
		wantKind  core.Kind
	}{
		{
			name:      "issues token for confirmed account",
			email:     "a@x.io",
			password:  "secret1",
			confirmed: true,
		},
		{
			name:      "accepts email in any case",
			email:     "A@X.IO",
			password:  "secret1",
			confirmed: true,
		},
		{
			name:     "refuses unconfirmed email",
			email:    "a@x.io",
			password: "secret1",
			wantErr:  core.ErrEmailNotVerified,
			wantKind: core.KindAuthorization,
		},
		{
			name:      "rejects wrong password",
			email:     "a@x.io",
			password:  "wrong-password",
			confirmed: true,
			wantKind:  core.KindUnauthenticated,
		},
		{
			name:      "rejects unknown email",
			email:     "nobody@x.io",
			password:  "secret1",
			confirmed: true,
			wantKind:  core.KindUnauthenticated,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			accounts := NewFakeAccounts()
			store := NewFakeStore()
			service := newTestAuthService(accounts, store)
			if _, err := service.SignUp(context.Background(), validSignUp()); err != nil {
				t.Fatalf("SignUp() setup failed: %v", err)
			}
			if test.confirmed {
				accounts.Confirm("a@x.io")
			}

			// Act
			result, err := service.Login(context.Background(), core.LoginInput{Email: test.email, Password: test.password})

			// Assert
			wantFail := test.wantErr != nil || test.wantKind != core.KindInternal
			if (err != nil) != wantFail {
				t.Fatalf("Login() error = %v, wantErr %v", err, wantFail)
			}
			if test.wantErr != nil && !errors.Is(err, test.wantErr) {
				t.Errorf("Login() error = %v, want %v", err, test.wantErr)
			}
			if wantFail {
				if kind := core.KindOf(err); kind != test.wantKind {
					t.Errorf("Login() kind = %v, want %v", kind, test.wantKind)
				}
				return
			}
			if result.Token == "" {
				t.Fatal("Login() should return token")
			}
			identity, err := service.ValidateToken(result.Token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if identity.AccountID != result.User.ID {
				t.Errorf("Identity.AccountID = %q, want %q", identity.AccountID, result.User.ID)
			}
			if result.Profile == nil || result.Profile.UserID != result.User.ID {
				t.Errorf("Login() should return the account's profile; got %+v", result.Profile)
			}
		})
	}
}

// Requirement: Login recreates a profile that an earlier signup failed to
// write, using the account metadata.
func TestAuthService_Login_RepairsMissingProfile(t *testing.T) {
	// Arrange
	accounts := NewFakeAccounts()
	accounts.AutoConfirm = true
	store := NewFakeStore()
	service := newTestAuthService(accounts, store)

	store.CreateProfileErr = &core.StoreError{Code: core.CodeUndefinedTable, Message: "relation does not exist"}
	if _, err := service.SignUp(context.Background(), validSignUp()); err == nil {
		t.Fatal("SignUp() should fail when the profile write fails")
	}
	if store.ProfileCount() != 0 {
		t.Fatalf("profiles = %d, want 0 before repair", store.ProfileCount())
	}
	store.CreateProfileErr = nil

	// Act
	result, err := service.Login(context.Background(), core.LoginInput{Email: "a@x.io", Password: "secret1"})

	// Assert
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if store.ProfileCount() != 1 {
		t.Errorf("profiles = %d, want 1 after repair", store.ProfileCount())
	}
	if result.Profile.FullName != "A B" {
		t.Errorf("repaired FullName = %q, want %q", result.Profile.FullName, "A B")
	}
	if result.Profile.CellNumber != "5551234567" {
		t.Errorf("repaired CellNumber = %q, want %q", result.Profile.CellNumber, "5551234567")
	}

	// A second login must not create another profile.
	if _, err := service.Login(context.Background(), core.LoginInput{Email: "a@x.io", Password: "secret1"}); err != nil {
		t.Fatalf("second Login() error = %v", err)
	}
	if store.ProfileCount() != 1 {
		t.Errorf("profiles = %d after second login, want 1", store.ProfileCount())
	}
}

// Requirement: ValidateToken rejects missing and forged tokens as unauthenticated.
func TestAuthService_ValidateToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "missing token", token: "", wantErr: core.ErrMissingToken},
		{name: "garbage token", token: "not.a.jwt", wantErr: core.ErrInvalidToken},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			service := newTestAuthService(NewFakeAccounts(), NewFakeStore())

			// Act
			_, err := service.ValidateToken(test.token)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Errorf("ValidateToken() error = %v, want %v", err, test.wantErr)
			}
			if core.KindOf(err) != core.KindUnauthenticated {
				t.Errorf("ValidateToken() kind = %v, want Unauthenticated", core.KindOf(err))
			}
		})
	}
}

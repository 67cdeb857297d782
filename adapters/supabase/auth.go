package supabase

import (
	"context"
	"net/http"

	"github.com/lborres/inventrack/core"
)

// Accounts is the Supabase auth (GoTrue) account provider.
type Accounts struct {
	client *Client
}

var _ core.AccountProvider = (*Accounts)(nil)

func NewAccounts(client *Client) *Accounts {
	return &Accounts{client: client}
}

type signUpRequest struct {
	Email    string               `json:"email"`
	Password string               `json:"password"`
	Data     core.AccountMetadata `json:"data"`
}

// signUpResponse is either the user itself (email confirmation pending) or
// a session carrying the user (autoconfirm enabled).
type signUpResponse struct {
	core.Account
	User *core.Account `json:"user"`
}

func (a *Accounts) CreateAccount(ctx context.Context, input core.SignUpInput) (*core.Account, error) {
	body, err := jsonBody(signUpRequest{
		Email:    input.Email,
		Password: input.Password,
		Data: core.AccountMetadata{
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			CellNumber: input.CellNumber,
		},
	})
	if err != nil {
		return nil, err
	}

	var resp signUpResponse
	err = a.client.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/v1/signup",
		contentType: "application/json",
		body:        body,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.User != nil {
		return resp.User, nil
	}
	account := resp.Account
	return &account, nil
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	User *core.Account `json:"user"`
}

func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*core.Account, error) {
	body, err := jsonBody(tokenRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	err = a.client.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/v1/token?grant_type=password",
		contentType: "application/json",
		body:        body,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &core.StoreError{Code: core.CodeInvalidCredentials, Message: "Invalid login credentials"}
	}
	return resp.User, nil
}

package services

import (
	"context"
	"strings"

	"github.com/lborres/inventrack/core"
	"go.uber.org/zap"
)

type AuthService struct {
	accounts core.AccountProvider
	profiles core.ProfileStorage
	sessions *SessionManager
	validate *Validator
	logger   *zap.Logger
}

func NewAuthService(accounts core.AccountProvider, profiles core.ProfileStorage, sessions *SessionManager, validate *Validator, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts: accounts,
		profiles: profiles,
		sessions: sessions,
		validate: validate,
		logger:   logger,
	}
}

// SignUp creates the account and its profile.
//
// Providers implementing core.TransactionalSignUp do both writes atomically.
// Otherwise the profile write can fail after the account exists; that is
// returned as an error and Login repairs the missing profile later.
func (s *AuthService) SignUp(ctx context.Context, input core.SignUpInput) (*core.SignUpResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if err := s.validate.Validate(&input); err != nil {
		return nil, err
	}

	profile := &core.Profile{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		FullName:   input.FirstName + " " + input.LastName,
		Email:      input.Email,
		CellNumber: input.CellNumber,
		Role:       core.RoleStaff,
	}

	if tx, ok := s.accounts.(core.TransactionalSignUp); ok {
		account, err := tx.CreateAccountWithProfile(ctx, input, profile)
		if err != nil {
			return nil, core.Translate(err, "user")
		}
		return &core.SignUpResult{User: account, Profile: profile}, nil
	}

	account, err := s.accounts.CreateAccount(ctx, input)
	if err != nil {
		return nil, core.Translate(err, "user")
	}

	profile.UserID = account.ID
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		s.logger.Error("profile creation failed after account creation, profile will be repaired at login",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
		return nil, core.Translate(err, "profile")
	}

	return &core.SignUpResult{User: account, Profile: profile}, nil
}

// Login authenticates, rejects unconfirmed emails, makes sure the account
// has a profile and issues a session token.
func (s *AuthService) Login(ctx context.Context, input core.LoginInput) (*core.LoginResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if err := s.validate.Validate(&input); err != nil {
		return nil, err
	}

	account, err := s.accounts.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, core.Translate(err, "user")
	}
	if !account.EmailConfirmed() {
		return nil, core.ErrEmailNotVerified
	}

	profile, err := s.ensureProfile(ctx, account)
	if err != nil {
		return nil, err
	}

	issued, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, core.Translate(err, "session")
	}

	return &core.LoginResult{
		User:      account,
		Profile:   profile,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// ValidateToken verifies a session token presented by a client.
func (s *AuthService) ValidateToken(token string) (*core.Identity, error) {
	return s.sessions.Verify(token)
}

// ensureProfile returns the account's profile, recreating it from the
// account metadata when an earlier signup left it missing. A concurrent
// repair shows up as a conflict and is resolved by reading again.
func (s *AuthService) ensureProfile(ctx context.Context, account *core.Account) (*core.Profile, error) {
	profile, err := s.profiles.GetProfileByUserID(ctx, account.ID)
	if err == nil {
		return profile, nil
	}
	if err = core.Translate(err, "profile"); core.KindOf(err) != core.KindNotFound {
		return nil, err
	}

	repaired := profileFromAccount(account)
	if err := s.profiles.CreateProfile(ctx, repaired); err != nil {
		if err = core.Translate(err, "profile"); core.KindOf(err) != core.KindConflict {
			return nil, err
		}
		profile, err = s.profiles.GetProfileByUserID(ctx, account.ID)
		if err != nil {
			return nil, core.Translate(err, "profile")
		}
		return profile, nil
	}

	s.logger.Warn("repaired missing profile", zap.String("account_id", account.ID))
	return repaired, nil
}

func profileFromAccount(account *core.Account) *core.Profile {
	meta := account.Metadata
	fullName := strings.TrimSpace(meta.FirstName + " " + meta.LastName)
	if fullName == "" {
		fullName = account.Email
	}
	return &core.Profile{
		UserID:     account.ID,
		FirstName:  meta.FirstName,
		LastName:   meta.LastName,
		FullName:   fullName,
		Email:      account.Email,
		CellNumber: meta.CellNumber,
		Role:       core.RoleStaff,
	}
}

package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/zephyrixtech/clinic-next/internal/domain/doctor"
	"github.com/zephyrixtech/clinic-next/internal/domain/patient"
	"github.com/zephyrixtech/clinic-next/internal/platform/apperr"
	"github.com/zephyrixtech/clinic-next/internal/platform/auth"
)

const minPasswordLen = 8

type Service struct {
	accounts Repository
	doctors  doctor.Repository
	patients patient.Repository
	issuer   *auth.TokenIssuer
	logger   zerolog.Logger
}

func NewService(accounts Repository, doctors doctor.Repository, patients patient.Repository, issuer *auth.TokenIssuer, logger zerolog.Logger) *Service {
	return &Service{
		accounts: accounts,
		doctors:  doctors,
		patients: patients,
		issuer:   issuer,
		logger:   logger,
	}
}

// RegisterInput carries a signup request. When a profile payload matching
// the role is present, the profile row is created first and linked.
type RegisterInput struct {
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     string           `json:"role"`
	Doctor   *doctor.Doctor   `json:"doctor,omitempty"`
	Patient  *patient.Patient `json:"patient,omitempty"`
}

// AuthResult is an account plus a signed access token.
type AuthResult struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	if !auth.ValidRole(in.Role) {
		return nil, apperr.Validation("role must be admin, doctor, or patient")
	}

	var profileID *uuid.UUID
	switch {
	case in.Role == auth.RoleDoctor && in.Doctor != nil:
		if err := s.doctors.Create(ctx, in.Doctor); err != nil {
			return nil, apperr.Internal(err)
		}
		profileID = &in.Doctor.ID
	case in.Role == auth.RolePatient && in.Patient != nil:
		if err := s.patients.Create(ctx, in.Patient); err != nil {
			return nil, apperr.Internal(err)
		}
		profileID = &in.Patient.ID
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	a := &Account{
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		ProfileID:    profileID,
		Active:       true,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.Validation("email already registered")
		}
		return nil, apperr.Internal(err)
	}

	token, err := s.issuer.Issue(a.ID.String(), a.Email, a.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.Info().Str("account_id", a.ID.String()).Str("role", a.Role).Msg("account registered")
	return &AuthResult{Account: a, Token: token}, nil
}

// Login verifies credentials. Unknown email and bad password are not
// distinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
		}
		return nil, apperr.Internal(err)
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}
	if !a.Active {
		return nil, apperr.New(apperr.KindUnauthorized, "account is inactive")
	}

	now := time.Now().UTC()
	if err := s.accounts.TouchLastLogin(ctx, a.ID, now); err != nil {
		// Login still succeeds; the timestamp is best effort.
		s.logger.Warn().Err(err).Str("account_id", a.ID.String()).Msg("recording last login failed")
	}
	a.LastLogin = &now

	token, err := s.issuer.Issue(a.ID.String(), a.Email, a.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResult{Account: a, Token: token}, nil
}

// ProfileResult is an account with its role profile resolved.
type ProfileResult struct {
	Account *Account         `json:"account"`
	Doctor  *doctor.Doctor   `json:"doctor,omitempty"`
	Patient *patient.Patient `json:"patient,omitempty"`
}

func (s *Service) Profile(ctx context.Context, accountID uuid.UUID) (*ProfileResult, error) {
	a, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("account")
		}
		return nil, apperr.Internal(err)
	}

	res := &ProfileResult{Account: a}
	if a.ProfileID == nil {
		return res, nil
	}
	// A dangling profile reference leaves the field unset rather than
	// serializing a zero-valued profile.
	switch a.Role {
	case auth.RoleDoctor:
		d, err := s.doctors.GetByID(ctx, *a.ProfileID)
		switch {
		case err == nil:
			res.Doctor = d
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, apperr.Internal(err)
		}
	case auth.RolePatient:
		p, err := s.patients.GetByID(ctx, *a.ProfileID)
		switch {
		case err == nil:
			res.Patient = p
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, apperr.Internal(err)
		}
	}
	return res, nil
}

// Bootstrap creates the initial admin account. It is a no-op when the
// email already exists, so rerunning the command is safe.
func (s *Service) Bootstrap(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return apperr.Validation("a valid email is required")
	}
	if len(password) < minPasswordLen {
		return apperr.Validation("password must be at least %d characters", minPasswordLen)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		s.logger.Info().Str("email", email).Msg("admin account already exists")
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperr.Internal(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperr.Internal(err)
	}
	a := &Account{Email: email, PasswordHash: hash, Role: auth.RoleAdmin, Active: true}
	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil
		}
		return apperr.Internal(err)
	}

	s.logger.Info().Str("account_id", a.ID.String()).Msg("admin account created")
	return nil
}

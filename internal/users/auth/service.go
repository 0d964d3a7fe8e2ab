// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

/*
Package auth implements the core identity and access management system.

It handles everything from user registration and secure password hashing to
access/refresh token issuance and account lifecycle.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh).
  - Repository: Abstracted interface for the PostgreSQL user store.
  - Security: Leverages bcrypt hashing and HS256-signed JWTs via platform/sec.

The service is stateless between requests: the only persistent state is the
users table, and every issued token is self-contained.
*/
package auth

import (
	"context"
	"fmt"

	"github.com/datapipeline/pro-api/internal/platform/apperr"
	"github.com/datapipeline/pro-api/internal/platform/sec"
)

// # Contracts & Types

// PasswordHasher defines the contract for credential hashing.
type PasswordHasher interface {
	// Hash produces a salted hash of the plaintext password.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches the stored hash. It returns
	// false (never an error) for malformed hashes.
	Verify(plaintext, hash string) bool
}

// TokenProvider defines the contract for issuing and verifying security tokens.
type TokenProvider interface {
	// IssueAccess creates a signed, short-lived access token for the subject.
	IssueAccess(subject string) (string, error)

	// IssueRefresh creates a signed, long-lived refresh token for the subject.
	IssueRefresh(subject string) (string, error)

	// Verify checks signature, structure, type, and expiry, returning the
	// token's subject on success.
	Verify(token, expectedType string) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	hasher         PasswordHasher
	tokenProvider  TokenProvider
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo UserRepository, hasher PasswordHasher, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository: userRepo,
		hasher:         hasher,
		tokenProvider:  tokenProv,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrollment of a new member. New accounts start active and
without elevated privileges.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. The database assigns the ID.
	user := &User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsSuperuser:  false,
	}

	// Persist the user. The store's unique constraints still apply: the
	// lookups above only improve error messages, the INSERT is the
	// authoritative duplicate check under concurrency.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

/*
Login validates user credentials and issues a fresh token pair.

Description: Verifies identity by email, performs constant-time password
comparison via bcrypt, and checks the account is active. All three failure
modes return an identical Unauthorized error to prevent account enumeration.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *TokenPair: Access and refresh tokens
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, email, password string) (*TokenPair, error) {
	user, err := service.userRepository.FindByEmail(context, email)

	// Unknown email, wrong password, and deactivated account are deliberately
	// indistinguishable from the outside.
	if err != nil {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	if !service.hasher.Verify(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	return service.issuePair(user.Email)
}

/*
Refresh trades a valid refresh token for a brand new token pair.

Description: Verifies the presented token is a structurally valid, unexpired
refresh token, re-checks the account's existence and active status, and
issues a fully rotated pair (both access AND refresh are new).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: Rotated credentials
  - err: Unauthorized (bad token), NotFound (vanished account),
    BadRequest (inactive account), or internal failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {

	// An access token presented here fails the type check identically to a
	// forged or expired token.
	subject, err := service.tokenProvider.Verify(refreshToken, sec.TokenTypeRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	user, err := service.userRepository.FindByEmail(context, subject)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, apperr.BadRequest("Inactive user")
	}

	return service.issuePair(user.Email)
}

// issuePair signs a fresh access/refresh token pair for the subject.
func (service *Service) issuePair(subject string) (*TokenPair, error) {
	accessToken, err := service.tokenProvider.IssueAccess(subject)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.IssueRefresh(subject)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    BearerTokenType,
	}, nil
}

// # Account Lifecycle

/*
CurrentUser resolves the authenticated token subject to a live account.

Description: Looks up the account by email and enforces the active flag.
Both a vanished account and a deactivated one surface as Unauthorized,
because the caller's credential is no longer good.

Parameters:
  - context: context.Context
  - subject: string (email from verified token claims)

Returns:
  - *User: Hydrated entity
  - err: Unauthorized or storage failures
*/
func (service *Service) CurrentUser(context context.Context, subject string) (*User, error) {
	user, err := service.userRepository.FindByEmail(context, subject)
	if err != nil {
		return nil, apperr.Unauthorized("Could not validate credentials")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("Could not validate credentials")
	}

	return user, nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before applying the new one. The
new password must differ from the current one. Previously issued tokens
remain valid until their natural expiry.

Parameters:
  - context: context.Context
  - subject: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: BadRequest (wrong current password), ValidationError (new equals
    current), Unauthorized, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, subject, currentPassword, newPassword string) error {
	user, err := service.CurrentUser(context, subject)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !service.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperr.BadRequest("Current password is incorrect")
	}

	// Reusing the current password defeats the point of rotating it.
	if service.hasher.Verify(newPassword, user.PasswordHash) {
		return apperr.ValidationError("New password must be different from the current password")
	}

	// Hash the brand new password
	hashedPassword, err := service.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

/*
Deactivate disables the authenticated user's account.

Description: Sets is_active = false. The operation is idempotent: deactivating
an already-inactive account succeeds. Outstanding tokens remain structurally
valid but every account-touching operation rejects inactive subjects.

Parameters:
  - context: context.Context
  - subject: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) Deactivate(context context.Context, subject string) error {
	user, err := service.userRepository.FindByEmail(context, subject)
	if err != nil {
		return apperr.Unauthorized("Could not validate credentials")
	}

	if err := service.userRepository.SetActive(context, user.ID, false); err != nil {
		return fmt.Errorf("auth_service_deactivate_failed: %w", err)
	}

	return nil
}

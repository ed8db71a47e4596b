package service

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gocart-dev/gocart/internal/domain"
	internal_errors "github.com/gocart-dev/gocart/internal/errors"
	"github.com/gocart-dev/gocart/internal/logger"
	"github.com/gocart-dev/gocart/internal/token"
)

// to mock service in tests
type AuthService interface {
	Register(email, fullName, password string) (domain.User, error)
	RegisterWithRole(email, fullName, password string, role domain.Role) (domain.User, error)
	Login(email, password string) (TokenPair, error)
	ChangePassword(user domain.User, currentPassword, newPassword, confirmPassword string) error
	ForgotPassword(email string) error
	ResetPassword(resetToken, newPassword, confirmPassword string) error
	Refresh(refreshToken string) (TokenPair, error)
	Logout(accessToken, refreshToken string) error
	Users(limit, skip int, roleFilter string) ([]domain.User, error)
}

type UserStorage interface {
	SaveUser(user domain.User) (uuid.UUID, error)
	UserByEmail(email string) (domain.User, error)
	UserById(id uuid.UUID) (domain.User, error)
	UpdatePassword(id uuid.UUID, passHash string) error
	Users(limit, offset int, roleFilter domain.Role) ([]domain.User, error)
}

type TokenCodec interface {
	Issue(kind token.Kind, subject uuid.UUID) (string, error)
	Parse(tokenString string) (token.Claims, error)
}

type Revoker interface {
	Revoke(accessJti, refreshJti uuid.UUID) error
	IsAccessRevoked(jti uuid.UUID) (bool, error)
	IsRefreshRevoked(jti uuid.UUID) (bool, error)
	PurgeExpired()
}

// Mailer delivers the reset link out of band. Best effort: send failures are
// logged by the caller, never surfaced to the client.
type Mailer interface {
	IsCorrect(email string) error
	SendResetEmail(recipientEmail, resetToken string) error
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type Auth struct {
	storage    UserStorage
	codec      TokenCodec
	blacklist  Revoker
	mailer     Mailer
	bcryptCost int
}

func NewAuth(storage UserStorage, codec TokenCodec, blacklist Revoker, mailer Mailer, bcryptCost int) *Auth {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Auth{
		storage:    storage,
		codec:      codec,
		blacklist:  blacklist,
		mailer:     mailer,
		bcryptCost: bcryptCost,
	}
}

// Register creates a self-registered account. The role is always "user";
// only the admin flow may pick a role.
func (a *Auth) Register(email, fullName, password string) (domain.User, error) {
	return a.register(email, fullName, password, domain.RoleUser)
}

// RegisterWithRole creates an account with a caller-chosen role. The handler
// gates this behind the admin-only middleware.
func (a *Auth) RegisterWithRole(email, fullName, password string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, internal_errors.BadRequest("Unknown role")
	}
	return a.register(email, fullName, password, role)
}

func (a *Auth) register(email, fullName, password string, role domain.Role) (domain.User, error) {
	// policy check runs before hashing so nothing is persisted for a bad password
	if err := domain.ValidatePassword(password); err != nil {
		return domain.User{}, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	user := domain.User{
		Email:    email,
		FullName: fullName,
		PassHash: string(passHash),
		Role:     role,
	}
	id, err := a.storage.SaveUser(user)
	if err != nil {
		return domain.User{}, err
	}
	user.Id = id
	return user, nil
}

// Login verifies credentials and mints an access/refresh token pair.
// Unknown email and wrong password produce the same message so the response
// can't be used to probe which accounts exist.
func (a *Auth) Login(email, password string) (TokenPair, error) {
	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return TokenPair{}, internal_errors.Unauthorized("Invalid credentials")
		}
		return TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		logger.Log.Debug("password verification failed", "user_id", user.Id)
		return TokenPair{}, internal_errors.Unauthorized("Invalid credentials")
	}

	return a.issuePair(user.Id)
}

func (a *Auth) issuePair(subject uuid.UUID) (TokenPair, error) {
	accessToken, err := a.codec.Issue(token.Access, subject)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := a.codec.Issue(token.Refresh, subject)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "bearer"}, nil
}

// ChangePassword requires the current password and a matching confirmation.
func (a *Auth) ChangePassword(user domain.User, currentPassword, newPassword, confirmPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(currentPassword)); err != nil {
		return internal_errors.BadRequest("Incorrect current password")
	}
	if newPassword != confirmPassword {
		return internal_errors.BadRequest("Password confirmation does not match")
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.bcryptCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	return a.storage.UpdatePassword(user.Id, string(passHash))
}

// ForgotPassword issues a reset token and hands it to the mailer in the
// background. The token never appears in the response. A missing account is
// reported as 404, matching the behavior clients already depend on.
func (a *Auth) ForgotPassword(email string) error {
	// reject addresses the mailer could never deliver to before touching storage
	if err := a.mailer.IsCorrect(email); err != nil {
		return err
	}

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		return err
	}

	resetToken, err := a.codec.Issue(token.Reset, user.Id)
	if err != nil {
		return err
	}

	go func() {
		if err := a.mailer.SendResetEmail(user.Email, resetToken); err != nil {
			logger.Log.Error("failed to send reset email", "user_id", user.Id, "error", err)
		}
	}()
	return nil
}

// ResetPassword consumes a reset-kind token. The old password is not needed
// and the blacklist is not consulted: reset tokens are short-lived and
// single-purpose.
func (a *Auth) ResetPassword(resetToken, newPassword, confirmPassword string) error {
	claims, err := a.codec.Parse(resetToken)
	if err != nil {
		return err
	}
	if claims.Kind != token.Reset {
		return internal_errors.Unauthorized("Reset token required")
	}

	if newPassword != confirmPassword {
		return internal_errors.BadRequest("Password confirmation does not match")
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := a.storage.UserById(claims.Subject)
	if err != nil {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.bcryptCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	return a.storage.UpdatePassword(user.Id, string(passHash))
}

// Refresh mints a new access token against a valid, unrevoked refresh token.
// The refresh token itself is returned unchanged; this system does not rotate
// refresh tokens on use.
func (a *Auth) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := a.codec.Parse(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if claims.Kind != token.Refresh {
		return TokenPair{}, internal_errors.Unauthorized("Refresh token required")
	}

	revoked, err := a.blacklist.IsRefreshRevoked(claims.Jti)
	if err != nil {
		return TokenPair{}, err
	}
	if revoked {
		return TokenPair{}, internal_errors.Unauthorized("Token is blacklisted")
	}

	user, err := a.storage.UserById(claims.Subject)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return TokenPair{}, internal_errors.Unauthorized("User not found")
		}
		return TokenPair{}, err
	}

	accessToken, err := a.codec.Issue(token.Access, user.Id)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "bearer"}, nil
}

// Logout revokes the presented access/refresh pair. Both tokens must decode
// and carry their expected kind before anything is written; the revocation is
// one paired entry, followed by an opportunistic purge.
func (a *Auth) Logout(accessToken, refreshToken string) error {
	refreshClaims, err := a.codec.Parse(refreshToken)
	if err != nil {
		return err
	}
	if refreshClaims.Kind != token.Refresh {
		return internal_errors.BadRequest("Not a valid refresh token")
	}

	accessClaims, err := a.codec.Parse(accessToken)
	if err != nil {
		return err
	}
	if accessClaims.Kind != token.Access {
		return internal_errors.BadRequest("Not a valid access token")
	}

	if err := a.blacklist.Revoke(accessClaims.Jti, refreshClaims.Jti); err != nil {
		return fmt.Errorf("failed to revoke token pair: %w", err)
	}

	a.blacklist.PurgeExpired()
	return nil
}

// Users returns a page of accounts for the admin listing.
// roleFilter accepts "user", "admin" or "all".
func (a *Auth) Users(limit, skip int, roleFilter string) ([]domain.User, error) {
	if limit < 1 {
		limit = 10
	}
	if skip < 0 {
		skip = 0
	}
	switch roleFilter {
	case "", "all", string(domain.RoleUser), string(domain.RoleAdmin):
	default:
		return nil, internal_errors.BadRequest("Unknown role filter")
	}
	return a.storage.Users(limit, skip, domain.Role(roleFilter))
}

package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"campus-hire/internal/domain/user"
	"campus-hire/internal/infrastructure/mailer"
	"campus-hire/internal/infrastructure/otp"
	"campus-hire/internal/pkg/jwt"
	"campus-hire/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrRoleNotAllowed     = errors.New("role not allowed at registration")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrOTPExpired         = errors.New("verification code expired or not requested")
	ErrOTPInvalid         = errors.New("verification code invalid")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
	ErrEmailDelivery      = errors.New("could not send email")
	ErrInternal           = errors.New("internal error")
)

const (
	otpTTL         = 15 * time.Minute
	resetTokenTTL  = 15 * time.Minute
	minPasswordLen = 8
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) error
	VerifyOTP(ctx context.Context, code string, in RegisterInput) (user.User, string, error)
	Login(ctx context.Context, email, password string) (user.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	CurrentUser(ctx context.Context, id uuid.UUID) (user.User, error)
}

type Auth struct {
	users        repository.UserRepository
	otp          otp.Store
	mail         mailer.Mailer
	jwt          jwt.Service
	resetBaseURL string

	now func() time.Time
}

func NewAuthUsecase(users repository.UserRepository, otpStore otp.Store, mail mailer.Mailer, jwtSvc jwt.Service, resetBaseURL string) *Auth {
	return &Auth{
		users:        users,
		otp:          otpStore,
		mail:         mail,
		jwt:          jwtSvc,
		resetBaseURL: resetBaseURL,
		now:          time.Now,
	}
}

// Register validates the signup and parks a one-time code keyed by email.
// No user row exists until the code is verified, so there is nothing to
// roll back when the verification email cannot be sent.
func (u *Auth) Register(ctx context.Context, in RegisterInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateRegistration(in); err != nil {
		return err
	}

	taken, err := u.users.ExistsVerifiedByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	code, err := generateOTP()
	if err != nil {
		return ErrInternal
	}
	if err := u.otp.Put(ctx, in.Email, code, otpTTL); err != nil {
		return err
	}

	if err := u.mail.SendVerificationOTP(ctx, in.Email, in.Name, code); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	return nil
}

// VerifyOTP is the only path that creates a user. The registration fields
// travel with the code because nothing was persisted at Register time.
func (u *Auth) VerifyOTP(ctx context.Context, code string, in RegisterInput) (user.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateRegistration(in); err != nil {
		return user.User{}, "", err
	}

	stored, ok, err := u.otp.Get(ctx, in.Email)
	if err != nil {
		return user.User{}, "", err
	}
	if !ok {
		return user.User{}, "", ErrOTPExpired
	}
	if stored != strings.TrimSpace(code) {
		return user.User{}, "", ErrOTPInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, "", ErrInternal
	}

	role, _ := user.ParseRole(in.Role)
	usr := user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsVerified:   true,
		Skills:       []string{},
	}
	if err := u.users.Create(ctx, usr); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return user.User{}, "", ErrEmailTaken
		}
		return user.User{}, "", err
	}

	// Best effort: an expired-but-unconsumed entry is harmless.
	_ = u.otp.Delete(ctx, in.Email)

	token, err := u.jwt.GenerateSessionToken(usr.ID, string(usr.Role))
	if err != nil {
		return user.User{}, "", ErrInternal
	}
	return usr.Sanitized(), token, nil
}

func (u *Auth) Login(ctx context.Context, email, password string) (user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// No row yet, but a pending code means a registration is
			// parked on this address awaiting verification.
			if _, pending, otpErr := u.otp.Get(ctx, email); otpErr == nil && pending {
				return user.User{}, "", ErrEmailNotVerified
			}
			// Same answer as a wrong password: the response must not
			// reveal whether the account exists.
			return user.User{}, "", ErrInvalidCredentials
		}
		return user.User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return user.User{}, "", ErrInvalidCredentials
	}
	if !usr.IsVerified {
		return user.User{}, "", ErrEmailNotVerified
	}

	if err := u.users.AppendLogin(ctx, usr.ID, u.now().UTC()); err != nil {
		return user.User{}, "", err
	}

	token, err := u.jwt.GenerateSessionToken(usr.ID, string(usr.Role))
	if err != nil {
		return user.User{}, "", ErrInternal
	}
	return usr.Sanitized(), token, nil
}

// ForgotPassword stores only a digest of the reset token; the raw value
// exists nowhere but the email. If the email cannot be sent the digest is
// cleared again so no orphaned token window remains.
func (u *Auth) ForgotPassword(ctx context.Context, email string) error {
	usr, err := u.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return ErrInternal
	}
	token := hex.EncodeToString(raw)

	expiresAt := u.now().UTC().Add(resetTokenTTL)
	if err := u.users.SetResetToken(ctx, usr.ID, hashToken(token), expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(u.resetBaseURL, "/"), token)
	if err := u.mail.SendPasswordReset(ctx, usr.Email, resetURL); err != nil {
		_ = u.users.ClearResetToken(ctx, usr.ID)
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	return nil
}

func (u *Auth) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}

	usr, err := u.users.GetByResetToken(ctx, hashToken(strings.TrimSpace(token)), u.now().UTC())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrInternal
	}

	if err := u.users.ResetPassword(ctx, usr.ID, string(hash)); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	return nil
}

func (u *Auth) CurrentUser(ctx context.Context, id uuid.UUID) (user.User, error) {
	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	return usr.Sanitized(), nil
}

func validateRegistration(in RegisterInput) error {
	if strings.TrimSpace(in.Name) == "" || in.Email == "" {
		return ErrMissingFields
	}
	if len(in.Password) < minPasswordLen {
		return ErrWeakPassword
	}
	role, ok := user.ParseRole(in.Role)
	if !ok || role == user.RoleAdmin {
		// Admin accounts come from invites only.
		return ErrRoleNotAllowed
	}
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

var _ AuthUsecase = (*Auth)(nil)

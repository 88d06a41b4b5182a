package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campus-hire/internal/domain/user"
	"campus-hire/internal/infrastructure/otp"
	"campus-hire/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newAuthForTest(users *fakeUserRepo, mail *fakeMailer) (*Auth, otp.Store) {
	store := otp.NewMemoryStore()
	jwtSvc := jwt.NewHMACService("test-secret", 5*24*time.Hour)
	return NewAuthUsecase(users, store, mail, jwtSvc, "https://app.example.com"), store
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestAuth_Register_RejectsAdminRole(t *testing.T) {
	uc, _ := newAuthForTest(newFakeUserRepo(), &fakeMailer{})

	err := uc.Register(context.Background(), RegisterInput{
		Name: "Eve", Email: "eve@example.com", Password: "longenough", Role: "admin",
	})
	if !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("expected ErrRoleNotAllowed, got %v", err)
	}
}

func TestAuth_Register_RejectsWeakPassword(t *testing.T) {
	uc, _ := newAuthForTest(newFakeUserRepo(), &fakeMailer{})

	err := uc.Register(context.Background(), RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "short", Role: "student",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuth_Register_RejectsVerifiedEmail(t *testing.T) {
	existing := user.User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", IsVerified: true, Role: user.RoleStudent}
	uc, _ := newAuthForTest(newFakeUserRepo(existing), &fakeMailer{})

	err := uc.Register(context.Background(), RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "longenough", Role: "student",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuth_Register_DoesNotCreateUser(t *testing.T) {
	users := newFakeUserRepo()
	mail := &fakeMailer{}
	uc, store := newAuthForTest(users, mail)

	if err := uc.Register(context.Background(), RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "longenough", Role: "student",
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(users.users) != 0 {
		t.Fatalf("expected no user rows before verification, got %d", len(users.users))
	}
	if _, ok, _ := store.Get(context.Background(), "ann@example.com"); !ok {
		t.Fatalf("expected a pending code for the email")
	}
	if len(mail.sent) != 1 || !strings.HasPrefix(mail.sent[0], "otp:ann@example.com:") {
		t.Fatalf("expected one OTP email, got %v", mail.sent)
	}
}

func TestAuth_VerifyOTP_WrongCode(t *testing.T) {
	uc, store := newAuthForTest(newFakeUserRepo(), &fakeMailer{})
	_ = store.Put(context.Background(), "ann@example.com", "123456", 15*time.Minute)

	_, _, err := uc.VerifyOTP(context.Background(), "654321", RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "longenough", Role: "student",
	})
	if !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid, got %v", err)
	}
}

func TestAuth_VerifyOTP_MissingCode(t *testing.T) {
	uc, _ := newAuthForTest(newFakeUserRepo(), &fakeMailer{})

	_, _, err := uc.VerifyOTP(context.Background(), "123456", RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "longenough", Role: "student",
	})
	if !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestAuth_VerifyOTP_CreatesVerifiedUser(t *testing.T) {
	users := newFakeUserRepo()
	uc, store := newAuthForTest(users, &fakeMailer{})
	_ = store.Put(context.Background(), "ann@example.com", "123456", 15*time.Minute)

	usr, token, err := uc.VerifyOTP(context.Background(), "123456", RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "longenough", Role: "student",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}
	if !usr.IsVerified || usr.Role != user.RoleStudent {
		t.Fatalf("unexpected user: %+v", usr)
	}
	if usr.PasswordHash != "" {
		t.Fatalf("sanitized user must not carry a password hash")
	}
	if _, ok, _ := store.Get(context.Background(), "ann@example.com"); ok {
		t.Fatalf("expected the code to be consumed")
	}
}

func TestAuth_Login_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	existing := user.User{
		ID: uuid.New(), Name: "Ann", Email: "ann@example.com",
		PasswordHash: mustHash(t, "correct-password"), IsVerified: true, Role: user.RoleStudent,
	}
	uc, _ := newAuthForTest(newFakeUserRepo(existing), &fakeMailer{})

	_, _, unknownErr := uc.Login(context.Background(), "ghost@example.com", "whatever")
	_, _, wrongErr := uc.Login(context.Background(), "ann@example.com", "wrong-password")

	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v and %v", unknownErr, wrongErr)
	}
}

func TestAuth_Login_BeforeVerificationRejectedAsUnverified(t *testing.T) {
	uc, _ := newAuthForTest(newFakeUserRepo(), &fakeMailer{})

	if err := uc.Register(context.Background(), RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "longenough", Role: "student",
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, _, err := uc.Login(context.Background(), "ann@example.com", "longenough")
	if !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("a registered-but-unverified login must report ErrEmailNotVerified, got %v", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("must not be reported as bad credentials")
	}
}

func TestAuth_Login_UnverifiedRejected(t *testing.T) {
	existing := user.User{
		ID: uuid.New(), Name: "Ann", Email: "ann@example.com",
		PasswordHash: mustHash(t, "correct-password"), IsVerified: false, Role: user.RoleStudent,
	}
	uc, _ := newAuthForTest(newFakeUserRepo(existing), &fakeMailer{})

	_, _, err := uc.Login(context.Background(), "ann@example.com", "correct-password")
	if !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}
}

func TestAuth_Login_AppendsLoginHistory(t *testing.T) {
	existing := user.User{
		ID: uuid.New(), Name: "Ann", Email: "ann@example.com",
		PasswordHash: mustHash(t, "correct-password"), IsVerified: true, Role: user.RoleStudent,
	}
	users := newFakeUserRepo(existing)
	uc, _ := newAuthForTest(users, &fakeMailer{})

	if _, _, err := uc.Login(context.Background(), "ann@example.com", "correct-password"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(users.logins) != 1 || users.logins[0] != existing.ID {
		t.Fatalf("expected one login history row for the user, got %v", users.logins)
	}
}

func TestAuth_ForgotPassword_EmailFailureClearsToken(t *testing.T) {
	existing := user.User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", IsVerified: true, Role: user.RoleStudent}
	users := newFakeUserRepo(existing)
	mail := &fakeMailer{sendErr: errors.New("smtp down")}
	uc, _ := newAuthForTest(users, mail)

	err := uc.ForgotPassword(context.Background(), "ann@example.com")
	if !errors.Is(err, ErrEmailDelivery) {
		t.Fatalf("expected ErrEmailDelivery, got %v", err)
	}
	if users.users[existing.ID].ResetTokenHash != "" {
		t.Fatalf("expected the stored token hash to be cleared after delivery failure")
	}
}

func TestAuth_ResetPassword_InvalidToken(t *testing.T) {
	uc, _ := newAuthForTest(newFakeUserRepo(), &fakeMailer{})

	err := uc.ResetPassword(context.Background(), "no-such-token", "newpassword")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}

func TestAuth_ResetPassword_TokenSingleUse(t *testing.T) {
	existing := user.User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", IsVerified: true, Role: user.RoleStudent}
	users := newFakeUserRepo(existing)
	mail := &fakeMailer{}
	uc, _ := newAuthForTest(users, mail)

	if err := uc.ForgotPassword(context.Background(), "ann@example.com"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	storedHash := users.users[existing.ID].ResetTokenHash
	if storedHash == "" {
		t.Fatalf("expected a stored token hash")
	}

	// Simulate knowing the raw token by resolving through the repo as the
	// usecase does. Directly reuse the stored hash via the fake.
	usr, err := users.GetByResetToken(context.Background(), storedHash, time.Now())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := users.ResetPassword(context.Background(), usr.ID, "newhash"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := users.ResetPassword(context.Background(), usr.ID, "otherhash"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected second reset with same token to fail, got %v", err)
	}
}

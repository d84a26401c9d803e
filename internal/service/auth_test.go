package service

import (
	"context"
	"errors"
	"testing"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/auth"
)

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	user, err := svc.Register(context.Background(), "Ana", "ana@x.com", "pw123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if user.Name != "Ana" || user.Email != "ana@x.com" {
		t.Errorf("user = %+v, want Name=Ana Email=ana@x.com", user)
	}

	// The stored hash must verify against the original password and must
	// not BE the original password.
	if user.PasswordHash == "pw123" {
		t.Error("Register() stored the plaintext password")
	}
	if err := auth.NewPasswordServiceForTest(4).Verify(user.PasswordHash, "pw123"); err != nil {
		t.Errorf("stored hash does not verify the original password: %v", err)
	}
}

func TestRegister_TrimsWhitespace(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	user, err := svc.Register(context.Background(), "  Ana  ", "  ana@x.com  ", "pw123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Name != "Ana" {
		t.Errorf("Name = %q, want %q", user.Name, "Ana")
	}
	if user.Email != "ana@x.com" {
		t.Errorf("Email = %q, want %q", user.Email, "ana@x.com")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	tests := []struct {
		name            string
		userName, email string
		password        string
	}{
		{"blank name", "", "ana@x.com", "pw123"},
		{"blank email", "Ana", "", "pw123"},
		{"blank password", "Ana", "ana@x.com", ""},
		{"whitespace-only name", "   ", "ana@x.com", "pw123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	if _, err := svc.Register(context.Background(), "Ana", "ana@x.com", "pw123"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "Imposter", "ana@x.com", "different")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() error = %v, want ErrConflict", err)
	}

	// The duplicate attempt must not have persisted a second record.
	if len(users.users) != 1 {
		t.Errorf("store holds %d users after duplicate sign-up, want 1", len(users.users))
	}
}

func TestRegister_CaseSensitiveEmails(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	if _, err := svc.Register(context.Background(), "Ana", "ana@x.com", "pw123"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	// "Ana@x.com" differs byte-wise from "ana@x.com", so it is a distinct
	// account. Whether that is wise is debatable; it is the behaviour.
	if _, err := svc.Register(context.Background(), "Other Ana", "Ana@x.com", "pw456"); err != nil {
		t.Errorf("Register() with different casing error = %v, want nil", err)
	}
	if len(users.users) != 2 {
		t.Errorf("store holds %d users, want 2", len(users.users))
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	registered, err := svc.Register(context.Background(), "Ana", "ana@x.com", "pw123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "ana@x.com", "pw123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.ID != registered.ID {
		t.Errorf("Login() user ID = %q, want %q", result.User.ID, registered.ID)
	}
	if result.Token == "" {
		t.Fatal("Login() returned an empty token")
	}

	// The token must validate and carry the user's email as subject.
	tokens, _ := auth.NewTokenService("test-secret-at-least-16-chars!!")
	subject, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() on issued token: %v", err)
	}
	if subject != "ana@x.com" {
		t.Errorf("token subject = %q, want %q", subject, "ana@x.com")
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	if _, err := svc.Register(context.Background(), "Ana", "ana@x.com", "pw123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Unknown email and wrong password must produce the same error class
	// AND the same message — anything else leaks which emails exist.
	_, unknownErr := svc.Login(context.Background(), "nobody@x.com", "pw123")
	_, wrongPwErr := svc.Login(context.Background(), "ana@x.com", "wrong")

	if !errors.Is(unknownErr, apperror.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", unknownErr)
	}
	if !errors.Is(wrongPwErr, apperror.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", wrongPwErr)
	}
	if unknownErr.Error() != wrongPwErr.Error() {
		t.Errorf("failure messages differ: %q vs %q", unknownErr.Error(), wrongPwErr.Error())
	}
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	for _, tc := range []struct{ email, password string }{
		{"", "pw123"},
		{"ana@x.com", ""},
		{"", ""},
	} {
		_, err := svc.Login(context.Background(), tc.email, tc.password)
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("Login(%q, %q) error = %v, want ErrUnauthorized", tc.email, tc.password, err)
		}
	}
}

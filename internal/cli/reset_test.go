package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/services"
)

var temporaryPasswordLine = regexp.MustCompile(`Temporary password: (\S+)`)

func TestRunResetPasswordCommandIssuesWorkingPassword(t *testing.T) {
	t.Parallel()

	database := openTestDatabase(t)
	createUser(t, database, "owner@example.com")

	var out bytes.Buffer
	if err := RunResetPasswordCommand(database, " Owner@Example.com ", &out); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	match := temporaryPasswordLine.FindStringSubmatch(out.String())
	if match == nil {
		t.Fatalf("expected temporary password in output, got %q", out.String())
	}

	authService := services.NewAuthService(db.NewRepositories(database).Users)
	if _, err := authService.Authenticate("owner@example.com", match[1]); err != nil {
		t.Fatalf("expected temporary password to authenticate: %v", err)
	}
	if _, err := authService.Authenticate("owner@example.com", testPassword); err == nil {
		t.Fatal("expected old password to stop working")
	}

	user, err := authService.FindByEmail("owner@example.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if !user.MustChangePassword {
		t.Fatal("expected reset account to require a password change")
	}
}

func TestValidateEmailArgument(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw     string
		want    string
		message string
	}{
		{raw: "  ", message: "email is required"},
		{raw: "not-an-email", message: "invalid email address"},
		{raw: " Owner@Example.com ", want: "owner@example.com"},
		{raw: "Owner <Owner@Example.com>", want: "owner@example.com"},
	}
	for _, testCase := range cases {
		got, err := validateEmailArgument(testCase.raw)
		if testCase.message != "" {
			if err == nil || !strings.Contains(err.Error(), testCase.message) {
				t.Fatalf("validateEmailArgument(%q) error = %v, want %q", testCase.raw, err, testCase.message)
			}
			continue
		}
		if err != nil || got != testCase.want {
			t.Fatalf("validateEmailArgument(%q) = %q, %v; want %q", testCase.raw, got, err, testCase.want)
		}
	}
}

func TestRunResetPasswordCommandRejectsBadInput(t *testing.T) {
	t.Parallel()

	database := openTestDatabase(t)

	cases := []struct {
		email   string
		message string
	}{
		{email: "", message: "email is required"},
		{email: "not-an-email", message: "invalid email address"},
		{email: "missing@example.com", message: "not found"},
	}
	for _, testCase := range cases {
		err := RunResetPasswordCommand(database, testCase.email, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), testCase.message) {
			t.Fatalf("RunResetPasswordCommand(%q) error = %v, want %q", testCase.email, err, testCase.message)
		}
	}
}

package validator_test

import (
	"context"
	"net/http"
	"testing"

	"ecommerce/internal/domain/model"
	"ecommerce/internal/infra/db"
	infraRepo "ecommerce/internal/infra/repository"
	"ecommerce/internal/usecase"
	auth "ecommerce/internal/usecase/auth_usecase"
	"ecommerce/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sample struct {
	Title    string `json:"title" validate:"required,max=5"`
	Quantity int64  `json:"quantity" validate:"min=1"`
	Status   string `json:"payment_status" validate:"omitempty,oneof=P C F"`
	Internal string `json:"-"`
}

func asHTTPError(t *testing.T, err error) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	return he
}

func TestCustomValidator_FieldMessages(t *testing.T) {
	cv := validator.New()

	require.NoError(t, cv.Validate(sample{Title: "ok", Quantity: 1}))

	he := asHTTPError(t, cv.Validate(sample{Title: "", Quantity: 0, Status: "X"}))
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, []string{"This field is required."}, he.Fields["title"])
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, he.Fields["quantity"])
	assert.Equal(t, []string{`"X" is not a valid choice.`}, he.Fields["payment_status"])

	he = asHTTPError(t, cv.Validate(sample{Title: "toolong", Quantity: 1}))
	assert.Equal(t, []string{"Ensure this field has no more than 5 characters."}, he.Fields["title"])
}

func TestCustomValidator_Var(t *testing.T) {
	cv := validator.New()
	require.NoError(t, cv.Var("email", "a@example.com", "email"))

	he := asHTTPError(t, cv.Var("email", "nope", "email"))
	assert.Equal(t, []string{"Enter a valid email address."}, he.Fields["email"])
}

func newAuthValidator(t *testing.T) *validator.AuthValidator {
	t.Helper()
	gdb, err := db.OpenSQLite("file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, gdb.Create(&model.User{
		Username:     "taken",
		Email:        "taken@example.com",
		PhoneNumber:  "09012345678",
		FirstName:    "A",
		LastName:     "B",
		PasswordHash: "x",
		Role:         model.RoleUser,
		IsActive:     true,
	}).Error)
	return validator.NewAuthValidator(infraRepo.NewUserGormRepository(gdb))
}

func validSignup() auth.RegisterUserInput {
	return auth.RegisterUserInput{
		Username:        "hanako",
		Email:           "hanako@example.com",
		Password:        "S3cure-pass!",
		ConfirmPassword: "S3cure-pass!",
		PhoneNumber:     "08011112222",
		FirstName:       "Hanako",
		LastName:        "Sato",
	}
}

func TestAuthValidator_ValidateRegister(t *testing.T) {
	v := newAuthValidator(t)
	ctx := context.Background()

	require.NoError(t, v.ValidateRegister(ctx, validSignup()))

	cases := []struct {
		name    string
		mutate  func(in *auth.RegisterUserInput)
		field   string
		message string
	}{
		{"missing phone", func(in *auth.RegisterUserInput) { in.PhoneNumber = "" }, "phone_number", "This field is required."},
		{"bad email", func(in *auth.RegisterUserInput) { in.Email = "hanako" }, "email", "Enter a valid email address."},
		{"short password", func(in *auth.RegisterUserInput) { in.Password, in.ConfirmPassword = "short", "short" }, "password", "Ensure this field has at least 8 characters."},
		{"common password", func(in *auth.RegisterUserInput) { in.Password, in.ConfirmPassword = "password123", "password123" }, "password", "This password is too common."},
		{"duplicate email", func(in *auth.RegisterUserInput) { in.Email = "taken@example.com" }, "email", "user with this email already exists."},
		{"duplicate phone", func(in *auth.RegisterUserInput) { in.PhoneNumber = "09012345678" }, "phone_number", "user with this phone number already exists."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSignup()
			tc.mutate(&in)
			he := asHTTPError(t, v.ValidateRegister(ctx, in))
			assert.Equal(t, http.StatusBadRequest, he.Status)
			assert.Equal(t, []string{tc.message}, he.Fields[tc.field])
		})
	}

	t.Run("mismatch", func(t *testing.T) {
		in := validSignup()
		in.ConfirmPassword = "S3cure-pass?"
		he := asHTTPError(t, v.ValidateRegister(ctx, in))
		assert.Equal(t, "Password do not match.", he.Message)
		assert.Empty(t, he.Fields)
	})
}

func TestAuthValidator_ValidateLogin(t *testing.T) {
	v := newAuthValidator(t)

	he := asHTTPError(t, v.ValidateLogin(context.Background(), "", ""))
	assert.Contains(t, he.Fields, "email")
	assert.Contains(t, he.Fields, "password")
	assert.NoError(t, v.ValidateLogin(context.Background(), "a@example.com", "x"))
}

package validator

import (
	"context"
	"net/http"
	"strings"

	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"
	auth "ecommerce/internal/usecase/auth_usecase"
)

// よくある弱いパスワード
var weakPasswords = map[string]struct{}{
	"password":     {},
	"password123":  {},
	"123456789012": {},
	"1234567890":   {},
	"12345678":     {},
	"qwerty":       {},
	"qwertyuiop":   {},
	"letmein":      {},
	"admin":        {},
	"admin123":     {},
}

type registerForm struct {
	Username    string `json:"username" validate:"required,max=150"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
	FirstName   string `json:"first_name" validate:"required,max=255"`
	LastName    string `json:"last_name" validate:"required,max=255"`
}

type AuthValidator struct {
	users repository.UserRepository
	cv    *CustomValidator
}

var (
	_ usecase.AuthValidator  = (*AuthValidator)(nil)
	_ auth.RegisterValidator = (*AuthValidator)(nil)
	_ auth.LoginValidator    = (*AuthValidator)(nil)
)

func NewAuthValidator(users repository.UserRepository) *AuthValidator {
	return &AuthValidator{users: users, cv: New()}
}

// サインアップの入力を検証
func (v *AuthValidator) ValidateRegister(ctx context.Context, in auth.RegisterUserInput) error {
	form := registerForm{
		Username:    strings.TrimSpace(in.Username),
		Email:       in.Email,
		Password:    in.Password,
		PhoneNumber: in.PhoneNumber,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
	}
	if err := v.cv.Validate(form); err != nil {
		return err
	}

	if _, weak := weakPasswords[strings.ToLower(in.Password)]; weak {
		return usecase.FieldError("password", "This password is too common.")
	}
	if in.Password != in.ConfirmPassword {
		return usecase.ValidationError("Password do not match.")
	}

	// 重複チェック（DBが必要）
	fields := map[string][]string{}
	u, err := v.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if u != nil {
		fields["email"] = []string{"user with this email already exists."}
	}
	u, err = v.users.FindByPhone(ctx, in.PhoneNumber)
	if err != nil {
		return usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if u != nil {
		fields["phone_number"] = []string{"user with this phone number already exists."}
	}
	if len(fields) > 0 {
		return usecase.FieldsError(fields)
	}
	return nil
}

// ログインの入力を検証
func (v *AuthValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	fields := map[string][]string{}
	if email == "" {
		fields["email"] = []string{"This field may not be blank."}
	}
	if password == "" {
		fields["password"] = []string{"This field may not be blank."}
	}
	if len(fields) > 0 {
		return usecase.FieldsError(fields)
	}
	return nil
}

func (v *AuthValidator) ValidateRefresh(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return usecase.FieldError("refresh", "This field may not be blank.")
	}
	return nil
}

// PATCH /auth/user/me
func (v *AuthValidator) ValidateUpdateMe(ctx context.Context, userID int64, in usecase.UpdateMeInput) error {
	if in.Username != nil {
		if err := v.cv.Var("username", strings.TrimSpace(*in.Username), "required,max=150"); err != nil {
			return err
		}
	}
	if in.FirstName != nil {
		if err := v.cv.Var("first_name", strings.TrimSpace(*in.FirstName), "required,max=255"); err != nil {
			return err
		}
	}
	if in.LastName != nil {
		if err := v.cv.Var("last_name", strings.TrimSpace(*in.LastName), "required,max=255"); err != nil {
			return err
		}
	}
	if in.Password != nil {
		if err := v.cv.Var("password", *in.Password, "required,min=8"); err != nil {
			return err
		}
		if _, weak := weakPasswords[strings.ToLower(*in.Password)]; weak {
			return usecase.FieldError("password", "This password is too common.")
		}
	}
	if in.PhoneNumber != nil {
		phone := strings.TrimSpace(*in.PhoneNumber)
		if err := v.cv.Var("phone_number", phone, "required,max=32"); err != nil {
			return err
		}
		u, err := v.users.FindByPhone(ctx, phone)
		if err != nil {
			return usecase.NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if u != nil && u.ID != userID {
			return usecase.FieldError("phone_number", "user with this phone number already exists.")
		}
	}
	return nil
}

// 強制ログアウトの入力を検証
func (v *AuthValidator) ValidateForceLogout(ctx context.Context, targetUserID int64) error {
	if targetUserID <= 0 {
		return usecase.FieldError("user_id", "A valid integer is required.")
	}
	return nil
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ecommerce/internal/domain/model"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力（/auth/users/）
type RegisterUserInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	PhoneNumber     string `json:"phone_number"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// 入力チェック（重複確認はDBを見る）
type RegisterValidator interface {
	ValidateRegister(ctx context.Context, in RegisterUserInput) error
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// RegisterUserUsecaseは会員登録の処理。UserとCustomer(Bronze)を同じTxで作る
type RegisterUserUsecase struct {
	tx        repository.TransactionManager
	validator RegisterValidator
	hasher    usecase.PasswordHasher
	clock     Clock
}

// DI
func NewRegisterUserUsecase(
	tx repository.TransactionManager,
	validator RegisterValidator,
	hasher usecase.PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		tx:        tx,
		validator: validator,
		hasher:    hasher,
		clock:     clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (usecase.UserDTO, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return usecase.UserDTO{}, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return usecase.UserDTO{}, usecase.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	user := &model.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hashed,
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Users().Create(ctx, user); err != nil {
			return err
		}
		_, err := r.Customers().Create(ctx, model.Customer{
			UserID:     user.ID,
			Membership: model.MembershipBronze,
		})
		return err
	})
	if err != nil {
		// 事前チェックとINSERTの間に取られた
		if errors.Is(err, repository.ErrConflict) {
			return usecase.UserDTO{}, usecase.ValidationError("user with this email or phone number already exists.")
		}
		return usecase.UserDTO{}, usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return usecase.ToUserDTO(user), nil
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

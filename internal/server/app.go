package server

import (
	"ecommerce/internal/config"
	"ecommerce/internal/event"
	"ecommerce/internal/handler"
	infraRepo "ecommerce/internal/infra/repository"
	"ecommerce/internal/infra/token"
	"ecommerce/internal/usecase"
	auth "ecommerce/internal/usecase/auth_usecase"
	"ecommerce/internal/validator"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 外側（DB・保存先・通知）はmainで用意する
type Deps struct {
	Config     config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	Storage    usecase.ImageStorage
	Publisher  *event.OrderCreatedPublisher
	BcryptCost int
}

// repository → usecase → handler を組み立ててルート登録まで行う
func Build(d Deps) *echo.Echo {
	cfg := d.Config

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	rtRepo := infraRepo.NewRefreshTokenRepository(d.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(d.DB)
	collectionRepo := infraRepo.NewCollectionGormRepository(d.DB)
	productRepo := infraRepo.NewProductGormRepository(d.DB)
	imageRepo := infraRepo.NewProductImageGormRepository(d.DB)
	tagRepo := infraRepo.NewTagGormRepository(d.DB)
	cartRepo := infraRepo.NewCartGormRepository(d.DB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(d.DB)
	customerRepo := infraRepo.NewCustomerGormRepository(d.DB)
	addressRepo := infraRepo.NewAddressGormRepository(d.DB)
	orderRepo := infraRepo.NewOrderGormRepository(d.DB)
	reviewRepo := infraRepo.NewReviewGormRepository(d.DB)
	txm := infraRepo.NewTxManagerGorm(d.DB)

	//usecaseに渡す部品
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTTL)
	hasher := auth.NewBcryptPasswordHasher(d.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	authValidator := validator.NewAuthValidator(userRepo)
	clock := auth.SystemClock{}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(txm, authValidator, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, authValidator, verifier, issuer, clock, cfg.RefreshTTL)
	authUC := usecase.NewAuthUsecase(userRepo, rtRepo, txm, authValidator, issuer, hasher, cfg.RefreshTTL, d.Log)
	productUC := usecase.NewProductUsecase(productRepo, imageRepo, collectionRepo, txm, auditRepo, d.Storage, d.Log)
	orderUC := usecase.NewOrderUsecase(txm, cartRepo, cartItemRepo, orderRepo, customerRepo, auditRepo, d.Publisher, d.Log)

	e := New(cfg, d.Log)
	RegisterRoutes(e, cfg, userRepo, Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC, authUC),
		AdminUser:    handler.NewAdminUserHandler(authUC, usecase.NewAuditUsecase(auditRepo)),
		Collection:   handler.NewCollectionHandler(usecase.NewCollectionUsecase(collectionRepo, productRepo, auditRepo, d.Log)),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Tag:          handler.NewTagHandler(usecase.NewTagUsecase(tagRepo, productRepo)),
		Review:       handler.NewReviewHandler(usecase.NewReviewUsecase(reviewRepo, productRepo, customerRepo)),
		Cart:         handler.NewCartHandler(usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)),
		Customer:     handler.NewCustomerHandler(usecase.NewCustomerUsecase(customerRepo)),
		Address:      handler.NewAddressHandler(usecase.NewAddressUsecase(addressRepo, customerRepo)),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(orderUC),
	})
	return e
}

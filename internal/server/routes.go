package server

import (
	"strings"

	"ecommerce/internal/config"
	"ecommerce/internal/handler"
	"ecommerce/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	AdminUser    *handler.AdminUserHandler
	Collection   *handler.CollectionHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Tag          *handler.TagHandler
	Review       *handler.ReviewHandler
	Cart         *handler.CartHandler
	Customer     *handler.CustomerHandler
	Address      *handler.AddressHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
}

// /auth, /store, /admin
func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg, userRepo)

	h.Collection.RegisterRoutes(e, cfg, userRepo)
	h.Product.RegisterRoutes(e, cfg, userRepo)
	h.AdminProduct.RegisterRoutes(e, cfg, userRepo)
	h.Tag.RegisterRoutes(e, cfg, userRepo)
	h.Review.RegisterRoutes(e, cfg, userRepo)
	h.Cart.RegisterRoutes(e)
	h.Customer.RegisterRoutes(e, cfg, userRepo)
	h.Address.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)

	h.AdminUser.RegisterRoutes(e, cfg, userRepo)
}

// ローカル保存のときだけ画像を配る
func ServeMedia(e *echo.Echo, mediaURL string, mediaRoot string) {
	e.Static(strings.TrimRight(mediaURL, "/"), mediaRoot)
}

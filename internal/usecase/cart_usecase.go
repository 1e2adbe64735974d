package usecase

import (
	"context"
	"errors"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartUsecase は /store/carts の業務ロジックです。
// 未ログインでも使えるので認可チェックはしない（カートIDが鍵）
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type ItemProductOutput struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
}

type CartItemOutput struct {
	ID       int64             `json:"id"`
	Product  ItemProductOutput `json:"product"`
	Quantity int64             `json:"quantity"`
	Subtotal string            `json:"subtotal"`
}

type CartOutput struct {
	ID         string           `json:"id"`
	Items      []CartItemOutput `json:"cart_items"`
	TotalPrice string           `json:"total_price"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

func (u *CartUsecase) Create(ctx context.Context) (CartOutput, error) {
	cart, err := u.cartRepo.Create(ctx, model.Cart{})
	if err != nil {
		return CartOutput{}, dbError()
	}
	return toCartOutput(cart), nil
}

func (u *CartUsecase) Get(ctx context.Context, cartID string) (CartOutput, error) {
	cart, err := u.findCart(ctx, cartID)
	if err != nil {
		return CartOutput{}, err
	}
	return toCartOutput(cart), nil
}

func (u *CartUsecase) Delete(ctx context.Context, cartID string) error {
	if _, err := uuid.Parse(cartID); err != nil {
		return NotFound("")
	}
	err := u.cartRepo.Delete(ctx, cartID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound("")
	}
	if err != nil {
		return dbError()
	}
	return nil
}

func (u *CartUsecase) ListItems(ctx context.Context, cartID string) ([]CartItemOutput, error) {
	cart, err := u.findCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return toCartOutput(cart).Items, nil
}

func (u *CartUsecase) GetItem(ctx context.Context, cartID string, itemID int64) (CartItemOutput, error) {
	item, err := u.cartItemRepo.FindByID(ctx, cartID, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemOutput{}, NotFound("")
	}
	if err != nil {
		return CartItemOutput{}, dbError()
	}
	return toCartItemOutput(item), nil
}

// 同じ商品は数量を加算する（行は増やさない）
func (u *CartUsecase) AddItem(ctx context.Context, cartID string, in AddCartItemInput) (CartItemOutput, error) {
	if _, err := u.findCart(ctx, cartID); err != nil {
		return CartItemOutput{}, err
	}
	if in.Quantity < 1 {
		return CartItemOutput{}, FieldError("quantity", "Ensure this value is greater than or equal to 1.")
	}

	ok, err := u.productRepo.Exists(ctx, in.ProductID)
	if err != nil {
		return CartItemOutput{}, dbError()
	}
	if !ok {
		return CartItemOutput{}, FieldError("product_id", "No product with the given ID was found.")
	}

	item, err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cartID, in.ProductID, in.Quantity)
	if errors.Is(err, repo.ErrConflict) {
		// 同時に同じ商品が追加された場合はもう一度加算
		item, err = u.cartItemRepo.UpsertByCartAndProduct(ctx, cartID, in.ProductID, in.Quantity)
	}
	if err != nil {
		return CartItemOutput{}, dbError()
	}
	return toCartItemOutput(item), nil
}

func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, cartID string, itemID int64, qty int64) (CartItemOutput, error) {
	if qty < 1 {
		return CartItemOutput{}, FieldError("quantity", "Ensure this value is greater than or equal to 1.")
	}
	err := u.cartItemRepo.UpdateQuantity(ctx, cartID, itemID, qty)
	if errors.Is(err, repo.ErrNotFound) {
		return CartItemOutput{}, NotFound("")
	}
	if err != nil {
		return CartItemOutput{}, dbError()
	}
	return u.GetItem(ctx, cartID, itemID)
}

func (u *CartUsecase) DeleteItem(ctx context.Context, cartID string, itemID int64) error {
	err := u.cartItemRepo.Delete(ctx, cartID, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound("")
	}
	if err != nil {
		return dbError()
	}
	return nil
}

func (u *CartUsecase) findCart(ctx context.Context, cartID string) (model.Cart, error) {
	cart, err := u.cartRepo.FindByID(ctx, cartID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, NotFound("")
	}
	if err != nil {
		return model.Cart{}, dbError()
	}
	return cart, nil
}

func toItemProductOutput(p model.Product) ItemProductOutput {
	return ItemProductOutput{ID: p.ID, Title: p.Title, Price: p.Price.StringFixed(2)}
}

func toCartItemOutput(it model.CartItem) CartItemOutput {
	return CartItemOutput{
		ID:       it.ID,
		Product:  toItemProductOutput(it.Product),
		Quantity: it.Quantity,
		Subtotal: it.Product.Price.Mul(decimal.NewFromInt(it.Quantity)).StringFixed(2),
	}
}

func toCartOutput(c model.Cart) CartOutput {
	items := make([]CartItemOutput, 0, len(c.Items))
	total := decimal.Zero
	for _, it := range c.Items {
		items = append(items, toCartItemOutput(it))
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return CartOutput{ID: c.ID, Items: items, TotalPrice: total.StringFixed(2)}
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 注文作成後の通知（失敗しても注文は成立）
type OrderEventPublisher interface {
	Publish(ctx context.Context, order model.Order) int
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	orders    repo.OrderRepository
	customers repo.CustomerRepository
	auditRepo repo.AuditLogRepository
	publisher OrderEventPublisher
	log       *zap.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	carts repo.CartRepository,
	cartItems repo.CartItemRepository,
	orders repo.OrderRepository,
	customers repo.CustomerRepository,
	auditRepo repo.AuditLogRepository,
	publisher OrderEventPublisher,
	log *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		carts:     carts,
		cartItems: cartItems,
		orders:    orders,
		customers: customers,
		auditRepo: auditRepo,
		publisher: publisher,
		log:       log,
	}
}

type PlaceOrderInput struct {
	CartID string
}

type OrderItemOutput struct {
	ID        int64             `json:"id"`
	Product   ItemProductOutput `json:"product"`
	UnitPrice string            `json:"unit_price"`
	Quantity  int64             `json:"quantity"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	Customer      int64             `json:"customer"`
	PlacedAt      time.Time         `json:"placed_at"`
	PaymentStatus string            `json:"payment_status"`
	Items         []OrderItemOutput `json:"order_items"`
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

var (
	errCartNotFound = NotFound("No cart with the given ID was found.")
	errCartEmpty    = FieldError("cart_id", "The cart is empty.")
)

// カート→注文。明細コピー・カート削除までを1トランザクションで行い、commit後に通知する
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, Unauthorized()
	}
	cartID := strings.TrimSpace(in.CartID)
	if cartID == "" {
		return OrderOutput{}, FieldError("cart_id", "This field is required.")
	}
	if _, err := uuid.Parse(cartID); err != nil {
		return OrderOutput{}, FieldError("cart_id", "Must be a valid UUID.")
	}

	// 変更前の事前チェック
	if _, err := u.carts.FindByID(ctx, cartID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return OrderOutput{}, errCartNotFound
		}
		return OrderOutput{}, dbError()
	}
	n, err := u.cartItems.CountByCartID(ctx, cartID)
	if err != nil {
		return OrderOutput{}, dbError()
	}
	if n == 0 {
		return OrderOutput{}, errCartEmpty
	}

	var placed model.Order
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じカートの二重変換を防ぐため行ロック
		cart, err := r.Carts().FindByIDForUpdate(ctx, cartID)
		if errors.Is(err, repo.ErrNotFound) {
			return errCartNotFound
		}
		if err != nil {
			return dbError()
		}
		// ロック後に読み直した明細を使う
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return dbError()
		}
		if len(cartItems) == 0 {
			return errCartEmpty
		}

		customer, err := r.Customers().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return dbError()
		}

		order, err := r.Orders().Create(ctx, model.Order{
			CustomerID:    customer.ID,
			PaymentStatus: model.PaymentStatusPending,
		})
		if err != nil {
			return dbError()
		}

		// unit_price は現在の商品価格のスナップショット
		items := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			items = append(items, model.OrderItem{
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				UnitPrice: ci.Product.Price,
			})
		}
		created, err := r.OrderItems().CreateBulk(ctx, order.ID, items)
		if err != nil {
			return dbError()
		}

		if err := r.Carts().Delete(ctx, cart.ID); err != nil {
			return dbError()
		}

		for i := range created {
			created[i].Product = cartItems[i].Product
		}
		order.Items = created
		placed = order
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	if u.publisher != nil {
		u.publisher.Publish(ctx, placed)
	}
	return toOrderOutput(placed), nil
}

// 管理者は全件、一般ユーザーは自分の注文のみ
func (u *OrderUsecase) List(ctx context.Context, actor Actor, page int, limit int) (OrderListOutput, error) {
	if !actor.Authenticated() {
		return OrderListOutput{}, Unauthorized()
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	f := repo.OrderListFilter{Page: page, Limit: limit}
	if !actor.IsAdmin() {
		c, err := u.customers.FindByUserID(ctx, actor.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			return OrderListOutput{Items: []OrderOutput{}, Page: page, Limit: limit}, nil
		}
		if err != nil {
			return OrderListOutput{}, dbError()
		}
		f.CustomerID = &c.ID
	}

	orders, total, err := u.orders.List(ctx, f)
	if err != nil {
		return OrderListOutput{}, dbError()
	}
	out := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderOutput(o))
	}
	return OrderListOutput{Items: out, Total: total, Page: page, Limit: limit}, nil
}

// 本人か管理者
func (u *OrderUsecase) Get(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if !actor.Authenticated() {
		return OrderOutput{}, Unauthorized()
	}
	o, err := u.findOrder(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}
	if !actor.IsAdmin() {
		c, err := u.customers.FindByUserID(ctx, actor.UserID)
		if err != nil || c.ID != o.CustomerID {
			// 他人の注文は存在を見せない
			return OrderOutput{}, NotFound("")
		}
	}
	return toOrderOutput(o), nil
}

func (u *OrderUsecase) findOrder(ctx context.Context, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, NotFound("")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NotFound("")
	}
	if err != nil {
		return model.Order{}, dbError()
	}
	return o, nil
}

func toOrderOutput(o model.Order) OrderOutput {
	items := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemOutput{
			ID:        it.ID,
			Product:   toItemProductOutput(it.Product),
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		})
	}
	return OrderOutput{
		ID:            o.ID,
		Customer:      o.CustomerID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: string(o.PaymentStatus),
		Items:         items,
	}
}

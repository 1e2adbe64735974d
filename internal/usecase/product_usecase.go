package usecase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	taxRate  = decimal.RequireFromString("1.1")
	minPrice = decimal.NewFromInt(1)
	maxPrice = decimal.RequireFromString("9999.99")
)

// 画像の保存先（Cloudinary / ローカル）
type ImageStorage interface {
	Save(ctx context.Context, productID int64, filename string, r io.Reader) (url string, storageID string, err error)
	Delete(ctx context.Context, storageID string) error
}

type ProductImageOutput struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

type ProductOutput struct {
	ID              int64                `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Price           string               `json:"price"`
	Slug            string               `json:"slug"`
	Inventory       int64                `json:"inventory"`
	InventoryStatus string               `json:"inventory_status"`
	LastUpdate      time.Time            `json:"last_update"`
	Images          []ProductImageOutput `json:"images"`
	Collection      int64                `json:"collection"`
	PriceWithTax    string               `json:"price_with_tax"`
}

// GET /store/products の入力DTO
type ListProductsInput struct {
	Page            int
	Limit           int
	Search          string
	CollectionID    *int64
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	InventoryStatus string
	Ordering        string
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 作成はすべて必須、更新はnilの項目をそのまま
type ProductInput struct {
	Title        *string
	Description  *string
	Price        *decimal.Decimal
	Inventory    *int64
	CollectionID *int64
}

type ClearInventoryOutput struct {
	Updated int64 `json:"updated"`
}

type ProductUsecase struct {
	products    repo.ProductRepository
	images      repo.ProductImageRepository
	collections repo.CollectionRepository
	tx          repo.TransactionManager
	auditRepo   repo.AuditLogRepository
	storage     ImageStorage
	log         *zap.Logger
}

// DI
func NewProductUsecase(
	products repo.ProductRepository,
	images repo.ProductImageRepository,
	collections repo.CollectionRepository,
	tx repo.TransactionManager,
	auditRepo repo.AuditLogRepository,
	storage ImageStorage,
	log *zap.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		products:    products,
		images:      images,
		collections: collections,
		tx:          tx,
		auditRepo:   auditRepo,
		storage:     storage,
		log:         log,
	}
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, FieldError("page", "Invalid page.")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, FieldError("page_size", "Ensure this value is between 1 and 100.")
	}
	if len(in.Search) > 100 {
		return ProductListOutput{}, FieldError("search", "Ensure this field has no more than 100 characters.")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, FieldError("min_price", "min_price must be <= max_price")
	}
	switch in.InventoryStatus {
	case "", "low", "ok":
	default:
		return ProductListOutput{}, FieldError("inventory_status", "Select a valid choice. That choice is not one of the available choices.")
	}
	switch in.Ordering {
	case "", "price", "-price", "last_update", "-last_update":
	default:
		return ProductListOutput{}, FieldError("ordering", "Select a valid choice. That choice is not one of the available choices.")
	}

	items, total, err := u.products.List(ctx, repo.ProductListQuery{
		Page:            in.Page,
		Limit:           in.Limit,
		Search:          strings.TrimSpace(in.Search),
		CollectionID:    in.CollectionID,
		MinPrice:        in.MinPrice,
		MaxPrice:        in.MaxPrice,
		InventoryStatus: in.InventoryStatus,
		Ordering:        in.Ordering,
	})
	if err != nil {
		return ProductListOutput{}, dbError()
	}

	out := make([]ProductOutput, 0, len(items))
	for _, p := range items {
		out = append(out, toProductOutput(p))
	}
	return ProductListOutput{
		Items: out,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (ProductOutput, error) {
	p, err := u.find(ctx, id)
	if err != nil {
		return ProductOutput{}, err
	}
	return toProductOutput(p), nil
}

func (u *ProductUsecase) find(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NotFound("")
	}
	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NotFound("")
	}
	if err != nil {
		return model.Product{}, dbError()
	}
	return p, nil
}

func (u *ProductUsecase) Create(ctx context.Context, actor Actor, in ProductInput) (ProductOutput, error) {
	if !actor.IsAdmin() {
		return ProductOutput{}, PermissionDenied()
	}

	missing := map[string][]string{}
	if in.Title == nil {
		missing["title"] = []string{"This field is required."}
	}
	if in.Price == nil {
		missing["price"] = []string{"This field is required."}
	}
	if in.Inventory == nil {
		missing["inventory"] = []string{"This field is required."}
	}
	if in.CollectionID == nil {
		missing["collection"] = []string{"This field is required."}
	}
	if len(missing) > 0 {
		return ProductOutput{}, FieldsError(missing)
	}

	p := model.Product{}
	applyProductInput(&p, in)
	if err := u.validate(ctx, p); err != nil {
		return ProductOutput{}, err
	}

	created, err := u.products.Create(ctx, p)
	if errors.Is(err, repo.ErrConflict) {
		return ProductOutput{}, IntegrityConflict("product with this slug already exists.")
	}
	if err != nil {
		return ProductOutput{}, dbError()
	}
	created.Images = []model.ProductImage{}
	return toProductOutput(created), nil
}

// 読み込み→変更→保存（slugはフックで再生成）
func (u *ProductUsecase) Update(ctx context.Context, actor Actor, id int64, in ProductInput) (ProductOutput, error) {
	if !actor.IsAdmin() {
		return ProductOutput{}, PermissionDenied()
	}

	p, err := u.find(ctx, id)
	if err != nil {
		return ProductOutput{}, err
	}
	applyProductInput(&p, in)
	if err := u.validate(ctx, p); err != nil {
		return ProductOutput{}, err
	}

	updated, err := u.products.Update(ctx, p)
	if errors.Is(err, repo.ErrConflict) {
		return ProductOutput{}, IntegrityConflict("product with this slug already exists.")
	}
	if err != nil {
		return ProductOutput{}, dbError()
	}
	return toProductOutput(updated), nil
}

// 注文明細から参照されていれば409
func (u *ProductUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if !actor.IsAdmin() {
		return PermissionDenied()
	}

	before, err := u.find(ctx, id)
	if err != nil {
		return err
	}

	err = u.products.Delete(ctx, id)
	switch {
	case errors.Is(err, repo.ErrProtected):
		return IntegrityConflict("Product can't be deleted because it's associated with orderitem")
	case errors.Is(err, repo.ErrNotFound):
		return NotFound("")
	case err != nil:
		return dbError()
	}

	// DBから消えた後のファイル削除はベストエフォート
	for _, img := range before.Images {
		u.removeStored(ctx, img)
	}

	writeAudit(ctx, u.log, u.auditRepo, actor, model.AuditActionDelete, model.AuditResourceProduct, id, toProductOutput(before), nil)
	return nil
}

// 指定商品の在庫を0に（管理者）
func (u *ProductUsecase) ClearInventory(ctx context.Context, actor Actor, ids []int64) (ClearInventoryOutput, error) {
	if !actor.IsAdmin() {
		return ClearInventoryOutput{}, PermissionDenied()
	}
	if len(ids) == 0 {
		return ClearInventoryOutput{}, FieldError("product_ids", "This list may not be empty.")
	}

	var out ClearInventoryOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		type snapshot struct {
			ID        int64 `json:"id"`
			Inventory int64 `json:"inventory"`
		}
		befores := make([]snapshot, 0, len(ids))
		found := make([]int64, 0, len(ids))
		for _, id := range ids {
			p, err := r.Products().FindByID(ctx, id)
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			if err != nil {
				return dbError()
			}
			befores = append(befores, snapshot{ID: p.ID, Inventory: p.Inventory})
			found = append(found, p.ID)
		}

		n, err := r.Products().ClearInventory(ctx, found)
		if err != nil {
			return dbError()
		}
		out.Updated = n

		for _, b := range befores {
			writeAudit(ctx, u.log, r.AuditLogs(), actor, model.AuditActionClearInventory, model.AuditResourceProduct, b.ID,
				b, snapshot{ID: b.ID, Inventory: 0})
		}
		return nil
	})
	if err != nil {
		return ClearInventoryOutput{}, err
	}
	return out, nil
}

func (u *ProductUsecase) ListImages(ctx context.Context, productID int64) ([]ProductImageOutput, error) {
	if _, err := u.find(ctx, productID); err != nil {
		return nil, err
	}
	imgs, err := u.images.ListByProductID(ctx, productID)
	if err != nil {
		return nil, dbError()
	}
	out := make([]ProductImageOutput, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, ProductImageOutput{ID: img.ID, Image: img.Image})
	}
	return out, nil
}

func (u *ProductUsecase) GetImage(ctx context.Context, productID int64, imageID int64) (ProductImageOutput, error) {
	img, err := u.images.FindByID(ctx, productID, imageID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductImageOutput{}, NotFound("")
	}
	if err != nil {
		return ProductImageOutput{}, dbError()
	}
	return ProductImageOutput{ID: img.ID, Image: img.Image}, nil
}

var allowedImageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

func (u *ProductUsecase) UploadImage(ctx context.Context, actor Actor, productID int64, filename string, r io.Reader) (ProductImageOutput, error) {
	if !actor.IsAdmin() {
		return ProductImageOutput{}, PermissionDenied()
	}
	if _, err := u.find(ctx, productID); err != nil {
		return ProductImageOutput{}, err
	}
	if _, ok := allowedImageExts[strings.ToLower(filepath.Ext(filename))]; !ok {
		return ProductImageOutput{}, FieldError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	url, storageID, err := u.storage.Save(ctx, productID, filename, r)
	if err != nil {
		u.log.Error("image upload failed", zap.Int64("product_id", productID), zap.Error(err))
		return ProductImageOutput{}, NewHTTPError(http.StatusBadGateway, "image storage error")
	}

	img, err := u.images.Create(ctx, model.ProductImage{ProductID: productID, Image: url, StorageID: storageID})
	if err != nil {
		u.removeStored(ctx, model.ProductImage{ProductID: productID, StorageID: storageID})
		return ProductImageOutput{}, dbError()
	}
	return ProductImageOutput{ID: img.ID, Image: img.Image}, nil
}

func (u *ProductUsecase) DeleteImage(ctx context.Context, actor Actor, productID int64, imageID int64) error {
	if !actor.IsAdmin() {
		return PermissionDenied()
	}
	img, err := u.images.FindByID(ctx, productID, imageID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound("")
	}
	if err != nil {
		return dbError()
	}
	if err := u.images.Delete(ctx, productID, imageID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("")
		}
		return dbError()
	}
	u.removeStored(ctx, img)
	return nil
}

func (u *ProductUsecase) removeStored(ctx context.Context, img model.ProductImage) {
	if u.storage == nil || img.StorageID == "" {
		return
	}
	if err := u.storage.Delete(ctx, img.StorageID); err != nil {
		u.log.Warn("stored image delete failed",
			zap.Int64("product_id", img.ProductID),
			zap.String("storage_id", img.StorageID),
			zap.Error(err),
		)
	}
}

func (u *ProductUsecase) validate(ctx context.Context, p model.Product) error {
	fields := map[string][]string{}

	title := strings.TrimSpace(p.Title)
	switch {
	case title == "":
		fields["title"] = []string{"This field may not be blank."}
	case len(title) > 255:
		fields["title"] = []string{"Ensure this field has no more than 255 characters."}
	}
	if p.Price.LessThan(minPrice) {
		fields["price"] = []string{"Ensure this value is greater than or equal to 1."}
	} else if p.Price.GreaterThan(maxPrice) {
		fields["price"] = []string{"Ensure that there are no more than 6 digits in total."}
	} else if !p.Price.Equal(p.Price.Round(2)) {
		fields["price"] = []string{"Ensure that there are no more than 2 decimal places."}
	}
	if p.Inventory < 0 {
		fields["inventory"] = []string{"Ensure this value is greater than or equal to 0."}
	}
	if len(fields) > 0 {
		return FieldsError(fields)
	}

	if _, err := u.collections.FindByID(ctx, p.CollectionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return FieldError("collection", "Invalid pk - object does not exist.")
		}
		return dbError()
	}
	return nil
}

func applyProductInput(p *model.Product, in ProductInput) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Inventory != nil {
		p.Inventory = *in.Inventory
	}
	if in.CollectionID != nil {
		p.CollectionID = *in.CollectionID
	}
}

// 税込み = price × 1.1（小数2桁）
func PriceWithTax(price decimal.Decimal) decimal.Decimal {
	return price.Mul(taxRate).Round(2)
}

func toProductOutput(p model.Product) ProductOutput {
	images := make([]ProductImageOutput, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ProductImageOutput{ID: img.ID, Image: img.Image})
	}
	status := "ok"
	if p.IsLowInventory() {
		status = "low"
	}
	return ProductOutput{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Price:           p.Price.StringFixed(2),
		Slug:            p.Slug,
		Inventory:       p.Inventory,
		InventoryStatus: status,
		LastUpdate:      p.LastUpdate,
		Images:          images,
		Collection:      p.CollectionID,
		PriceWithTax:    PriceWithTax(p.Price).StringFixed(2),
	}
}

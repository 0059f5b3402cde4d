package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"rpos/internal/config"
	"rpos/internal/domain/model"
	repo "rpos/internal/repository"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

type CatalogUsecase struct {
	cfg   config.Config
	tx    repo.TransactionManager
	token TokenGenerator
}

func NewCatalogUsecase(cfg config.Config, tx repo.TransactionManager, token TokenGenerator) *CatalogUsecase {
	return &CatalogUsecase{cfg: cfg, tx: tx, token: token}
}

type RestaurantInput struct {
	Name                 string          `json:"name"`
	Address              string          `json:"address"`
	Phone                string          `json:"phone"`
	VATPercent           decimal.Decimal `json:"vat_percent"`
	ServiceChargePercent decimal.Decimal `json:"service_charge_percent"`
}

// CreateRestaurantは1オーナー1店舗。2店舗目は409。
func (u *CatalogUsecase) CreateRestaurant(ctx context.Context, ownerID int64, in RestaurantInput) (model.Restaurant, error) {
	if ownerID <= 0 {
		return model.Restaurant{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Restaurant{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if in.VATPercent.IsNegative() || in.ServiceChargePercent.IsNegative() {
		return model.Restaurant{}, NewHTTPError(http.StatusBadRequest, "percent must not be negative")
	}

	var out model.Restaurant
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Restaurants().FindByOwnerID(ctx, ownerID); err == nil {
			return NewHTTPError(http.StatusConflict, "restaurant already exists")
		} else if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		slug := slugify(name)
		if slug == "" {
			slug = shortID(u.token.NewToken())
		}
		//slug衝突は後勝ちにせずサフィックスで逃がす
		if _, err := r.Restaurants().FindBySlug(ctx, slug); err == nil {
			slug = fmt.Sprintf("%s-%s", slug, shortID(u.token.NewToken()))
		} else if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		restaurant := model.Restaurant{
			OwnerID:              ownerID,
			Name:                 name,
			Slug:                 slug,
			Address:              strings.TrimSpace(in.Address),
			Phone:                strings.TrimSpace(in.Phone),
			IsActive:             true,
			VATPercent:           in.VATPercent,
			ServiceChargePercent: in.ServiceChargePercent,
		}
		id, err := r.Restaurants().Create(ctx, restaurant)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created, err := r.Restaurants().FindByID(ctx, id)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = created
		return nil
	})
	if err != nil {
		return model.Restaurant{}, err
	}
	return out, nil
}

// UpdateRestaurantは名前・連絡先・税率の更新。slugは変えない
// （印刷済みQRのURLを生かすため）。
func (u *CatalogUsecase) UpdateRestaurant(ctx context.Context, ownerID int64, in RestaurantInput) (model.Restaurant, error) {
	if ownerID <= 0 {
		return model.Restaurant{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.VATPercent.IsNegative() || in.ServiceChargePercent.IsNegative() {
		return model.Restaurant{}, NewHTTPError(http.StatusBadRequest, "percent must not be negative")
	}

	var out model.Restaurant
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := r.Restaurants().FindByOwnerID(ctx, ownerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if name := strings.TrimSpace(in.Name); name != "" {
			restaurant.Name = name
		}
		restaurant.Address = strings.TrimSpace(in.Address)
		restaurant.Phone = strings.TrimSpace(in.Phone)
		restaurant.VATPercent = in.VATPercent
		restaurant.ServiceChargePercent = in.ServiceChargePercent

		if err := r.Restaurants().Update(ctx, restaurant); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = restaurant
		return nil
	})
	if err != nil {
		return model.Restaurant{}, err
	}
	return out, nil
}

func (u *CatalogUsecase) MyRestaurant(ctx context.Context, ownerID int64) (model.Restaurant, error) {
	if ownerID <= 0 {
		return model.Restaurant{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var out model.Restaurant
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := r.Restaurants().FindByOwnerID(ctx, ownerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = restaurant
		return nil
	})
	return out, err
}

type CreateTableInput struct {
	Name string `json:"name"`
}

func (u *CatalogUsecase) CreateTable(ctx context.Context, ownerID int64, in CreateTableInput) (model.Table, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Table{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	var out model.Table
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}

		table := model.Table{
			RestaurantID: restaurant.ID,
			Name:         name,
			AccessToken:  u.token.NewToken(),
		}
		id, err := r.Tables().Create(ctx, table)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		table.ID = id
		out = table
		return nil
	})
	if err != nil {
		return model.Table{}, err
	}
	return out, nil
}

func (u *CatalogUsecase) ListTables(ctx context.Context, ownerID int64) ([]model.Table, error) {
	var out []model.Table
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}
		tables, err := r.Tables().ListByRestaurantID(ctx, restaurant.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = tables
		return nil
	})
	return out, err
}

func (u *CatalogUsecase) DeleteTable(ctx context.Context, ownerID int64, tableID int64) error {
	if tableID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}
		if err := r.Tables().Delete(ctx, tableID, restaurant.ID); err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "table not found")
		} else if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// TableQRは卓のQRコードPNGを返す。中身は客側メニューの公開URL。
func (u *CatalogUsecase) TableQR(ctx context.Context, ownerID int64, tableID int64) ([]byte, error) {
	if tableID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var url string
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}
		table, err := r.Tables().FindByID(ctx, tableID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "table not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if table.RestaurantID != restaurant.ID {
			return NewHTTPError(http.StatusNotFound, "table not found")
		}
		url = fmt.Sprintf("%s/dining/%s/%s", u.cfg.PublicBaseURL, restaurant.Slug, table.AccessToken)
		return nil
	})
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return png, nil
}

type CategoryInput struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

func (u *CatalogUsecase) CreateCategory(ctx context.Context, ownerID int64, in CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	var out model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}
		category := model.Category{
			RestaurantID: restaurant.ID,
			Name:         name,
			SortOrder:    in.SortOrder,
		}
		id, err := r.Catalog().CreateCategory(ctx, category)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		category.ID = id
		out = category
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}
	return out, nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context, ownerID int64) ([]model.Category, error) {
	var out []model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}
		categories, err := r.Catalog().ListCategories(ctx, restaurant.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = categories
		return nil
	})
	return out, err
}

func (u *CatalogUsecase) DeleteCategory(ctx context.Context, ownerID int64, categoryID int64) error {
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}
		if err := r.Catalog().DeleteCategory(ctx, categoryID, restaurant.ID); err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "category not found")
		} else if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

type MenuItemInput struct {
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available"`
}

func (u *CatalogUsecase) CreateMenuItem(ctx context.Context, ownerID int64, in MenuItemInput) (model.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID <= 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "name and category are required")
	}
	if in.Price.IsNegative() {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}

	var out model.MenuItem
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}

		available := true
		if in.IsAvailable != nil {
			available = *in.IsAvailable
		}
		item := model.MenuItem{
			RestaurantID: restaurant.ID,
			CategoryID:   in.CategoryID,
			Name:         name,
			Description:  strings.TrimSpace(in.Description),
			Price:        in.Price,
			IsAvailable:  available,
		}
		id, err := r.Catalog().CreateMenuItem(ctx, item)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		item.ID = id
		out = item
		return nil
	})
	if err != nil {
		return model.MenuItem{}, err
	}
	return out, nil
}

func (u *CatalogUsecase) UpdateMenuItem(ctx context.Context, ownerID int64, menuItemID int64, in MenuItemInput) (model.MenuItem, error) {
	if menuItemID <= 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Price.IsNegative() {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}

	var out model.MenuItem
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}

		item, err := r.Catalog().FindMenuItem(ctx, menuItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if item.RestaurantID != restaurant.ID {
			return NewHTTPError(http.StatusNotFound, "menu item not found")
		}

		//価格変更は過去の注文に波及しない（注文側がスナップショットを持つ）
		if name := strings.TrimSpace(in.Name); name != "" {
			item.Name = name
		}
		if in.CategoryID > 0 {
			item.CategoryID = in.CategoryID
		}
		item.Description = strings.TrimSpace(in.Description)
		item.Price = in.Price
		if in.IsAvailable != nil {
			item.IsAvailable = *in.IsAvailable
		}

		if err := r.Catalog().UpdateMenuItem(ctx, item); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = item
		return nil
	})
	if err != nil {
		return model.MenuItem{}, err
	}
	return out, nil
}

func (u *CatalogUsecase) DeleteMenuItem(ctx context.Context, ownerID int64, menuItemID int64) error {
	if menuItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}
		if err := r.Catalog().DeleteMenuItem(ctx, menuItemID, restaurant.ID); err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "menu item not found")
		} else if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *CatalogUsecase) ListMenuItems(ctx context.Context, ownerID int64) ([]model.MenuItem, error) {
	var out []model.MenuItem
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := u.requireRestaurant(ctx, r, ownerID)
		if err != nil {
			return err
		}
		items, err := r.Catalog().ListMenuItems(ctx, restaurant.ID, false)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = items
		return nil
	})
	return out, err
}

type DiningCategory struct {
	ID    int64            `json:"id"`
	Name  string           `json:"name"`
	Items []model.MenuItem `json:"items"`
}

type DiningMenuOutput struct {
	RestaurantName string           `json:"restaurant_name"`
	TableName      string           `json:"table_name"`
	Categories     []DiningCategory `json:"categories"`
}

// DiningMenuは客側の公開メニュー。slugとテーブルトークンの両方が
// 合わないと出さない。売り切れ（IsAvailable=false）は隠す。
func (u *CatalogUsecase) DiningMenu(ctx context.Context, slug string, tableToken string) (DiningMenuOutput, error) {
	slug = strings.TrimSpace(slug)
	token := strings.TrimSpace(tableToken)
	if slug == "" || token == "" {
		return DiningMenuOutput{}, NewHTTPError(http.StatusBadRequest, "missing slug or token")
	}

	var out DiningMenuOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := r.Restaurants().FindBySlug(ctx, slug)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !restaurant.IsActive {
			return NewHTTPError(http.StatusForbidden, "restaurant suspended")
		}

		table, err := r.Tables().FindByToken(ctx, token)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "table not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if table.RestaurantID != restaurant.ID {
			return NewHTTPError(http.StatusNotFound, "table not found")
		}

		categories, err := r.Catalog().ListCategories(ctx, restaurant.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items, err := r.Catalog().ListMenuItems(ctx, restaurant.ID, true)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		byCategory := make(map[int64][]model.MenuItem, len(categories))
		for _, item := range items {
			byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
		}

		out = DiningMenuOutput{
			RestaurantName: restaurant.Name,
			TableName:      table.Name,
			Categories:     make([]DiningCategory, 0, len(categories)),
		}
		for _, c := range categories {
			group := byCategory[c.ID]
			if len(group) == 0 {
				//空カテゴリは客側に出さない
				continue
			}
			out.Categories = append(out.Categories, DiningCategory{
				ID:    c.ID,
				Name:  c.Name,
				Items: group,
			})
		}
		return nil
	})
	if err != nil {
		return DiningMenuOutput{}, err
	}
	return out, nil
}

func (u *CatalogUsecase) requireRestaurant(ctx context.Context, r repo.TxRepos, ownerID int64) (model.Restaurant, error) {
	if ownerID <= 0 {
		return model.Restaurant{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	restaurant, err := r.Restaurants().FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return model.Restaurant{}, NewHTTPError(http.StatusNotFound, "restaurant not found")
	}
	if err != nil {
		return model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return restaurant, nil
}

// slugifyは英数字以外を-に潰した小文字スラッグを返す。
// 全部潰れたら空文字（呼び出し側でフォールバック）。
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func shortID(token string) string {
	token = strings.ReplaceAll(token, "-", "")
	if len(token) > 8 {
		return token[:8]
	}
	return token
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"rpos/internal/domain/model"
	"rpos/internal/realtime"
	repo "rpos/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx  repo.TransactionManager
	pub realtime.Publisher
	log *slog.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, pub realtime.Publisher, log *slog.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, pub: pub, log: log}
}

type CartLine struct {
	MenuItemID int64  `json:"id"`
	Quantity   int64  `json:"qty"`
	Note       string `json:"note"`
}

type CreateOrderInput struct {
	TableToken   string
	SessionToken string
	Cart         []CartLine
}

type CreateOrderOutput struct {
	OrderID    int64           `json:"order_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	ItemCount  int             `json:"item_count"`
}

// CreateOrderはカート送信から注文を作る。
// メニューIDが解決できない行はエラーにせず読み飛ばす
// （客側のカートが古いメニューを持っている場合の許容）。
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderOutput, error) {
	token := strings.TrimSpace(in.TableToken)
	if token == "" || len(in.Cart) == 0 {
		return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, "incomplete order data")
	}

	var out CreateOrderOutput
	var restaurantID int64
	var summary realtime.OrderSummary

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		table, err := r.Tables().FindByToken(ctx, token)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "table not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		restaurant, err := r.Restaurants().FindByID(ctx, table.RestaurantID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !restaurant.IsActive {
			return NewHTTPError(http.StatusForbidden, "restaurant suspended")
		}

		tableID := table.ID
		orderID, err := r.Orders().Create(ctx, model.Order{
			RestaurantID: restaurant.ID,
			TableID:      &tableID,
			SessionToken: in.SessionToken,
			Status:       model.OrderStatusPending,
			TotalPrice:   decimal.Zero,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//行ごとに現在価格をスナップショット
		items := make([]model.OrderItem, 0, len(in.Cart))
		total := decimal.Zero
		itemLabels := make([]string, 0, len(in.Cart))

		for _, line := range in.Cart {
			if line.Quantity <= 0 {
				continue
			}

			menu, err := r.Catalog().FindMenuItem(ctx, line.MenuItemID)
			if err == repo.ErrNotFound {
				//削除済み・不明なメニューは読み飛ばす
				continue
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if menu.RestaurantID != restaurant.ID {
				continue
			}

			items = append(items, model.OrderItem{
				MenuItemID:   menu.ID,
				NameSnapshot: menu.Name,
				Price:        menu.Price,
				Quantity:     line.Quantity,
				Note:         line.Note,
			})
			total = total.Add(menu.Price.Mul(decimal.NewFromInt(line.Quantity)))
			itemLabels = append(itemLabels, fmt.Sprintf("%s x%d", menu.Name, line.Quantity))
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().UpdateTotal(ctx, orderID, total); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		restaurantID = restaurant.ID
		summary = realtime.OrderSummary{
			ID:         orderID,
			Table:      table.Name,
			TotalPrice: total.StringFixed(2),
			Items:      itemLabels,
			CreatedAt:  created.CreatedAt.Format("15:04"),
		}
		out = CreateOrderOutput{
			OrderID:    orderID,
			TotalPrice: total,
			ItemCount:  len(items),
		}
		return nil
	})
	if err != nil {
		return CreateOrderOutput{}, err
	}

	fanout(u.log, u.pub, restaurantID, realtime.NewOrderNotification("New Order Received", summary))
	return out, nil
}

type UpdateOrderStatusInput struct {
	Status string
}

// UpdateStatusはFSMで遷移を検証する。
// 同一ステータスへの「遷移」はno-op成功。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, ownerID int64, orderID int64, in UpdateOrderStatusInput) error {
	if ownerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	next, ok := model.ParseOrderStatus(in.Status)
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var restaurantID int64
	changed := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := r.Restaurants().FindByOwnerID(ctx, ownerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if order.RestaurantID != restaurant.ID {
			//他店の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if order.Status == next {
			return nil
		}
		if !order.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("illegal status transition %s -> %s", order.Status, next))
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		restaurantID = restaurant.ID
		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		fanout(u.log, u.pub, restaurantID, realtime.NewOrderNotification("Order Updated", realtime.OrderSummary{
			ID:          orderID,
			Status:      string(next),
			RefreshOnly: true,
		}))
	}
	return nil
}

// DeleteItemはスタッフの訂正用。親Orderの合計から行の金額を引き、
// 過去のズレがあってもマイナスにはしない。
func (u *OrderUsecase) DeleteItem(ctx context.Context, ownerID int64, itemID int64) error {
	if ownerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := r.Restaurants().FindByOwnerID(ctx, ownerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		item, err := r.OrderItems().FindByID(ctx, itemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order, err := r.Orders().FindByID(ctx, item.OrderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if order.RestaurantID != restaurant.ID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if err := r.OrderItems().Delete(ctx, itemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		newTotal := order.TotalPrice.Sub(item.LineTotal())
		if newTotal.IsNegative() {
			newTotal = decimal.Zero
		}
		if err := r.Orders().UpdateTotal(ctx, order.ID, newTotal); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

type HistoryItem struct {
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	OrderedAt string          `json:"time"`
}

type TableHistoryOutput struct {
	Items      []HistoryItem   `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// TableHistoryは客側の「いままで頼んだもの」一覧。
// 未会計・未キャンセルの注文だけを古い順で平らに返す。
func (u *OrderUsecase) TableHistory(ctx context.Context, tableToken string) (TableHistoryOutput, error) {
	token := strings.TrimSpace(tableToken)
	if token == "" {
		return TableHistoryOutput{}, NewHTTPError(http.StatusBadRequest, "missing table token")
	}

	out := TableHistoryOutput{Items: []HistoryItem{}, GrandTotal: decimal.Zero}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		table, err := r.Tables().FindByToken(ctx, token)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "table not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orders, err := r.Orders().ListActiveByTableID(ctx, table.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for _, order := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, order.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, item := range items {
				lineTotal := item.LineTotal()
				out.GrandTotal = out.GrandTotal.Add(lineTotal)
				out.Items = append(out.Items, HistoryItem{
					Name:      item.NameSnapshot,
					Quantity:  item.Quantity,
					Price:     item.Price,
					Total:     lineTotal,
					Status:    string(order.Status),
					OrderedAt: order.CreatedAt.Format("15:04"),
				})
			}
		}
		return nil
	})
	if err != nil {
		return TableHistoryOutput{}, err
	}
	return out, nil
}

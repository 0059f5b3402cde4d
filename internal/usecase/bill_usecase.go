package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rpos/internal/domain/model"
	repo "rpos/internal/repository"

	"github.com/shopspring/decimal"
)

type BillUsecase struct {
	tx repo.TransactionManager
}

func NewBillUsecase(tx repo.TransactionManager) *BillUsecase {
	return &BillUsecase{tx: tx}
}

// 伝票の1行。同一メニュー・同一スナップショット価格の行をまとめたもの。
type BillLine struct {
	MenuItemID int64           `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int64           `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	OrderedAt  time.Time       `json:"ordered_at"`
}

type BillOutput struct {
	RestaurantID  int64           `json:"restaurant_id"`
	TableID       int64           `json:"table_id"`
	TableName     string          `json:"table_name"`
	BillNumber    string          `json:"bill_number"`
	Lines         []BillLine      `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	VAT           decimal.Decimal `json:"vat"`
	GrandTotal    decimal.Decimal `json:"grand_total"`

	// 会計時に突き合わせる元の注文ID
	OrderIDs []int64 `json:"order_ids"`
}

// 価格が途中で変わった場合は別行のまま残す（会計上の要件）
type billGroupKey struct {
	menuItemID int64
	unitPrice  string
}

// TableBillは未会計の注文から伝票を導出する。保存はしない。
func (u *BillUsecase) TableBill(ctx context.Context, ownerID int64, tableID int64) (BillOutput, error) {
	if ownerID <= 0 {
		return BillOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if tableID <= 0 {
		return BillOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out BillOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := r.Restaurants().FindByOwnerID(ctx, ownerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
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

		//作成時刻の昇順。グルーピングのlast-write-winsはこの順序に依存する。
		orders, err := r.Orders().ListActiveByTableID(ctx, tableID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(orders) == 0 {
			//ハードエラーではない。UI側でキャッシャー画面へ戻す。
			return NewHTTPError(http.StatusBadRequest, "nothing to bill")
		}

		lines := make([]BillLine, 0)
		index := make(map[billGroupKey]int)
		subtotal := decimal.Zero
		orderIDs := make([]int64, 0, len(orders))

		for _, order := range orders {
			orderIDs = append(orderIDs, order.ID)
			items, err := r.OrderItems().ListByOrderID(ctx, order.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, item := range items {
				lineTotal := item.LineTotal()
				subtotal = subtotal.Add(lineTotal)

				key := billGroupKey{menuItemID: item.MenuItemID, unitPrice: item.Price.String()}
				if i, ok := index[key]; ok {
					lines[i].Quantity += item.Quantity
					lines[i].Total = lines[i].Total.Add(lineTotal)
					//表示用のステータス・時刻は最後に寄与した注文のもの
					lines[i].Status = string(order.Status)
					lines[i].OrderedAt = order.CreatedAt
					continue
				}
				index[key] = len(lines)
				lines = append(lines, BillLine{
					MenuItemID: item.MenuItemID,
					Name:       item.NameSnapshot,
					UnitPrice:  item.Price,
					Quantity:   item.Quantity,
					Total:      lineTotal,
					Status:     string(order.Status),
					OrderedAt:  order.CreatedAt,
				})
			}
		}

		serviceCharge, vat, grandTotal := ComputeCharges(subtotal,
			restaurant.ServiceChargePercent, restaurant.VATPercent)

		out = BillOutput{
			RestaurantID:  restaurant.ID,
			TableID:       table.ID,
			TableName:     table.Name,
			BillNumber:    billNumber(orders),
			Lines:         lines,
			Subtotal:      subtotal,
			ServiceCharge: serviceCharge,
			VAT:           vat,
			GrandTotal:    grandTotal,
			OrderIDs:      orderIDs,
		}
		return nil
	})
	if err != nil {
		return BillOutput{}, err
	}
	return out, nil
}

// ComputeChargesはサービス料→VATの順で掛ける（tax-on-tax）。
// vat = (subtotal + service) * vatPercent / 100
func ComputeCharges(subtotal, servicePercent, vatPercent decimal.Decimal) (serviceCharge, vat, grandTotal decimal.Decimal) {
	hundred := decimal.NewFromInt(100)

	serviceCharge = subtotal.Mul(servicePercent).Div(hundred)
	afterService := subtotal.Add(serviceCharge)
	vat = afterService.Mul(vatPercent).Div(hundred)
	grandTotal = afterService.Add(vat)
	return serviceCharge, vat, grandTotal
}

// 伝票番号は「当日の日付＋最初の注文ID」。注文がなければプレースホルダ。
func billNumber(orders []model.Order) string {
	if len(orders) == 0 {
		return "--------"
	}
	first := orders[0]
	return fmt.Sprintf("%s-%d", first.CreatedAt.Format("20060102"), first.ID)
}

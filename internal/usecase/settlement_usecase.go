package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rpos/internal/realtime"
	repo "rpos/internal/repository"
)

// TokenGenerator はテーブルの新しいアクセストークンを払い出す。
// 実装はmain側で注入する。
type TokenGenerator interface {
	NewToken() string
}

type SettlementUsecase struct {
	tx    repo.TransactionManager
	pub   realtime.Publisher
	token TokenGenerator
	log   *slog.Logger
	now   func() time.Time
}

func NewSettlementUsecase(tx repo.TransactionManager, pub realtime.Publisher, token TokenGenerator, log *slog.Logger) *SettlementUsecase {
	return &SettlementUsecase{
		tx:    tx,
		pub:   pub,
		token: token,
		log:   log,
		now:   time.Now,
	}
}

type CloseBillInput struct {
	PaymentMethod string `json:"payment_method"`
}

type CloseBillOutput struct {
	TableID      int64  `json:"table_id"`
	SettledCount int64  `json:"settled_count"`
	TokenRotated bool   `json:"token_rotated"`
	NewToken     string `json:"-"`
}

// CloseBillはテーブルの未会計注文を一括で会計済みにし、
// アクセストークンを張り替えて古いQRを無効化する。
// 会計対象が無ければ何もしない（冪等）。
//
// テーブル行をFOR UPDATEで取るので、同じテーブルへの同時会計は
// 直列化され、二重のトークン張り替えは起きない。
func (u *SettlementUsecase) CloseBill(ctx context.Context, ownerID int64, tableID int64, in CloseBillInput) (CloseBillOutput, error) {
	if ownerID <= 0 {
		return CloseBillOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if tableID <= 0 {
		return CloseBillOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	method := strings.ToUpper(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = "CASH"
	}

	var out CloseBillOutput
	var restaurantID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		restaurant, err := r.Restaurants().FindByOwnerID(ctx, ownerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		table, err := r.Tables().FindByIDForUpdate(ctx, tableID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "table not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if table.RestaurantID != restaurant.ID {
			return NewHTTPError(http.StatusNotFound, "table not found")
		}

		settled, err := r.Orders().SettleActiveByTableID(ctx, tableID, method, u.now())
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = CloseBillOutput{TableID: tableID, SettledCount: settled}
		restaurantID = restaurant.ID

		if settled == 0 {
			//会計対象なし。トークンも触らない。
			return nil
		}

		newToken := u.token.NewToken()
		if err := r.Tables().RotateToken(ctx, tableID, newToken); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out.TokenRotated = true
		out.NewToken = newToken
		return nil
	})
	if err != nil {
		return CloseBillOutput{}, err
	}

	if out.SettledCount > 0 {
		//キャッシャー画面の更新→客側の支払い表示の消込、の順
		fanout(u.log, u.pub, restaurantID,
			realtime.RefreshTables(),
			realtime.HideCustomerPayment(),
		)
	}
	return out, nil
}

package realtime

import "context"

// サーバー→クライアントは type、クライアント→サーバー（再配布）は command で判別する
const (
	TypeOrderNotification   = "order_notification"
	TypeShowCustomerPayment = "show_customer_payment"
	TypeHideCustomerPayment = "hide_customer_payment"

	CommandRefreshTables       = "refresh_tables"
	CommandShowCustomerPayment = "show_customer_payment"
	CommandHideCustomerPayment = "hide_customer_payment"
)

// ダッシュボードに出す注文サマリ
type OrderSummary struct {
	ID          int64    `json:"id"`
	Table       string   `json:"table,omitempty"`
	TotalPrice  string   `json:"total_price,omitempty"`
	Items       []string `json:"items,omitempty"`
	Status      string   `json:"status,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	RefreshOnly bool     `json:"refresh_only,omitempty"`
}

// 客側ディスプレイに出す支払い明細の1行
type PaymentLine struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Total    string `json:"total"`
}

// Eventは1つの配信メッセージ。JSONでそのままクライアントへ流す。
type Event struct {
	Type    string        `json:"type,omitempty"`
	Command string        `json:"command,omitempty"`
	Message string        `json:"message,omitempty"`
	Order   *OrderSummary `json:"order,omitempty"`
	Items   []PaymentLine `json:"items,omitempty"`
	Total   string        `json:"total,omitempty"`
}

func NewOrderNotification(message string, order OrderSummary) Event {
	return Event{Type: TypeOrderNotification, Message: message, Order: &order}
}

func ShowCustomerPayment(items []PaymentLine, total string) Event {
	return Event{Type: TypeShowCustomerPayment, Items: items, Total: total}
}

func HideCustomerPayment() Event {
	return Event{Type: TypeHideCustomerPayment}
}

func RefreshTables() Event {
	return Event{Command: CommandRefreshTables}
}

// Publisherは店舗チャンネルへのfan-out。
// 配信はbest-effort：購読者ゼロでも失敗にせず、呼び出し元のリクエストを
// ブロックしないこと。
type Publisher interface {
	Publish(ctx context.Context, restaurantID int64, ev Event) error
}

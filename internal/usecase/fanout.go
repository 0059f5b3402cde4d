package usecase

import (
	"context"
	"log/slog"

	"rpos/internal/realtime"
)

// fanoutは配信をスケジュールするだけで完了を待たない。
// 失敗してもHTTPリクエストは成功のまま（ログだけ残す）。
func fanout(log *slog.Logger, pub realtime.Publisher, restaurantID int64, events ...realtime.Event) {
	go func() {
		ctx := context.Background()
		for _, ev := range events {
			if err := pub.Publish(ctx, restaurantID, ev); err != nil {
				log.Warn("realtime publish failed",
					"restaurant_id", restaurantID,
					"type", ev.Type,
					"command", ev.Command,
					"error", err,
				)
			}
		}
	}()
}

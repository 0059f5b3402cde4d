package main

import (
	"context"

	"rpos/internal/config"
	"rpos/internal/domain/model"
	"rpos/internal/handler"
	"rpos/internal/infra/db"
	infraRepo "rpos/internal/infra/repository"
	"rpos/internal/logging"
	"rpos/internal/realtime"
	"rpos/internal/server"
	"rpos/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// テーブルのアクセストークン生成。usecase.TokenGeneratorの実装。
type uuidTokenGenerator struct{}

func (g *uuidTokenGenerator) NewToken() string {
	return uuid.NewString()
}

func main() {
	//.envは無ければ実環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(cfg.LogLevel)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Owner{},
		&model.Restaurant{},
		&model.Table{},
		&model.Category{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	ownerRepo := infraRepo.NewOwnerGormRepository(gormDB)
	restaurantRepo := infraRepo.NewRestaurantGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//fan-out。REDIS_URLがあればプロセスをまたぐ。
	hub := realtime.NewHub()
	var pub realtime.Publisher = hub
	if cfg.RedisURL != "" {
		broker, err := realtime.NewRedisBroker(cfg.RedisURL, hub, log)
		if err != nil {
			panic(err)
		}
		defer broker.Close()
		go broker.Run(context.Background())
		pub = broker
		log.Info("realtime fan-out via redis")
	}

	tokenGen := &uuidTokenGenerator{}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, ownerRepo)
	catalogUC := usecase.NewCatalogUsecase(cfg, txManager, tokenGen)
	orderUC := usecase.NewOrderUsecase(txManager, pub, log)
	billUC := usecase.NewBillUsecase(txManager)
	settlementUC := usecase.NewSettlementUsecase(txManager, pub, tokenGen, log)
	dashboardUC := usecase.NewDashboardUsecase(txManager)

	//Handler生成
	h := server.Handlers{
		Auth:      handler.NewAuthHandler(authUC),
		Catalog:   handler.NewCatalogHandler(catalogUC),
		Order:     handler.NewOrderHandler(orderUC),
		Bill:      handler.NewBillHandler(billUC, settlementUC),
		Dashboard: handler.NewDashboardHandler(dashboardUC),
		Realtime:  handler.NewRealtimeHandler(hub, pub, restaurantRepo),
	}

	//Server起動
	e := server.New(cfg, log, h)
	if err := server.Start(e, cfg); err != nil {
		panic(err)
	}
}

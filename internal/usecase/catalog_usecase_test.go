package usecase_test

import (
	"context"
	"testing"

	"rpos/internal/config"
	"rpos/internal/domain/model"
	repo "rpos/internal/repository"
	"rpos/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func catalogCfg() config.Config {
	return config.Config{PublicBaseURL: "http://localhost:8080"}
}

func TestCatalogUsecase_CreateRestaurant_GeneratesSlug(t *testing.T) {
	tx := new(TxManagerMock)
	restaurantsRepo := new(RestaurantRepoMock)
	tx.Repos = &TxReposMock{restaurants: restaurantsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	restaurantsRepo.On("FindByOwnerID", mock.Anything, int64(1)).
		Return(model.Restaurant{}, repo.ErrNotFound)
	restaurantsRepo.On("FindBySlug", mock.Anything, "tokyo-ramen-bar").
		Return(model.Restaurant{}, repo.ErrNotFound)
	restaurantsRepo.On("Create", mock.Anything, mock.MatchedBy(func(r model.Restaurant) bool {
		return r.Slug == "tokyo-ramen-bar" && r.OwnerID == 1 && r.IsActive
	})).Return(int64(2), nil)
	restaurantsRepo.On("FindByID", mock.Anything, int64(2)).
		Return(model.Restaurant{ID: 2, Slug: "tokyo-ramen-bar"}, nil)

	uc := usecase.NewCatalogUsecase(catalogCfg(), tx, &TokenGenStub{})

	out, err := uc.CreateRestaurant(context.Background(), 1, usecase.RestaurantInput{
		Name: "  Tokyo Ramen Bar!  ",
	})
	assert.NoError(t, err)
	assert.Equal(t, "tokyo-ramen-bar", out.Slug)

	restaurantsRepo.AssertExpectations(t)
}

// 1オーナー1店舗。2店舗目は409。
func TestCatalogUsecase_CreateRestaurant_SecondRestaurantConflicts(t *testing.T) {
	tx := new(TxManagerMock)
	restaurantsRepo := new(RestaurantRepoMock)
	tx.Repos = &TxReposMock{restaurants: restaurantsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	restaurantsRepo.On("FindByOwnerID", mock.Anything, int64(1)).
		Return(model.Restaurant{ID: 2}, nil)

	uc := usecase.NewCatalogUsecase(catalogCfg(), tx, &TokenGenStub{})

	_, err := uc.CreateRestaurant(context.Background(), 1, usecase.RestaurantInput{Name: "Second"})
	assertErrContains(t, err, "already exists")
}

func TestCatalogUsecase_CreateRestaurant_NegativePercent(t *testing.T) {
	uc := usecase.NewCatalogUsecase(catalogCfg(), new(TxManagerMock), &TokenGenStub{})

	_, err := uc.CreateRestaurant(context.Background(), 1, usecase.RestaurantInput{
		Name:       "Shop",
		VATPercent: decimal.NewFromInt(-1),
	})
	assertErrContains(t, err, "must not be negative")
}

func TestCatalogUsecase_CreateTable_AssignsToken(t *testing.T) {
	tx := new(TxManagerMock)
	restaurantsRepo := new(RestaurantRepoMock)
	tablesRepo := new(TableRepoMock)
	tx.Repos = &TxReposMock{restaurants: restaurantsRepo, tables: tablesRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	restaurantsRepo.On("FindByOwnerID", mock.Anything, int64(1)).
		Return(model.Restaurant{ID: 2}, nil)
	tablesRepo.On("Create", mock.Anything, mock.MatchedBy(func(tb model.Table) bool {
		return tb.RestaurantID == 2 && tb.Name == "T1" && tb.AccessToken == "tok-a"
	})).Return(int64(5), nil)

	uc := usecase.NewCatalogUsecase(catalogCfg(), tx, &TokenGenStub{tokens: []string{"tok-a"}})

	out, err := uc.CreateTable(context.Background(), 1, usecase.CreateTableInput{Name: "T1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.ID)
	assert.Equal(t, "tok-a", out.AccessToken)

	tablesRepo.AssertExpectations(t)
}

func TestCatalogUsecase_TableQR_ReturnsPNG(t *testing.T) {
	tx := new(TxManagerMock)
	restaurantsRepo := new(RestaurantRepoMock)
	tablesRepo := new(TableRepoMock)
	tx.Repos = &TxReposMock{restaurants: restaurantsRepo, tables: tablesRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	restaurantsRepo.On("FindByOwnerID", mock.Anything, int64(1)).
		Return(model.Restaurant{ID: 2, Slug: "ramen"}, nil)
	tablesRepo.On("FindByID", mock.Anything, int64(5)).
		Return(model.Table{ID: 5, RestaurantID: 2, AccessToken: "tok-a"}, nil)

	uc := usecase.NewCatalogUsecase(catalogCfg(), tx, &TokenGenStub{})

	png, err := uc.TableQR(context.Background(), 1, 5)
	assert.NoError(t, err)
	// PNGシグネチャ
	assert.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestCatalogUsecase_TableQR_OtherRestaurantsTable_NotFound(t *testing.T) {
	tx := new(TxManagerMock)
	restaurantsRepo := new(RestaurantRepoMock)
	tablesRepo := new(TableRepoMock)
	tx.Repos = &TxReposMock{restaurants: restaurantsRepo, tables: tablesRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	restaurantsRepo.On("FindByOwnerID", mock.Anything, int64(1)).
		Return(model.Restaurant{ID: 2}, nil)
	tablesRepo.On("FindByID", mock.Anything, int64(5)).
		Return(model.Table{ID: 5, RestaurantID: 999}, nil)

	uc := usecase.NewCatalogUsecase(catalogCfg(), tx, &TokenGenStub{})

	_, err := uc.TableQR(context.Background(), 1, 5)
	assertErrContains(t, err, "table not found")
}

func TestCatalogUsecase_DiningMenu_HidesUnavailableAndEmptyCategories(t *testing.T) {
	tx := new(TxManagerMock)
	restaurantsRepo := new(RestaurantRepoMock)
	tablesRepo := new(TableRepoMock)
	catalogRepo := new(CatalogRepoMock)
	tx.Repos = &TxReposMock{restaurants: restaurantsRepo, tables: tablesRepo, catalog: catalogRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	restaurantsRepo.On("FindBySlug", mock.Anything, "ramen").
		Return(model.Restaurant{ID: 2, Name: "Ramen", IsActive: true}, nil)
	tablesRepo.On("FindByToken", mock.Anything, "tok-a").
		Return(model.Table{ID: 5, RestaurantID: 2, Name: "T1"}, nil)
	catalogRepo.On("ListCategories", mock.Anything, int64(2)).Return([]model.Category{
		{ID: 1, Name: "Noodles"},
		{ID: 2, Name: "Drinks"},
	}, nil)
	// onlyAvailable=trueで引く。Drinksには何も残っていない想定。
	catalogRepo.On("ListMenuItems", mock.Anything, int64(2), true).Return([]model.MenuItem{
		{ID: 10, CategoryID: 1, Name: "Shoyu", Price: decimal.NewFromInt(500), IsAvailable: true},
	}, nil)

	uc := usecase.NewCatalogUsecase(catalogCfg(), tx, &TokenGenStub{})

	out, err := uc.DiningMenu(context.Background(), "ramen", "tok-a")
	assert.NoError(t, err)
	assert.Equal(t, "Ramen", out.RestaurantName)
	assert.Equal(t, 1, len(out.Categories))
	assert.Equal(t, "Noodles", out.Categories[0].Name)
}

func TestCatalogUsecase_DiningMenu_SuspendedRestaurant(t *testing.T) {
	tx := new(TxManagerMock)
	restaurantsRepo := new(RestaurantRepoMock)
	tx.Repos = &TxReposMock{restaurants: restaurantsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	restaurantsRepo.On("FindBySlug", mock.Anything, "ramen").
		Return(model.Restaurant{ID: 2, IsActive: false}, nil)

	uc := usecase.NewCatalogUsecase(catalogCfg(), tx, &TokenGenStub{})

	_, err := uc.DiningMenu(context.Background(), "ramen", "tok-a")
	assertErrContains(t, err, "restaurant suspended")
}

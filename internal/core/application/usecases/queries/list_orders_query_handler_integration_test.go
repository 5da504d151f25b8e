package queries_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ListOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.ListOrdersQueryHandler
}

func (suite *ListOrdersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.LineDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewListOrdersQueryHandler(db)
}

func (suite *ListOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *ListOrdersQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_lines CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *ListOrdersQueryHandlerTestSuite) saveOrder(code, customer string, createdAt time.Time) {
	id, err := kernel.OrderIDFromString(code)
	suite.Require().NoError(err)
	price, err := kernel.NewMoney(1400)
	suite.Require().NoError(err)
	line, err := order.NewLine("SKU-205", "Dinner plate", 2, price)
	suite.Require().NoError(err)
	total, err := kernel.NewMoney(2800)
	suite.Require().NoError(err)
	zero, err := kernel.NewMoney(0)
	suite.Require().NoError(err)
	address, err := kernel.NewPickupPointAddress("Nova Poshta", 52)
	suite.Require().NoError(err)

	aggregate, err := order.NewOrder(
		id, kernel.NewUUID(), []order.Line{line}, total, zero, address,
		customer, "+380671234567", "", "",
		createdAt,
	)
	suite.Require().NoError(err)

	tracker := &mockAggregateTracker{}
	tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	repo := orderrepo.NewGormOrderRepository(suite.db, tracker)
	suite.Require().NoError(repo.Add(context.Background(), aggregate))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	query := queries.NewListOrdersQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_WithOrders_ReturnsNewestFirst() {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	suite.saveOrder("482913", "Olena Kovalenko", base)
	suite.saveOrder("715204", "Ivan Bondar", base.Add(time.Hour))
	suite.saveOrder("308667", "Maria Shevchenko", base.Add(2*time.Hour))

	query := queries.NewListOrdersQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 3)

	suite.Equal("308667", result[0].ID)
	suite.Equal("Maria Shevchenko", result[0].CustomerName)
	suite.Equal("715204", result[1].ID)
	suite.Equal("482913", result[2].ID)

	suite.Equal("pending", result[0].Status)
	suite.Equal(int64(2800), result[0].Total)
	suite.Empty(result[0].Tracking)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.ListOrdersQuery{}

	_, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewListOrdersQuery constructor")
}

func TestListOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ListOrdersQueryHandlerTestSuite))
}

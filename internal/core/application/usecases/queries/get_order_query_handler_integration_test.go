package queries_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockAggregateTracker satisfies the repository's tracker dependency.
type mockAggregateTracker struct {
	mock.Mock
}

func (m *mockAggregateTracker) TrackAggregate(id kernel.OrderID, aggregate interface{}) {
	m.Called(id, aggregate)
}

type GetOrderQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrderQueryHandler
}

func (suite *GetOrderQueryHandlerTestSuite) SetupSuite() {
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

	suite.handler = queries.NewGetOrderQueryHandler(db)
}

func (suite *GetOrderQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetOrderQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_lines CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetOrderQueryHandlerTestSuite) saveOrder(code string, mutate func(*order.Order)) *order.Order {
	id, err := kernel.OrderIDFromString(code)
	suite.Require().NoError(err)
	price, err := kernel.NewMoney(700)
	suite.Require().NoError(err)
	mugLine, err := order.NewLine("SKU-101", "Ceramic mug", 2, price)
	suite.Require().NoError(err)
	platePrice, err := kernel.NewMoney(1400)
	suite.Require().NoError(err)
	plateLine, err := order.NewLine("SKU-205", "Dinner plate", 1, platePrice)
	suite.Require().NoError(err)
	total, err := kernel.NewMoney(2800)
	suite.Require().NoError(err)
	discount, err := kernel.NewMoney(280)
	suite.Require().NoError(err)
	address, err := kernel.NewStreetAddress("Kyiv", "Khreshchatyk", "12", "4")
	suite.Require().NoError(err)

	created := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	aggregate, err := order.NewOrder(
		id, kernel.NewUUID(), []order.Line{mugLine, plateLine}, total, discount, address,
		"Olena Kovalenko", "+380671234567", "olena@example.com", "leave at the door",
		created,
	)
	suite.Require().NoError(err)

	if mutate != nil {
		mutate(aggregate)
	}

	tracker := &mockAggregateTracker{}
	tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	repo := orderrepo.NewGormOrderRepository(suite.db, tracker)
	suite.Require().NoError(repo.Add(context.Background(), aggregate))
	return aggregate
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_ExistingOrder_ReturnsDenormalizedRow() {
	saved := suite.saveOrder("482913", nil)

	query, err := queries.NewGetOrderQuery(saved.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal("482913", result.ID)
	suite.Equal("pending", result.Status)
	suite.Equal(int64(2800), result.Total)
	suite.Equal(int64(280), result.Discount)
	suite.Equal("Kyiv, Khreshchatyk 12, apt. 4", result.Address)
	suite.Equal("Olena Kovalenko", result.CustomerName)
	suite.Equal("+380671234567", result.CustomerPhone)
	suite.Equal("olena@example.com", result.CustomerEmail)
	suite.Equal("leave at the door", result.Notes)
	suite.Empty(result.Tracking)

	suite.Require().Len(result.Lines, 2)
	suite.Equal("Ceramic mug", result.Lines[0].Name)
	suite.Equal(2, result.Lines[0].Qty)
	suite.Equal(int64(1400), result.Lines[0].LineTotal)
	suite.Equal("Dinner plate", result.Lines[1].Name)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_ShippedOrder_IncludesTracking() {
	now := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	saved := suite.saveOrder("715204", func(o *order.Order) {
		suite.Require().NoError(o.ChangeStatus(order.Confirmed, now))
		tn, err := kernel.TrackingNumberFromString("20450123456789")
		suite.Require().NoError(err)
		suite.Require().NoError(o.AttachTracking(tn, now))
		suite.Require().NoError(o.ChangeStatus(order.Shipped, now))
	})

	query, err := queries.NewGetOrderQuery(saved.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal("shipped", result.Status)
	suite.Equal("20450123456789", result.Tracking)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_MissingOrder_ReturnsNotFound() {
	missing, err := kernel.OrderIDFromString("999999")
	suite.Require().NoError(err)
	query, err := queries.NewGetOrderQuery(missing)
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetOrderQuery{}

	_, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetOrderQuery constructor")
}

func TestGetOrderQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderQueryHandlerTestSuite))
}

package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.OrderID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.LineDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_lines").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(code string) *order.Order {
	id, err := kernel.OrderIDFromString(code)
	suite.Require().NoError(err)
	price, err := kernel.NewMoney(700)
	suite.Require().NoError(err)
	mug, err := order.NewLine("SKU-101", "Ceramic mug", 2, price)
	suite.Require().NoError(err)
	platePrice, err := kernel.NewMoney(1400)
	suite.Require().NoError(err)
	plate, err := order.NewLine("SKU-205", "Dinner plate", 1, platePrice)
	suite.Require().NoError(err)
	total, err := kernel.NewMoney(2800)
	suite.Require().NoError(err)
	zero, err := kernel.NewMoney(0)
	suite.Require().NoError(err)
	addr, err := kernel.NewStreetAddress("Kyiv", "Khreshchatyk", "12", "4")
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		id, kernel.NewUUID(), []order.Line{mug, plate}, total, zero, addr,
		"Olena Kovalenko", "+380671234567", "olena@example.com", "leave at the door",
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_PersistsOrderWithLines() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("482913")

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(loaded.IsEqual(testOrder))
	suite.Equal(order.Pending, loaded.Status())
	suite.Len(loaded.Lines(), 2)
	suite.Equal("Ceramic mug", loaded.Lines()[0].Name())
	suite.Equal(int64(2800), loaded.Total().Amount())
	suite.Equal("Kyiv, Khreshchatyk 12, apt. 4", loaded.Address().String())
	suite.Nil(loaded.Tracking())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateID_Fails() {
	ctx := context.Background()
	first := suite.createTestOrder("482913")
	second := suite.createTestOrder("482913")

	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Error(suite.repository.Add(ctx, second))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StatusAndTracking() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("482913")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	suite.Require().NoError(testOrder.ChangeStatus(order.Confirmed, now))
	tn, err := kernel.TrackingNumberFromString("20450123456789")
	suite.Require().NoError(err)
	suite.Require().NoError(testOrder.AttachTracking(tn, now))
	suite.Require().NoError(testOrder.ChangeStatus(order.Shipped, now))

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Shipped, loaded.Status())
	suite.Require().NotNil(loaded.Tracking())
	suite.Equal("20450123456789", loaded.Tracking().String())
	suite.True(loaded.UpdatedAt().After(loaded.CreatedAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder_NotFound() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("482913")

	err := suite.repository.Update(ctx, testOrder)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_MissingOrder_NotFound() {
	ctx := context.Background()
	id, err := kernel.OrderIDFromString("999999")
	suite.Require().NoError(err)

	_, err = suite.repository.Get(ctx, id)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAll_ReturnsEveryOrder() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder("482913")))
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder("715204")))

	all, err := suite.repository.GetAll(ctx)
	suite.Require().NoError(err)
	suite.Len(all, 2)
	for _, o := range all {
		suite.Len(o.Lines(), 2)
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestExistsID() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("482913")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	exists, err := suite.repository.ExistsID(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(exists)

	freeID, err := kernel.OrderIDFromString("999999")
	suite.Require().NoError(err)
	exists, err = suite.repository.ExistsID(ctx, freeID)
	suite.Require().NoError(err)
	suite.False(exists)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

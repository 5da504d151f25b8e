package cmd

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/telegram"
	"storefront/internal/core/application/fanout"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/conversation"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"
)

const (
	promoRateLimit  = 5
	promoRateWindow = time.Minute
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	engine     *conversation.Engine
	binding    *telegram.OperatorBinding
	notifier   *telegram.Notifier
	dispatcher *fanout.Dispatcher
	promo      *services.PromoEvaluator
	promoRate  *services.RateCounter
	logger     *slog.Logger
}

// NewCompositionRoot wires the whole application graph. The external
// clients (database, spreadsheet mirror, bot API) are constructed in main
// and injected here; everything else is built explicitly in this root.
func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	mirror ports.OrderMirror,
	botAPI *tgbotapi.BotAPI,
	logger *slog.Logger,
) CompositionRoot {
	binding := telegram.NewOperatorBinding(configs.OperatorChatID)
	notifier := telegram.NewNotifier(botAPI, binding)

	mode := fanout.Live
	if configs.FanoutDryRun {
		mode = fanout.DryRun
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		engine:     conversation.NewEngine(nil),
		binding:    binding,
		notifier:   notifier,
		dispatcher: fanout.NewDispatcher(mirror, notifier, mode, logger),
		promo:      services.NewPromoEvaluator(promoRules(), nil),
		promoRate:  services.NewRateCounter(promoRateLimit, promoRateWindow, nil),
		logger:     logger,
	}
}

// promoRules is the fixed promo code table. Codes are matched
// case-insensitively by the evaluator.
func promoRules() map[string]services.PromoRule {
	return map[string]services.PromoRule{
		"WELCOME10": {Percent: 10},
		"SALE200":   {Amount: 200, MinCart: 1000},
	}
}

// Close releases the resources the root owns. The fan-out dispatcher is
// drained so committed side effects are not lost on shutdown.
func (c *CompositionRoot) Close() {
	c.dispatcher.Close()
}

func (c *CompositionRoot) Engine() *conversation.Engine {
	return c.engine
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.promo, c.promoRate, c.dispatcher, nil)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.dispatcher, nil)
}

func (c *CompositionRoot) CreateAttachTrackingCommandHandler() commands.AttachTrackingCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAttachTrackingCommandHandler(f, c.dispatcher, nil)
}

func (c *CompositionRoot) CreatePatchCustomerCommandHandler() commands.PatchCustomerCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPatchCustomerCommandHandler(f, c.dispatcher, nil)
}

func (c *CompositionRoot) CreateReconcileMirrorCommandHandler() commands.ReconcileMirrorCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileMirrorCommandHandler(f, c.dispatcher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreatePatchCustomerCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
	)
}

func (c *CompositionRoot) CreateTelegramReceiver(botAPI *tgbotapi.BotAPI) *telegram.Receiver {
	router := telegram.NewRouter(
		c.engine,
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateAttachTrackingCommandHandler(),
		queryOrderReader{
			getHandler:  c.CreateGetOrderQueryHandler(),
			listHandler: c.CreateListOrdersQueryHandler(),
		},
		c.binding,
		botAPI,
		c.logger,
	)
	return telegram.NewReceiver(botAPI, router, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.engine, c.CreateReconcileMirrorCommandHandler(), c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// queryOrderReader adapts the query handlers to the id-based read
// interface the telegram router renders from.
type queryOrderReader struct {
	getHandler  queries.GetOrderQueryHandler
	listHandler queries.ListOrdersQueryHandler
}

func (r queryOrderReader) ReadOrder(
	ctx context.Context, orderID kernel.OrderID,
) (queries.GetOrderQueryResponse, error) {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return queries.GetOrderQueryResponse{}, err
	}
	return r.getHandler.Handle(ctx, query)
}

func (r queryOrderReader) ListOrders(ctx context.Context) ([]queries.ListOrdersQueryResponse, error) {
	return r.listHandler.Handle(ctx, queries.NewListOrdersQuery())
}

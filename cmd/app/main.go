package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"storefront/cmd"
	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/adapters/out/sheets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	mirror, err := sheets.NewGoogleMirror(context.Background(), configs.SpreadsheetID, configs.GoogleCredentialsFile)
	if err != nil {
		log.Fatalf("Error connecting to the spreadsheet: %v", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(configs.TelegramToken)
	if err != nil {
		log.Fatalf("Error connecting to the bot API: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, mirror, botAPI, logger)
	defer app.Close()

	receiver := app.CreateTelegramReceiver(botAPI)
	receiver.Start()
	defer receiver.Stop()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:              goDotEnvVariable("HTTP_PORT"),
		DBHost:                goDotEnvVariable("DB_HOST"),
		DBPort:                goDotEnvVariable("DB_PORT"),
		DBUser:                goDotEnvVariable("DB_USER"),
		DBPassword:            goDotEnvVariable("DB_PASSWORD"),
		DBName:                goDotEnvVariable("DB_NAME"),
		DBSslMode:             goDotEnvVariable("DB_SSLMODE"),
		SpreadsheetID:         goDotEnvVariable("SPREADSHEET_ID"),
		GoogleCredentialsFile: goDotEnvVariable("GOOGLE_CREDENTIALS_FILE"),
		TelegramToken:         goDotEnvVariable("TELEGRAM_TOKEN"),
	}

	operatorChatID, err := strconv.ParseInt(goDotEnvVariable("OPERATOR_CHAT_ID"), 10, 64)
	if err != nil {
		log.Fatalf("OPERATOR_CHAT_ID must be a chat id: %v", err)
	}
	config.OperatorChatID = operatorChatID
	config.FanoutDryRun = os.Getenv("FANOUT_DRY_RUN") == "true"

	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}

	if err := gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.LineDTO{}); err != nil {
		log.Fatalf("Error migrating the database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true

	server := app.CreateHTTPServer()
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			logger.Info("web server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("web server shutdown failed", "error", err)
	}
}

package cmd

type Config struct {
	HTTPPort              string
	DBHost                string
	DBPort                string
	DBUser                string
	DBPassword            string
	DBName                string
	DBSslMode             string
	SpreadsheetID         string
	GoogleCredentialsFile string
	TelegramToken         string
	OperatorChatID        int64
	FanoutDryRun          bool
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	Tasks struct {
		SettlementReconcileInterval time.Duration
		SettlementReconcileBatch    int
		PaymentReconcileInterval    time.Duration
		// PaymentReconcileAge is how long an initialized payment may stay
		// pending before the gateway is asked about it.
		PaymentReconcileAge   time.Duration
		PaymentReconcileBatch int
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware rate limiter capacity
		RateLimiterBurst int           // middleware rate limiter refill per second
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Kafka struct {
		PortHealthcheck string
		Brokers         string
		Topic           string
		ConsumerGroup   string
		// NotificationsTopic is where best-effort notifications are
		// produced. Empty disables the producer.
		NotificationsTopic string
		Sarama             Sarama
		Handlers           KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		OrderEvents OrderEvents
	}

	OrderEvents struct {
		ProcessTimeout time.Duration
	}

	PaymentGateway struct {
		BaseURL        string
		SecretKey      string
		WebhookSecret  string
		Currency       string
		RequestTimeout time.Duration
		// RetryWindow bounds the total time spent retrying one gateway call.
		RetryWindow time.Duration
	}

	Redis struct {
		// Address is optional. Without it the processed-reference cache is
		// disabled and every notification goes straight to Postgres.
		Address         string
		Password        string
		DB              int
		ProcessedRefTTL time.Duration
	}

	Dispatch struct {
		PrepaymentOrder      bool
		PrepaymentStandalone bool
		FeeTolerance         decimal.Decimal
	}

	Config struct {
		LogLevel       string
		Tasks          Tasks
		Server         HTTPServer
		Database       Database
		Kafka          Kafka
		PaymentGateway PaymentGateway
		Redis          Redis
		Dispatch       Dispatch
	}
)

const (
	defaultCurrency        = "NGN"
	defaultGatewayTimeout  = 10 * time.Second
	defaultRetryWindow     = 5 * time.Second
	defaultProcessedRefTTL = 24 * time.Hour
	defaultReconcileBatch  = 100
)

var defaultFeeTolerance = decimal.RequireFromString("0.01")

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// LoadDatabase reads only the Postgres settings. Used by tools that need
// nothing else, such as the migrator.
func LoadDatabase() (*Database, error) {
	db := loadDatabase()
	if err := validateDatabase(&db); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return &db, nil
}

func loadFromEnv() (*Config, error) {
	settlementInterval, err := osGetEnvDuration("BACKGROUND_SETTLEMENT_RECONCILE_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	settlementBatch, err := osGetIntDefault("BACKGROUND_SETTLEMENT_RECONCILE_BATCH", defaultReconcileBatch)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	paymentInterval, err := osGetEnvDuration("BACKGROUND_PAYMENT_RECONCILE_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	paymentAge, err := osGetEnvDuration("BACKGROUND_PAYMENT_RECONCILE_AGE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	paymentBatch, err := osGetIntDefault("BACKGROUND_PAYMENT_RECONCILE_BATCH", defaultReconcileBatch)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	orderEventsTimeout, err := osGetEnvDuration("KAFKA_HANDLER_ORDER_EVENTS_PROCESS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	gatewayTimeout, err := osGetEnvDurationDefault("PAYMENT_GATEWAY_TIMEOUT", defaultGatewayTimeout)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	gatewayRetryWindow, err := osGetEnvDurationDefault("PAYMENT_GATEWAY_RETRY_WINDOW", defaultRetryWindow)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisDB, err := osGetInt("REDIS_DB")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	processedRefTTL, err := osGetEnvDurationDefault("REDIS_PROCESSED_REF_TTL", defaultProcessedRefTTL)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	prepaymentOrder, err := osGetBoolDefault("DISPATCH_PREPAYMENT_ORDER", true)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	prepaymentStandalone, err := osGetBoolDefault("DISPATCH_PREPAYMENT_STANDALONE", true)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	feeTolerance, err := osGetDecimalDefault("DISPATCH_FEE_TOLERANCE", defaultFeeTolerance)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	currency := os.Getenv("PAYMENT_GATEWAY_CURRENCY")
	if currency == "" {
		currency = defaultCurrency
	}

	return &Config{
		LogLevel: os.Getenv("LOG_LEVEL"),
		Tasks: Tasks{
			SettlementReconcileInterval: settlementInterval,
			SettlementReconcileBatch:    settlementBatch,
			PaymentReconcileInterval:    paymentInterval,
			PaymentReconcileAge:         paymentAge,
			PaymentReconcileBatch:       paymentBatch,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: loadDatabase(),
		Kafka: Kafka{
			Brokers:            os.Getenv("KAFKA_BROKERS"),
			Topic:              os.Getenv("KAFKA_TOPIC"),
			ConsumerGroup:      os.Getenv("KAFKA_CONSUMER_GROUP"),
			NotificationsTopic: os.Getenv("KAFKA_NOTIFICATIONS_TOPIC"),
			PortHealthcheck:    os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				OrderEvents: OrderEvents{
					ProcessTimeout: orderEventsTimeout,
				},
			},
		},
		PaymentGateway: PaymentGateway{
			BaseURL:        strings.TrimRight(os.Getenv("PAYMENT_GATEWAY_BASE_URL"), "/"),
			SecretKey:      os.Getenv("PAYMENT_GATEWAY_SECRET_KEY"),
			WebhookSecret:  os.Getenv("PAYMENT_GATEWAY_WEBHOOK_SECRET"),
			Currency:       currency,
			RequestTimeout: gatewayTimeout,
			RetryWindow:    gatewayRetryWindow,
		},
		Redis: Redis{
			Address:         os.Getenv("REDIS_ADDRESS"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			ProcessedRefTTL: processedRefTTL,
		},
		Dispatch: Dispatch{
			PrepaymentOrder:      prepaymentOrder,
			PrepaymentStandalone: prepaymentStandalone,
			FeeTolerance:         feeTolerance,
		},
	}, nil
}

func loadDatabase() Database {
	return Database{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DBName:   os.Getenv("POSTGRES_DB"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return err
	}

	if cfg.Tasks.SettlementReconcileInterval == time.Duration(0) {
		return errors.New("BACKGROUND_SETTLEMENT_RECONCILE_INTERVAL is required")
	}
	if cfg.Tasks.PaymentReconcileInterval == time.Duration(0) {
		return errors.New("BACKGROUND_PAYMENT_RECONCILE_INTERVAL is required")
	}
	if cfg.Tasks.PaymentReconcileAge == time.Duration(0) {
		return errors.New("BACKGROUND_PAYMENT_RECONCILE_AGE is required")
	}
	if cfg.Tasks.SettlementReconcileBatch <= 0 || cfg.Tasks.PaymentReconcileBatch <= 0 {
		return errors.New("reconcile batch sizes must be positive")
	}

	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	if cfg.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}
	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}
	if cfg.Kafka.Handlers.OrderEvents.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_ORDER_EVENTS_PROCESS_TIMEOUT is required")
	}

	if cfg.PaymentGateway.BaseURL == "" {
		return errors.New("PAYMENT_GATEWAY_BASE_URL is required")
	}
	if cfg.PaymentGateway.SecretKey == "" {
		return errors.New("PAYMENT_GATEWAY_SECRET_KEY is required")
	}
	if cfg.PaymentGateway.WebhookSecret == "" {
		return errors.New("PAYMENT_GATEWAY_WEBHOOK_SECRET is required")
	}

	if cfg.Dispatch.FeeTolerance.IsNegative() {
		return errors.New("DISPATCH_FEE_TOLERANCE must not be negative")
	}

	return nil
}

func validateDatabase(db *Database) error {
	if db.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if db.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if db.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if db.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if db.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if db.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}
	return nil
}

func osGetInt(s string) (int, error) {
	return osGetIntDefault(s, 0)
}

func osGetIntDefault(s string, def int) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return def, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	return osGetEnvDurationDefault(s, 0)
}

func osGetEnvDurationDefault(s string, def time.Duration) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return def, nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	return osGetBoolDefault(s, false)
}

func osGetBoolDefault(s string, def bool) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return def, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetDecimalDefault(s string, def decimal.Decimal) (decimal.Decimal, error) {
	val := os.Getenv(s)
	if val == "" {
		return def, nil
	}

	res, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

package config

import (
	"context"
	"decor-wallet/internal/common/enum"
	database "decor-wallet/internal/pkg/db"
	midtransPkg "decor-wallet/internal/pkg/midtrans"
	"decor-wallet/internal/pkg/rabbitmq"
	"decor-wallet/internal/pkg/redis"
	s3aws "decor-wallet/internal/pkg/storage/s3"
	"sync"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	AppEnv     enum.EnvEnum `env:"APP_ENV" envDefault:"development"`
	AppPort    int          `env:"APP_PORT" envDefault:"8080"`
	AppBaseURL string       `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	// Custom URL scheme the mobile app registers for payment deep links
	AppScheme     string `env:"APP_SCHEME" envDefault:"decorwallet"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser     string `env:"REDIS_USER" envDefault:"default"`
	RedisPass     string `env:"REDIS_PASS" envDefault:""`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RabbitHost    string `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort    int    `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser    string `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass    string `env:"RABBIT_PASS" envDefault:"guest"`
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        int    `env:"DB_PORT" envDefault:"5432"`
	DBUser        string `env:"DB_USER" envDefault:"postgres"`
	DBPass        string `env:"DB_PASS" envDefault:""`
	DBName        string `env:"DB_NAME" envDefault:"postgres"`
	// Wallet-core is the upstream that signs VNPay paygate URLs
	WalletCoreBaseURL       string `env:"WALLET_CORE_BASE_URL" envDefault:"http://localhost:9090"`
	WalletCoreProxyURL      string `env:"WALLET_CORE_PROXY_URL" envDefault:""`
	WalletCoreSkipTLSVerify bool   `env:"WALLET_CORE_SKIP_TLS_VERIFY" envDefault:"false"`
	WalletCoreTimeout       int    `env:"WALLET_CORE_TIMEOUT" envDefault:"30"`
	VNPTmnCode              string `env:"VNP_TMN_CODE" envDefault:""`
	VNPHashSecret           string `env:"VNP_HASH_SECRET" envDefault:""`
	MidtransServerKey       string `env:"MIDTRANS_SERVER_KEY" envDefault:""`
	MidtransClientKey       string `env:"MIDTRANS_CLIENT_KEY" envDefault:""`
	MidtransEnvironment     string `env:"MIDTRANS_ENVIRONMENT" envDefault:"sandbox"`
	AWSAccessKeyID          string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	AWSSecretAccessKey      string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`
	AWSRegion               string `env:"AWS_REGION" envDefault:"ap-southeast-1"`
	AWSBucketName           string `env:"AWS_BUCKET_NAME" envDefault:""`
}

// SetupServerDto contains dependencies for server setup
type SetupServerDto struct {
	Ctx    *context.Context
	Cancel context.CancelFunc
	Wg     *sync.WaitGroup
	Env    *Config
	Db     *database.Database
	Rds    redis.IRedis
	Rb     *rabbitmq.ConnectionManager
	S3     *s3aws.Is3
	Mt     *midtransPkg.MidtransClient
}

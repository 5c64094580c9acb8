package main

import (
	"context"
	config "decor-wallet/configs"
	database "decor-wallet/internal/pkg/db"
	"decor-wallet/internal/pkg/gateway"
	"decor-wallet/internal/pkg/logger"
	midtransPkg "decor-wallet/internal/pkg/midtrans"
	"decor-wallet/internal/pkg/rabbitmq"
	"decor-wallet/internal/pkg/redis"
	s3aws "decor-wallet/internal/pkg/storage/s3"
	"decor-wallet/internal/pkg/validation"
	"decor-wallet/internal/pkg/vnpay"
	"decor-wallet/internal/pkg/walletcore"
	serverApp "decor-wallet/internal/server"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
)

// @title           Decor Wallet API
// @version         1.0
// @description     Wallet top-up service with multi-channel payment completion tracking

// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

// @BasePath        /api
func main() {
	logger.Setup()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	// Setup Redis
	redisClient, err := setupRedis(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up Redis", err)
		cancel()
		return
	}

	// Setup RabbitMQ
	rabbit, err := setupRabbitMQ(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up RabbitMQ", err)
		cancel()
		return
	}

	// Setup Database
	db, err := setupDB(env)
	if err != nil {
		logger.Error.Println("Error setting up Database", err)
		cancel()
		return
	}

	// Setup S3 (receipt storage)
	s3Client, err := setupS3(ctx, env, redisClient)
	if err != nil {
		logger.Error.Println("Error setting up S3", err)
		cancel()
		return
	}
	var s3 s3aws.Is3 = s3Client

	// Setup Midtrans Client
	mtClient := setupMidtrans(env)

	// Setup Server
	setupServer(&config.SetupServerDto{
		Rds:    redisClient,
		Env:    env,
		Ctx:    &ctx,
		Cancel: cancel,
		Db:     db,
		Wg:     &wg,
		Rb:     rabbit,
		S3:     &s3,
		Mt:     mtClient,
	})
}

func setupRedis(ctx context.Context, env *config.Config) (redis.IRedis, error) {
	return redis.Setup(ctx, &redis.Config{
		Host:     env.RedisHost,
		Username: env.RedisUser,
		Port:     env.RedisPort,
		Password: env.RedisPass,
		PoolSize: env.RedisPoolSize,
	})
}

func setupRabbitMQ(ctx context.Context, env *config.Config) (*rabbitmq.ConnectionManager, error) {
	return rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{
		Username: env.RabbitUser,
		Password: env.RabbitPass,
		Host:     env.RabbitHost,
		Port:     env.RabbitPort,
	})
}

func setupDB(env *config.Config) (*database.Database, error) {
	return database.Setup(&database.Config{
		Host:     env.DBHost,
		Port:     env.DBPort,
		User:     env.DBUser,
		Password: env.DBPass,
		Database: env.DBName,
		SSLMode:  "disable",
		Driver:   "postgres",
		Cache:    true,
	})
}

func setupS3(ctx context.Context, env *config.Config, redisClient redis.IRedis) (*s3aws.S3Client, error) {
	return s3aws.NewS3Client(ctx, s3aws.S3Config{
		AWSRegion:          env.AWSRegion,
		AWSAccessKeyID:     env.AWSAccessKeyID,
		AWSSecretAccessKey: env.AWSSecretAccessKey,
	}, env.AWSBucketName, redisClient)
}

func setupMidtrans(env *config.Config) *midtransPkg.MidtransClient {
	return midtransPkg.Setup(&midtransPkg.Config{
		ServerKey:   env.MidtransServerKey,
		ClientKey:   env.MidtransClientKey,
		Environment: env.MidtransEnvironment,
	})
}

func setupGateways(env *config.Config, mt *midtransPkg.MidtransClient) *gateway.Manager {
	coreClient := walletcore.NewClient(&walletcore.Config{
		BaseURL:        env.WalletCoreBaseURL,
		ProxyURL:       env.WalletCoreProxyURL,
		SkipTLSVerify:  env.WalletCoreSkipTLSVerify,
		RequestTimeout: env.WalletCoreTimeout,
	})

	return gateway.NewManager(
		gateway.NewVNPayProvider(coreClient),
		gateway.NewMidtransProvider(mt),
	)
}

func setupServer(payload *config.SetupServerDto) {
	rds := payload.Rds
	env := payload.Env
	ctx := payload.Ctx
	cancel := payload.Cancel
	wg := payload.Wg
	rb := payload.Rb
	db := payload.Db
	s3 := payload.S3
	mt := payload.Mt

	defer func() {
		if rds != nil {
			_ = rds.Close()
		}
		cancel()
		wg.Wait()
	}()

	err := validation.Setup()
	if err != nil {
		logger.Error.Println("Failed to setup validation")
		panic(err)
	}

	if env.AppEnv.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	e := gin.Default()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", env.AppPort),
		Handler: e,
	}

	publisher, err := rabbitmq.NewPublisher(*ctx, rb)
	if err != nil {
		panic(err)
	}

	gateways := setupGateways(env, mt)
	vnpConfig := &vnpay.Config{
		TmnCode:    env.VNPTmnCode,
		HashSecret: env.VNPHashSecret,
		ReturnURL:  fmt.Sprintf("%s/pay/return", env.AppBaseURL),
	}

	serverApp.Setup(e, *ctx, wg, db, rds, rb, publisher, gateways, vnpConfig, env.AppScheme, env.AppBaseURL)
	serverApp.InitWorker(*ctx, rds, db, rb, publisher, *s3)

	go func() {
		logger.HTTP.Println("========= Server Started =========")
		logger.HTTP.Println("=========", env.AppPort, "=========")
		if err := server.ListenAndServe(); err != nil {
			logger.Error.Println("Server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.HTTP.Println("========= Server Shutting Down =========")
	_ = server.Shutdown(*ctx)
}

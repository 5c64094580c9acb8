package serverApp

import (
	"context"
	"net/url"
	"strings"
	"sync"

	database "decor-wallet/internal/pkg/db"
	"decor-wallet/internal/pkg/gateway"
	"decor-wallet/internal/pkg/middleware"
	"decor-wallet/internal/pkg/rabbitmq"
	"decor-wallet/internal/pkg/redis"
	"decor-wallet/internal/pkg/vnpay"
	"decor-wallet/internal/repository"
	topupRepo "decor-wallet/internal/repository/topup"

	topupHandler "decor-wallet/internal/handler/topup"
	topupService "decor-wallet/internal/service/topup"

	"decor-wallet/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup initializes the HTTP server with middleware and routes
func Setup(
	engine *gin.Engine,
	ctx context.Context,
	wg *sync.WaitGroup,
	db *database.Database,
	redisClient redis.IRedis,
	rb *rabbitmq.ConnectionManager,
	publisher *rabbitmq.Publisher,
	gateways *gateway.Manager,
	vnp *vnpay.Config,
	appScheme string,
	baseURL string,
) {
	InitMiddleware(engine)

	// Set swagger host dynamically from APP_BASE_URL
	if parsed, err := url.Parse(baseURL); err == nil {
		docs.SwaggerInfo.Host = parsed.Host
		if strings.HasPrefix(baseURL, "https") {
			docs.SwaggerInfo.Schemes = []string{"https"}
		} else {
			docs.SwaggerInfo.Schemes = []string{"http"}
		}
	}

	// Swagger UI
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		rabbitmqHealth := "unhealthy"
		redisHealth := "unhealthy"
		databaseHealth := "unhealthy"
		rbCon := rb.GetConnection()

		if db != nil && !db.IsCloseConnection() {
			databaseHealth = "healthy"
		}

		if rbCon != nil && !rbCon.IsClosed() {
			rabbitmqHealth = "healthy"
		}
		if redisClient != nil && redisClient.Ping() == nil {
			redisHealth = "healthy"
		}
		c.JSON(200, gin.H{
			"status": 200,
			"service": gin.H{
				"rabbitmq": gin.H{
					"status": rabbitmqHealth,
				},
				"redis": gin.H{
					"status": redisHealth,
				},
				"database": gin.H{
					"status": databaseHealth,
				},
			},
		})
	})

	e := engine.Group(BasePath())
	InitRoutes(e, engine, ctx, wg, db, redisClient, publisher, gateways, vnp, appScheme)
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine) {
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
}

func InitRoutes(
	e *gin.RouterGroup,
	engine *gin.Engine,
	ctx context.Context,
	wg *sync.WaitGroup,
	db *database.Database,
	redisClient redis.IRedis,
	publisher *rabbitmq.Publisher,
	gateways *gateway.Manager,
	vnp *vnpay.Config,
	appScheme string,
) {

	// setup repo
	rp := repository.IRepository{
		Topup: topupRepo.NewRepo(db),
	}

	// === Wallet top-up ===
	TopupService := topupService.NewService(ctx, rp, db, redisClient, publisher, gateways, vnp, appScheme)
	TopupHandler := topupHandler.NewHandler(ctx, TopupService)
	TopupHandler.NewRoutes(e, middleware.AuthMiddleware())
	TopupHandler.NewPageRoutes(engine)
}

package server

import (
	"context"
	"database/sql"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vivemedellin/go-vivemedellin/env"
	"github.com/vivemedellin/go-vivemedellin/middleware"
	"github.com/vivemedellin/go-vivemedellin/migrate"
	"github.com/vivemedellin/go-vivemedellin/service/logger"
	"github.com/vivemedellin/go-vivemedellin/service/notifications"
	"github.com/vivemedellin/go-vivemedellin/service/persist/postgres"
	"github.com/vivemedellin/go-vivemedellin/service/redis"
	sentryutil "github.com/vivemedellin/go-vivemedellin/service/sentry"
)

// Init initializes the server
func Init() {
	setDefaults()

	initLogger()
	sentryutil.InitSentry()

	pqClient := postgres.MustCreateClient()
	pgxClient := postgres.NewPgxClient(context.Background())

	if err := migrate.RunMigrations(pqClient, "./db/migrations/core"); err != nil {
		logger.For(nil).Fatalf("failed to run migrations: %s", err)
	}

	router := CoreInit(pqClient, pgxClient)

	http.Handle("/", router)
}

// CoreInit initializes core server functionality. This is abstracted
// so the test server can also utilize it
func CoreInit(pqClient *sql.DB, pgxClient *pgxpool.Pool) *gin.Engine {
	logger.For(nil).Info("initializing server...")

	if env.GetString("ENV") != "production" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.HandleCORS(), middleware.GinContextToContext(), middleware.ErrLogger())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))

	repos := postgres.NewRepositories(pqClient, pgxClient)
	notifHandlers := notifications.New(repos.NotificationRepository, redis.NewCache(redis.NotificationsDB))
	sessionsCache := redis.NewCache(redis.SessionsDB)

	return handlersInit(router, repos, sessionsCache, notifHandlers)
}

func initLogger() {
	logger.SetLoggerOptions(func(l *logrus.Logger) {
		l.SetReportCaller(true)

		if env.GetString("ENV") != "production" {
			l.SetLevel(logrus.DebugLevel)
		}
	})
}

func setDefaults() {
	viper.SetDefault("ENV", "local")
	viper.SetDefault("PORT", 4000)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTGRES_HOST", "0.0.0.0")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "vivemedellin_backend")
	viper.SetDefault("POSTGRES_PASSWORD", "")
	viper.SetDefault("POSTGRES_DB", "postgres")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("REDIS_PASS", "")
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("VERSION", "")
	viper.SetDefault("AUTH_JWT_SECRET", "")
	viper.SetDefault("AUTH_JWT_TTL", 86400)
	viper.SetDefault("COMMENT_EDIT_WINDOW_SECONDS", 3600)

	viper.AutomaticEnv()

	if env.GetString("ENV") != "local" && env.GetString("AUTH_JWT_SECRET") == "" {
		logger.For(nil).Fatal("AUTH_JWT_SECRET must be set outside local environments")
	}
}

// Command reconcile links guest application records to identities that
// later registered with the matching email. It is a one-shot maintenance
// run, deliberately kept out of the API request path.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"jobdesk/internal/app"
	"jobdesk/internal/config"
	"jobdesk/internal/database"
	"jobdesk/internal/observability"
	"jobdesk/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := observability.NewLogger()

	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	service := app.NewReconcileService(
		postgres.NewApplicationRepository(db),
		postgres.NewUserRepository(db),
		observability.NewServiceLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	linked, err := service.LinkGuestSubmissions(ctx)
	if err != nil {
		log.Fatalf("reconcile failed after %d links: %v", linked, err)
	}
	logger.Info("reconcile finished")
}

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const retention = "30 days"

// handler borra solicitudes cerradas viejas; las pendientes las maneja el sweeper del bot.
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "", errors.New("no DATABASE_URL")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return "", err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tag, err := pool.Exec(cctx, `
DELETE FROM pending_requests
WHERE status <> 'pending'
  AND resolved_at < now() - $1::interval`, retention)
	if err != nil {
		log.Error().Err(err).Msg("purge pending_requests")
		return "", err
	}
	log.Info().Int64("deleted", tag.RowsAffected()).Msg("purge pending_requests")
	return "ok", nil
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	lambda.Start(handler)
}

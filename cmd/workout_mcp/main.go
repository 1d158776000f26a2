// Package main runs the read-only workout MCP server over stdio, for local
// assistant use. Every tool works on the sessions of the owner given by -owner.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/gymsession/internal/config"
	"github.com/2beens/gymsession/internal/db"
	"github.com/2beens/gymsession/internal/telemetry/metrics"
	"github.com/2beens/gymsession/internal/workout"
	workoutmcp "github.com/2beens/gymsession/internal/workout/mcp"
	"github.com/2beens/gymsession/internal/workout/pgstore"
	"github.com/2beens/gymsession/internal/workout/templates"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const version = "1.0.0"

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	ownerID := flag.Int64("owner", 0, "owner id whose workout sessions are exposed")
	flag.Parse()

	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	if *ownerID <= 0 {
		log.Fatalln("owner id not set, use -owner")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	if cfg.Store != config.StorePostgres {
		log.Fatalf("workout mcp needs the postgres store, got: %s", cfg.Store)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     os.Getenv("GYMSESSION_POSTGRES_PASS"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	service := workout.NewService(
		pgstore.NewStore(dbPool),
		templates.NewCachedSource(templates.NewRepo(dbPool), cfg.TemplateCacheTTL.Duration),
		metrics.NewManager("mcp", "workouts", prometheus.NewRegistry()),
	)

	if err := server.ServeStdio(workoutmcp.NewServer(service, *ownerID, version)); err != nil {
		log.Fatal(err)
	}
}

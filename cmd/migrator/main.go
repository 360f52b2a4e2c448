package main

import (
	"flag"
	"log"

	"github.com/UnknownOlympus/hestia/internal/config"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	dir := flag.String("dir", "migrations", "directory with goose SQL migrations")
	command := flag.String("command", "up", "goose command: up, down, status")
	flag.Parse()

	cfg := config.MustLoad()

	dbpool, dbErr := repository.NewDatabase(
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname,
		cfg.Postgres.SSLMode)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	defer dtb.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal(err)
	}

	if migrationErr := goose.Run(*command, dtb, *dir); migrationErr != nil {
		log.Fatal(migrationErr)
	}

	log.Printf("Migrations command %q applied successfully", *command)
}

package main

import (
	"log"

	"project-system/migrations"
	"project-system/pkg/config"
	"project-system/pkg/database/postgresql"
	"project-system/seeders"
)

func main() {
	cfg := config.New()

	if err := migrations.Up(cfg.Postgres.DSN); err != nil {
		log.Fatalf("❌ Ошибка миграций: %v", err)
	}

	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	seeders.Seed(db)
}

package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedUnitsAndTeams(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение подразделений и команд...")

	units := map[string][]string{
		"Дирекция разработки":   {"Платформа", "Интеграции"},
		"Дирекция эксплуатации": {"Инфраструктура"},
	}

	for unitName, teams := range units {
		var unitID uint64
		err := db.QueryRow(ctx,
			`INSERT INTO units (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
			 RETURNING id`, unitName).Scan(&unitID)
		if err != nil {
			return fmt.Errorf("вставка подразделения %q: %w", unitName, err)
		}
		for _, teamName := range teams {
			_, err := db.Exec(ctx,
				`INSERT INTO teams (name, unit_id) VALUES ($1, $2)
				 ON CONFLICT (unit_id, name) DO NOTHING`, teamName, unitID)
			if err != nil {
				return fmt.Errorf("вставка команды %q: %w", teamName, err)
			}
		}
	}
	return nil
}

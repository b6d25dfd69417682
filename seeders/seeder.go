package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed наполняет пустую базу стартовыми данными: администратор,
// базовые справочники и демонстрационный проект.
func Seed(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения базы...")

	if err := seedUnitsAndTeams(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения подразделений и команд: %v", err)
	}
	adminID, err := seedAdmin(ctx, db)
	if err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}
	if err := seedDemoProject(ctx, db, adminID); err != nil {
		log.Fatalf("❌ Ошибка создания демонстрационного проекта: %v", err)
	}

	log.Println("✅ Наполнение базы завершено!")
}

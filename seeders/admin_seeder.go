package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"project-system/internal/entities"
	"project-system/pkg/utils"
)

func seedAdmin(ctx context.Context, db *pgxpool.Pool) (uint64, error) {
	log.Println("  - Создание пользователя 'admin'...")

	var adminID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE username = 'admin'").Scan(&adminID)
	if err == nil {
		log.Println("    - Пользователь admin уже существует. Пропускаем.")
		return adminID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("проверка существования администратора: %w", err)
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return 0, fmt.Errorf("хэширование пароля администратора: %w", err)
	}

	var unitID uint64
	if err := db.QueryRow(ctx, "SELECT id FROM units ORDER BY id LIMIT 1").Scan(&unitID); err != nil {
		return 0, fmt.Errorf("не найдено ни одного подразделения: %w", err)
	}

	err = db.QueryRow(ctx, `INSERT INTO users (username, full_name, email, password_hash, role, unit_id)
		VALUES ('admin', 'Администратор системы', 'admin@project-system.local', $1, $2, $3)
		RETURNING id`, hash, entities.RoleAdmin, unitID).Scan(&adminID)
	if err != nil {
		return 0, fmt.Errorf("вставка администратора: %w", err)
	}
	return adminID, nil
}

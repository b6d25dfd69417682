package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"project-system/pkg/constants"
)

func seedDemoProject(ctx context.Context, db *pgxpool.Pool, ownerID uint64) error {
	log.Println("  - Создание демонстрационного проекта...")

	const title = "Внедрение системы управления проектами"

	var projectID uint64
	err := db.QueryRow(ctx, "SELECT id FROM projects WHERE title = $1", title).Scan(&projectID)
	if err == nil {
		log.Println("    - Демонстрационный проект уже существует. Пропускаем.")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("проверка существования проекта: %w", err)
	}

	err = db.QueryRow(ctx, `INSERT INTO projects (title, description, status, use_workflow, owner_id, start_date, end_date)
		VALUES ($1, 'Пилотный проект для демонстрации возможностей системы', $2, TRUE, $3, '2026-01-01', '2026-12-31')
		RETURNING id`, title, constants.StatusNotStarted, ownerID).Scan(&projectID)
	if err != nil {
		return fmt.Errorf("вставка проекта: %w", err)
	}

	activities := []struct {
		title    string
		priority string
	}{
		{"Анализ требований", constants.PriorityHigh},
		{"Настройка окружения", constants.PriorityMedium},
		{"Обучение пользователей", constants.PriorityLow},
	}
	for i, a := range activities {
		_, err := db.Exec(ctx, `INSERT INTO work_items
			(kind, title, priority, status, use_workflow, responsible_id, owner_id, project_id, kanban_order)
			VALUES ('activity', $1, $2, $3, FALSE, $4, $4, $5, $6)`,
			a.title, a.priority, constants.StatusNotStarted, ownerID, projectID, i)
		if err != nil {
			return fmt.Errorf("вставка активности %q: %w", a.title, err)
		}
	}
	return nil
}

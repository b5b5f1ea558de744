// Команда seed разово наполняет базу демонстрационными данными:
// группы Admin и Employee с правами и три учётные записи.
// Повторный запуск ничего не дублирует.
package main

import (
	"dms-web-server/config"
	"dms-web-server/internal/migrations"
	"dms-web-server/internal/repository"
	"dms-web-server/internal/seed"
	"context"
	"log"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	if err := migrations.RunMigrations(ctx, db.DB.DB); err != nil {
		log.Fatalf("Ошибка миграций: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	seeder := seed.NewSeeder(userRepo, groupRepo)
	if err := seeder.Run(ctx, db.DB); err != nil {
		log.Fatalf("Ошибка при наполнении базы: %v", err)
	}

	log.Println("Демо-данные готовы: admin_demo/admin123, employee1/emp123, employee2/emp123")
}

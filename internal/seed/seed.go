// Package seed наполняет базу демонстрационными группами и пользователями.
// Запуск повторно безопасен: существующие записи переиспользуются.
package seed

import (
	"dms-web-server/internal/model"
	"dms-web-server/internal/ports"
	"dms-web-server/internal/security"
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type demoUser struct {
	Username string
	FullName string
	Password string
	IsStaff  bool
	Group    string
}

var demoUsers = []demoUser{
	{Username: "admin_demo", FullName: "Admin User", Password: "admin123", IsStaff: true, Group: "Admin"},
	{Username: "employee1", FullName: "Ahmed Mohamed", Password: "emp123", Group: "Employee"},
	{Username: "employee2", FullName: "Fatima Ali", Password: "emp123", Group: "Employee"},
}

type Seeder struct {
	userRepository  ports.UserRepository
	groupRepository ports.GroupRepository
}

func NewSeeder(userRepository ports.UserRepository, groupRepository ports.GroupRepository) *Seeder {
	return &Seeder{userRepository, groupRepository}
}

// Run создаёт группы Admin и Employee с их правами и три демо-аккаунта
func (s *Seeder) Run(ctx context.Context, exec sqlx.ExtContext) error {
	groups := map[string]string{}

	adminGroup, err := s.ensureGroup(ctx, exec, "Admin", model.AllPermissions)
	if err != nil {
		return err
	}
	groups["Admin"] = adminGroup.UUID

	employeeGroup, err := s.ensureGroup(ctx, exec, "Employee", model.EmployeePermissions)
	if err != nil {
		return err
	}
	groups["Employee"] = employeeGroup.UUID

	for _, du := range demoUsers {
		if err := s.ensureUser(ctx, exec, du, groups[du.Group]); err != nil {
			return err
		}
	}

	return nil
}

func (s *Seeder) ensureGroup(ctx context.Context, exec sqlx.ExtContext, name string, permissions []string) (*model.Group, error) {
	group, err := s.groupRepository.EnsureGroup(ctx, exec, name)
	if err != nil {
		return nil, fmt.Errorf("[Seeder] не удалось создать группу %s: %w", name, err)
	}

	if err := s.groupRepository.SetPermissions(ctx, exec, group.UUID, permissions); err != nil {
		return nil, fmt.Errorf("[Seeder] не удалось назначить права группе %s: %w", name, err)
	}

	log.Printf("[Seeder] группа %s: %d прав", name, len(permissions))
	return group, nil
}

func (s *Seeder) ensureUser(ctx context.Context, exec sqlx.ExtContext, du demoUser, groupUUID string) error {
	exists, err := s.userRepository.ExistsByUsername(ctx, exec, du.Username)
	if err != nil {
		return fmt.Errorf("[Seeder] ошибка проверки пользователя %s: %w", du.Username, err)
	}
	if exists {
		log.Printf("[Seeder] пользователь %s уже существует, пропускаем", du.Username)
		return nil
	}

	passwordHash, err := security.HashPassword(du.Password)
	if err != nil {
		return fmt.Errorf("[Seeder] не удалось захэшировать пароль для %s: %w", du.Username, err)
	}

	user, err := s.userRepository.CreateUser(ctx, exec, &model.User{
		UUID:         uuid.New().String(),
		Username:     du.Username,
		FullName:     du.FullName,
		PasswordHash: passwordHash,
		IsActive:     true,
		IsStaff:      du.IsStaff,
	})
	if err != nil {
		return fmt.Errorf("[Seeder] не удалось создать пользователя %s: %w", du.Username, err)
	}

	if err := s.groupRepository.AddUserToGroup(ctx, exec, user.UUID, groupUUID); err != nil {
		return fmt.Errorf("[Seeder] не удалось добавить %s в группу: %w", du.Username, err)
	}

	log.Printf("[Seeder] создан пользователь %s (группа %s)", du.Username, du.Group)
	return nil
}

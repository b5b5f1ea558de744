package service

import (
	"dms-web-server/config"
	"dms-web-server/internal/model"
	"dms-web-server/internal/ports"
	"dms-web-server/internal/util"
	"context"
	"fmt"
	"log"
)

// PermissionService : права текущего пользователя. Поверх join-таблиц в БД
// стоит Redis-кэш с TTL; staff-пользователи получают полный набор прав без
// обращения к БД (аналог суперпользователя исходной системы).
type PermissionService struct {
	groupRepository ports.GroupRepository
	cacheRepository ports.CacheRepository
}

func NewPermissionService(
	groupRepository ports.GroupRepository,
	cacheRepository ports.CacheRepository,
) *PermissionService {
	return &PermissionService{
		groupRepository: groupRepository,
		cacheRepository: cacheRepository,
	}
}

func (s *PermissionService) PermissionsFor(ctx context.Context, userUUID string, isStaff bool) ([]string, error) {
	if isStaff {
		return model.AllPermissions, nil
	}

	permissions, err := s.cacheRepository.GetPermissions(ctx, userUUID)
	if err != nil {
		log.Printf("[PermissionService] ошибка кэширования: %v", err)
	}
	if permissions != nil {
		return permissions, nil
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[PermissionService] database connection не найден в context")
	}

	permissions, err = s.groupRepository.PermissionsForUser(ctx, db, userUUID)
	if err != nil {
		return nil, util.LogError("[PermissionService] не удалось получить права из БД", err)
	}

	if err := s.cacheRepository.SetPermissions(ctx, userUUID, permissions); err != nil {
		log.Printf("[PermissionService] ошибка записи прав в кэш: %v", err)
	}

	return permissions, nil
}

func (s *PermissionService) HasPermission(ctx context.Context, userUUID string, isStaff bool, code string) (bool, error) {
	permissions, err := s.PermissionsFor(ctx, userUUID, isStaff)
	if err != nil {
		return false, err
	}

	for _, p := range permissions {
		if p == code {
			return true, nil
		}
	}
	return false, nil
}

// CapabilitiesFor : флаги для клиента, какие кнопки показывать
func (s *PermissionService) CapabilitiesFor(ctx context.Context, userUUID string, isStaff bool) (model.Capabilities, error) {
	permissions, err := s.PermissionsFor(ctx, userUUID, isStaff)
	if err != nil {
		return model.Capabilities{}, err
	}

	caps := model.Capabilities{}
	for _, p := range permissions {
		switch p {
		case model.PermAddDocument:
			caps.CanAdd = true
		case model.PermDeleteDocument:
			caps.CanDelete = true
		case model.PermPrintDocument:
			caps.CanPrint = true
		}
	}
	return caps, nil
}

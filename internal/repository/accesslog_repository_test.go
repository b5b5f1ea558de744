package repository_test

import (
	"dms-web-server/internal/model"
	"dms-web-server/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLogRepository_Append(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewAccessLogRepository(database)

	userUUID := "user1"
	entry := &model.AccessLogEntry{
		UUID:         "log1",
		DocumentUUID: "doc1",
		UserUUID:     &userUUID,
		Action:       model.ActionView,
		IPAddress:    "10.0.0.1",
	}

	mock.ExpectExec("INSERT INTO document_access_log").
		WithArgs(entry.UUID, entry.DocumentUUID, entry.UserUUID, entry.Action, entry.IPAddress).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(context.Background(), database, entry)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessLogRepository_Append_AnonymousIP(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewAccessLogRepository(database)

	userUUID := "user1"
	entry := &model.AccessLogEntry{
		UUID:         "log1",
		DocumentUUID: "doc1",
		UserUUID:     &userUUID,
		Action:       model.ActionDownload,
		IPAddress:    "",
	}

	// пустой IP превращается в NULL на стороне запроса (NULLIF)
	mock.ExpectExec("INSERT INTO document_access_log").
		WithArgs(entry.UUID, entry.DocumentUUID, entry.UserUUID, entry.Action, "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(context.Background(), database, entry)

	assert.NoError(t, err)
}

func TestAccessLogRepository_ListByDocument(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewAccessLogRepository(database)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"uuid", "document_uuid", "user_uuid", "action", "timestamp", "ip_address"}).
		AddRow("log2", "doc1", "user1", model.ActionDownload, now, "10.0.0.1").
		AddRow("log1", "doc1", "user1", model.ActionView, now.Add(-time.Minute), "")

	mock.ExpectQuery("SELECT uuid, document_uuid").
		WithArgs("doc1").
		WillReturnRows(rows)

	entries, err := repo.ListByDocument(context.Background(), database, "doc1")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.ActionDownload, entries[0].Action)
	assert.Equal(t, model.ActionView, entries[1].Action)
}

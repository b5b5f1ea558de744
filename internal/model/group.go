package model

import "time"

// Коды прав на документы. Закрытый набор: ничего, кроме этих четырёх, в
// таблице permissions не появляется.
const (
	PermViewDocument   = "view_document"
	PermAddDocument    = "add_document"
	PermDeleteDocument = "delete_document"
	PermPrintDocument  = "print_document"
)

// AllPermissions : полный набор прав (группа Admin)
var AllPermissions = []string{
	PermViewDocument,
	PermAddDocument,
	PermDeleteDocument,
	PermPrintDocument,
}

// EmployeePermissions : права группы Employee — просмотр, загрузка и печать,
// без удаления
var EmployeePermissions = []string{
	PermViewDocument,
	PermAddDocument,
	PermPrintDocument,
}

type Group struct {
	UUID      string    `db:"uuid" json:"uuid"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserGroup : членство пользователя в группе (many-to-many)
type UserGroup struct {
	UserUUID  string    `db:"user_uuid" json:"user_uuid"`
	GroupUUID string    `db:"group_uuid" json:"group_uuid"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

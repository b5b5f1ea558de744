package model

import "time"

// Session : серверная сторона сессии. Токен в cookie ссылается на эту
// запись, logout помечает её отозванной.
type Session struct {
	UUID      string     `db:"uuid"`
	UserUUID  string     `db:"user_uuid"`
	ExpireAt  time.Time  `db:"expire_at"`
	UserAgent string     `db:"user_agent"`
	IpAddress string     `db:"ip_address"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

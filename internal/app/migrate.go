package app

import (
	"go-tutorhub/internal/payrate"
	"go-tutorhub/internal/payslip"
	"go-tutorhub/internal/user"

	"gorm.io/gorm"
)

// Tables without a gorm model: the outbox is written with database/sql and
// the rbac tables are only read through joins.
var rawSchema = []string{
	`CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id TEXT,
	aggregate_type VARCHAR(50) NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type VARCHAR(100) NOT NULL,
	topic VARCHAR(255) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	next_retry_at TIMESTAMPTZ,
	error_message TEXT,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events (status, next_retry_at, created_at)`,
	`CREATE TABLE IF NOT EXISTS roles (
	id VARCHAR(50) PRIMARY KEY,
	name VARCHAR(100) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS permissions (
	id SERIAL PRIMARY KEY,
	resource VARCHAR(50) NOT NULL,
	action VARCHAR(50) NOT NULL,
	UNIQUE (resource, action)
)`,
	`CREATE TABLE IF NOT EXISTS role_permissions (
	role_id VARCHAR(50) NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
	permission_id INT NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
	PRIMARY KEY (role_id, permission_id)
)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
	user_id UUID NOT NULL,
	role_id VARCHAR(50) NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
	PRIMARY KEY (user_id, role_id)
)`,
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&user.User{},
		&payrate.RateAdjustment{},
		&payslip.Payslip{},
	); err != nil {
		return err
	}
	for _, stmt := range rawSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

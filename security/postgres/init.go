// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	_ "github.com/jackc/pgx/v5/stdlib" // required for SQL access
	migrate "github.com/rubenv/sql-migrate"
)

// Migration of the security service.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "security_01",
				// VARCHAR(36) for columns with IDs as UUIDs have a maximum of 36 characters
				// STATE 0 to imply approved, 1 pending and 2 rejected
				Up: []string{
					`CREATE TABLE IF NOT EXISTS credentials (
						id                 VARCHAR(36) PRIMARY KEY,
						username           VARCHAR(254) NOT NULL UNIQUE,
						email              VARCHAR(254) NOT NULL UNIQUE,
						phone              VARCHAR(64),
						password_hash      TEXT,
						security_stamp     VARCHAR(36),
						two_factor_enabled BOOLEAN NOT NULL DEFAULT false,
						lockout_enabled    BOOLEAN NOT NULL DEFAULT false,
						created_at         TIMESTAMP,
						updated_at         TIMESTAMP
					)`,
					`CREATE TABLE IF NOT EXISTS credential_logins (
						provider      VARCHAR(254) NOT NULL,
						provider_key  VARCHAR(254) NOT NULL,
						credential_id VARCHAR(36) NOT NULL,
						PRIMARY KEY (provider, provider_key),
						FOREIGN KEY (credential_id) REFERENCES credentials (id) ON DELETE CASCADE
					)`,
					`CREATE TABLE IF NOT EXISTS reset_tokens (
						credential_id VARCHAR(36) PRIMARY KEY,
						token         VARCHAR(254) NOT NULL,
						expires_at    TIMESTAMP NOT NULL,
						FOREIGN KEY (credential_id) REFERENCES credentials (id) ON DELETE CASCADE
					)`,
					`CREATE TABLE IF NOT EXISTS accounts (
						username         VARCHAR(254) PRIMARY KEY,
						state            SMALLINT NOT NULL DEFAULT 0 CHECK (state >= 0),
						account_type     VARCHAR(128),
						member_id        VARCHAR(36),
						store_id         VARCHAR(128),
						is_administrator BOOLEAN NOT NULL DEFAULT false
					)`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS reset_tokens`,
					`DROP TABLE IF EXISTS credential_logins`,
					`DROP TABLE IF EXISTS credentials`,
					`DROP TABLE IF EXISTS accounts`,
				},
			},
		},
	}
}

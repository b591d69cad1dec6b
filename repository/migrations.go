package repository

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Amounts are NUMERIC in PostgreSQL and TEXT in SQLite so no value ever
// passes through a float column.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS people (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	avatar     TEXT NOT NULL DEFAULT '',
	color_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bills (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	bill_date      BIGINT NOT NULL,
	subtotal       {{money}} NOT NULL,
	tax            {{money}} NOT NULL,
	service_charge {{money}} NOT NULL,
	total          {{money}} NOT NULL,
	payer_id       TEXT NOT NULL,
	status         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bill_items (
	id       TEXT PRIMARY KEY,
	bill_id  TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name     TEXT NOT NULL,
	price    {{money}} NOT NULL,
	quantity INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bill_item_assignees (
	item_id   TEXT NOT NULL REFERENCES bill_items(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	person_id TEXT NOT NULL,
	PRIMARY KEY (item_id, position)
);

CREATE TABLE IF NOT EXISTS bill_participants (
	bill_id   TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	person_id TEXT NOT NULL,
	PRIMARY KEY (bill_id, position)
);

CREATE TABLE IF NOT EXISTS person_groups (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
	group_id  TEXT NOT NULL REFERENCES person_groups(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	person_id TEXT NOT NULL,
	PRIMARY KEY (group_id, position)
);

CREATE INDEX IF NOT EXISTS idx_bill_items_bill ON bill_items(bill_id);
CREATE INDEX IF NOT EXISTS idx_bills_date ON bills(bill_date);
`

func schemaFor(driver string) string {
	money := "TEXT"
	if driver == DriverPostgres {
		money = "NUMERIC"
	}
	return strings.ReplaceAll(schemaTemplate, "{{money}}", money)
}

func runMigrations(db *sqlx.DB) error {
	for _, stmt := range strings.Split(schemaFor(db.DriverName()), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}

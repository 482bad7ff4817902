package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// The schema keeps a UNIQUE key per writer path: one inspection per
// (property, type), one zone per (inspection, name), one element per
// (zone, name). The element upsert and the create-race handling both rely on
// these. "exists" is a reserved word, hence exists_flag.
var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_inspections",
		SQL: `CREATE TABLE IF NOT EXISTS inspections (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  property_id     TEXT        NOT NULL,
  inspection_type   TEXT      NOT NULL CHECK (inspection_type IN ('initial', 'final')),
  inspection_status TEXT      NOT NULL DEFAULT 'in_progress' CHECK (inspection_status IN ('in_progress', 'completed')),
  created_by      TEXT        NOT NULL,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  completed_at    TIMESTAMPTZ,
  has_elevator    BOOLEAN,
  public_link_id  TEXT,
  CONSTRAINT uq_inspections_property_type UNIQUE (property_id, inspection_type)
);`,
	},
	{
		Name: "create_index_inspections_property",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_inspections_property ON inspections (property_id);`,
	},
	{
		Name: "create_table_zones",
		SQL: `CREATE TABLE IF NOT EXISTS zones (
  id            UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  inspection_id UUID NOT NULL REFERENCES inspections (id) ON DELETE CASCADE,
  zone_type     TEXT NOT NULL,
  zone_name     TEXT NOT NULL,
  CONSTRAINT uq_zones_inspection_name UNIQUE (inspection_id, zone_name)
);`,
	},
	{
		Name: "create_index_zones_inspection",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_zones_inspection ON zones (inspection_id);`,
	},
	{
		Name: "create_table_elements",
		SQL: `CREATE TABLE IF NOT EXISTS elements (
  id           UUID   PRIMARY KEY DEFAULT uuid_generate_v4(),
  zone_id      UUID   NOT NULL REFERENCES zones (id) ON DELETE CASCADE,
  element_name TEXT   NOT NULL,
  condition    TEXT   CHECK (condition IN ('bueno', 'regular', 'malo', 'no_aplica')),
  notes        TEXT,
  image_urls   TEXT[] NOT NULL DEFAULT '{}',
  video_urls   TEXT[] NOT NULL DEFAULT '{}',
  quantity     INTEGER CHECK (quantity >= 0),
  exists_flag  BOOLEAN,
  CONSTRAINT uq_elements_zone_name UNIQUE (zone_id, element_name)
);`,
	},
	{
		Name: "create_index_elements_zone",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_elements_zone ON elements (zone_id);`,
	},
}

// EnsureMigrated checks if the 'inspections' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.inspections') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}

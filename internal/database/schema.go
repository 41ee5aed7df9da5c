package database

import (
	"context"
	"fmt"

	"devconnect/internal/models"

	"gorm.io/gorm"
)

// TableStatus reports whether a model's table and columns exist.
type TableStatus struct {
	Table          string
	Exists         bool
	MissingColumns []string
}

// SchemaStatus describes the live schema against the current models.
type SchemaStatus struct {
	Driver string
	Tables []TableStatus
}

// Pending reports whether Migrate would change anything.
func (s *SchemaStatus) Pending() bool {
	for _, t := range s.Tables {
		if !t.Exists || len(t.MissingColumns) > 0 {
			return true
		}
	}
	return false
}

// GetSchemaStatus compares the database with the persisted models.
func GetSchemaStatus(ctx context.Context, db *gorm.DB) (*SchemaStatus, error) {
	db = db.WithContext(ctx)
	migrator := db.Migrator()
	status := &SchemaStatus{Driver: db.Dialector.Name()}

	for _, model := range []any{&models.User{}, &models.Profile{}, &models.Post{}} {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		ts := TableStatus{Table: stmt.Schema.Table, Exists: migrator.HasTable(model)}
		if ts.Exists {
			for _, field := range stmt.Schema.Fields {
				if field.DBName == "" {
					continue
				}
				if !migrator.HasColumn(model, field.DBName) {
					ts.MissingColumns = append(ts.MissingColumns, field.DBName)
				}
			}
		}
		status.Tables = append(status.Tables, ts)
	}
	return status, nil
}

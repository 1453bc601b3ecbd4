package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jobmeta/metastore/pkg/core"
)

// schemaModels lists the metastore tables in dependency order.
var schemaModels = []any{&rootProperty{}, &jobRow{}, &jobProperty{}}

// ensureSchema makes the metastore tables exist and verifies the recorded
// layout version. Idempotent, and tolerant of another process winning the
// first-use creation race.
func ensureSchema(ctx context.Context, db *gorm.DB) error {
	present, err := tablesPresent(db.WithContext(ctx).Migrator())
	if err != nil {
		return fmt.Errorf("list metastore tables: %w", err)
	}

	if !present {
		if err := db.WithContext(ctx).AutoMigrate(schemaModels...); err != nil {
			// A concurrent first-use may have created the tables between
			// our check and the DDL. Accept as long as they exist now.
			present, perr := tablesPresent(db.WithContext(ctx).Migrator())
			if perr != nil || !present {
				return fmt.Errorf("create metastore schema: %w", err)
			}
		}
	} else if err := checkColumns(db.WithContext(ctx).Migrator()); err != nil {
		return err
	}

	return ensureRootProperties(ctx, db)
}

// tablesPresent matches the required table names case-insensitively
// against the live table listing.
func tablesPresent(m gorm.Migrator) (bool, error) {
	existing, err := m.GetTables()
	if err != nil {
		return false, err
	}
	live := make(map[string]bool, len(existing))
	for _, t := range existing {
		live[strings.ToLower(t)] = true
	}
	for _, model := range schemaModels {
		name := model.(interface{ TableName() string }).TableName()
		if !live[strings.ToLower(name)] {
			return false, nil
		}
	}
	return true, nil
}

// checkColumns is the minimal structural compatibility check run when the
// tables already exist.
func checkColumns(m gorm.Migrator) error {
	checks := []struct {
		model  any
		column string
	}{
		{&jobRow{}, "name"},
		{&jobRow{}, "tool"},
		{&jobProperty{}, "propname"},
		{&jobProperty{}, "propval"},
		{&jobProperty{}, "pos"},
	}
	for _, c := range checks {
		if !m.HasColumn(c.model, c.column) {
			return fmt.Errorf("%w: missing column %q", core.ErrIncompatibleSchema, c.column)
		}
	}
	return nil
}

// ensureRootProperties seeds the root registry on first use and verifies
// the layout version afterwards.
func ensureRootProperties(ctx context.Context, db *gorm.DB) error {
	var prop rootProperty
	err := db.WithContext(ctx).First(&prop, "propname = ?", versionProp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seed := []rootProperty{
			{PropName: versionProp, PropVal: strconv.Itoa(layoutVersion)},
			{PropName: instanceProp, PropVal: uuid.New().String()},
		}
		// DoNothing resolves the race between two processes seeding the
		// root table at the same time.
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return fmt.Errorf("seed metastore root: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read metastore root: %w", err)
	}

	v, err := strconv.Atoi(prop.PropVal)
	if err != nil || v > layoutVersion {
		return fmt.Errorf("%w: layout version %q", core.ErrIncompatibleSchema, prop.PropVal)
	}
	return nil
}

// dropSchema drops only the known metastore tables, never anything
// broader.
func dropSchema(ctx context.Context, db *gorm.DB) error {
	m := db.WithContext(ctx).Migrator()
	for _, model := range []any{&jobProperty{}, &jobRow{}, &rootProperty{}} {
		if !m.HasTable(model) {
			continue
		}
		if err := m.DropTable(model); err != nil {
			return fmt.Errorf("drop metastore table: %w", err)
		}
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jobmeta/metastore/pkg/codec"
	"github.com/jobmeta/metastore/pkg/core"
	"github.com/jobmeta/metastore/pkg/schedule"
)

// gormStore is the relational store shared by all bundled backends. The
// backend variants wrap it with descriptor recognition and dialector
// construction; everything from Open onward is common.
type gormStore struct {
	db *gorm.DB
}

// open establishes the connection for the given dialector, pins the pool
// to a single connection and ensures the metastore schema exists.
func (s *gormStore) open(ctx context.Context, dial gorm.Dialector, desc core.Descriptor) error {
	if s.db != nil {
		return errors.New("metastore: storage already open")
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrConnection, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrConnection, err)
	}
	if err := applyConnLimits(sqlDB, desc); err != nil {
		_ = sqlDB.Close()
		return err
	}
	// Some drivers connect lazily; force the connection now so auth and
	// reachability failures surface on Open, not on the first operation.
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("%w: %v", core.ErrConnection, err)
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = sqlDB.Close()
		return err
	}

	s.db = db
	return nil
}

// Create stores a new job in a single transaction: registry row plus all
// property rows, or nothing.
func (s *gormStore) Create(ctx context.Context, name string, rec *core.JobRecord) error {
	if s.db == nil {
		return core.ErrNotOpen
	}
	if name == "" {
		return core.ErrInvalidName
	}
	if err := validateSchedule(rec); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&jobRow{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("check job %q: %w", name, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %q", core.ErrJobExists, name)
		}
		row := jobRow{Name: name, UUID: uuid.New().String(), Tool: rec.Tool()}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create job %q: %w", name, err)
		}
		return insertProperties(tx, name, rec)
	})
	// Two processes racing past the existence check resolve on the unique
	// index; the loser sees a duplicate-key failure.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %q", core.ErrJobExists, name)
	}
	return err
}

// Read returns the full stored record for name.
func (s *gormStore) Read(ctx context.Context, name string) (*core.JobRecord, error) {
	if s.db == nil {
		return nil, core.ErrNotOpen
	}

	// Both queries run in one transaction so a concurrent update or delete
	// can't pair the registry row with another record's properties.
	var row jobRow
	var props []jobProperty
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "name = ?", name).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %q", core.ErrJobNotFound, name)
			}
			return fmt.Errorf("read job %q: %w", name, err)
		}
		if err := tx.Where("job_name = ?", name).Order("id ASC").Find(&props).Error; err != nil {
			return fmt.Errorf("read job %q properties: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows := make([]codec.Row, len(props))
	for i, p := range props {
		rows[i] = codec.Row{Name: p.Name, Kind: p.Kind, Value: p.Value, Pos: p.Pos}
	}
	rec, err := codec.Decode(row.Tool, rows)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", name, err)
	}
	return rec, nil
}

// Update replaces the stored record wholesale: all prior property rows are
// deleted and the new set inserted in one transaction, so shrinking a list
// option leaves no stale elements behind.
func (s *gormStore) Update(ctx context.Context, name string, rec *core.JobRecord) error {
	if s.db == nil {
		return core.ErrNotOpen
	}
	if err := validateSchedule(rec); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&jobRow{}).Where("name = ?", name).Update("tool", rec.Tool())
		if res.Error != nil {
			return fmt.Errorf("update job %q: %w", name, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %q", core.ErrJobNotFound, name)
		}
		if err := tx.Where("job_name = ?", name).Delete(&jobProperty{}).Error; err != nil {
			return fmt.Errorf("clear job %q properties: %w", name, err)
		}
		return insertProperties(tx, name, rec)
	})
}

// Delete removes the job's registry row and all its property rows.
func (s *gormStore) Delete(ctx context.Context, name string) error {
	if s.db == nil {
		return core.ErrNotOpen
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("name = ?", name).Delete(&jobRow{})
		if res.Error != nil {
			return fmt.Errorf("delete job %q: %w", name, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %q", core.ErrJobNotFound, name)
		}
		if err := tx.Where("job_name = ?", name).Delete(&jobProperty{}).Error; err != nil {
			return fmt.Errorf("delete job %q properties: %w", name, err)
		}
		return nil
	})
}

// List returns all stored job names in creation order.
func (s *gormStore) List(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, core.ErrNotOpen
	}

	names := []string{}
	if err := s.db.WithContext(ctx).Model(&jobRow{}).Order("seq ASC").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return names, nil
}

// Describe returns registry metadata for one job.
func (s *gormStore) Describe(ctx context.Context, name string) (*core.JobMeta, error) {
	if s.db == nil {
		return nil, core.ErrNotOpen
	}

	var row jobRow
	if err := s.db.WithContext(ctx).First(&row, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", core.ErrJobNotFound, name)
		}
		return nil, fmt.Errorf("describe job %q: %w", name, err)
	}
	return &core.JobMeta{
		Name:      row.Name,
		ID:        row.UUID,
		Tool:      row.Tool,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// DropSchema drops the metastore tables. Test and reset support; the
// backend must be open.
func (s *gormStore) DropSchema(ctx context.Context) error {
	if s.db == nil {
		return core.ErrNotOpen
	}
	return dropSchema(ctx, s.db)
}

// Close releases the connection. Safe to call on a closed store.
func (s *gormStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return fmt.Errorf("close metastore: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close metastore: %w", err)
	}
	return nil
}

// insertProperties writes the encoded option bag. Property row IDs
// preserve encode order, which Read relies on for option ordering.
func insertProperties(tx *gorm.DB, name string, rec *core.JobRecord) error {
	rows := codec.Encode(rec)
	if len(rows) == 0 {
		return nil
	}
	props := make([]jobProperty, len(rows))
	for i, r := range rows {
		props[i] = jobProperty{JobName: name, Name: r.Name, Kind: r.Kind, Value: r.Value, Pos: r.Pos}
	}
	if err := tx.Create(&props).Error; err != nil {
		return fmt.Errorf("store job %q properties: %w", name, err)
	}
	return nil
}

// validateSchedule rejects records carrying an unparsable schedule
// annotation before anything touches the database.
func validateSchedule(rec *core.JobRecord) error {
	expr, ok := rec.String(core.ScheduleOption)
	if !ok {
		return nil
	}
	if err := schedule.Validate(expr); err != nil {
		return fmt.Errorf("option %q: %w", core.ScheduleOption, err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aleph-Alpha/floatrouter/v1/floats"
)

const upsertBatchSize = 500

// Migrate creates or updates the floats and profiles tables.
func (p *Postgres) Migrate(ctx context.Context) error {
	if err := p.DB().WithContext(ctx).AutoMigrate(&FloatModel{}, &ProfileModel{}); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	p.logger.Info("postgres schema migrated", nil, map[string]interface{}{
		"tables": []string{"floats", "profiles"},
	})
	return nil
}

// UpsertFloats inserts floats, overwriting existing rows with the same
// float_id. It returns the number of rows written.
func (p *Postgres) UpsertFloats(ctx context.Context, fs []floats.Float) (n int, err error) {
	if len(fs) == 0 {
		return 0, nil
	}

	start := time.Now()
	defer func() { p.observe("upsert", "floats", start, err, int64(n)) }()

	return upsertFloats(p.DB().WithContext(ctx), fs)
}

// InsertProfiles stores measurement rows; rows already present are skipped.
func (p *Postgres) InsertProfiles(ctx context.Context, ps []floats.Profile) (n int, err error) {
	if len(ps) == 0 {
		return 0, nil
	}

	start := time.Now()
	defer func() { p.observe("insert", "profiles", start, err, int64(n)) }()

	return insertProfiles(p.DB().WithContext(ctx), ps)
}

// SaveBatch upserts floats and inserts their profiles in one transaction.
// Nothing is written when either step fails.
func (p *Postgres) SaveBatch(ctx context.Context, fs []floats.Float, ps []floats.Profile) (nFloats, nProfiles int, err error) {
	start := time.Now()
	defer func() { p.observe("save_batch", "floats", start, err, int64(nFloats+nProfiles)) }()

	err = p.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if nFloats, err = upsertFloats(tx, fs); err != nil {
			return err
		}
		nProfiles, err = insertProfiles(tx, ps)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return nFloats, nProfiles, nil
}

func upsertFloats(db *gorm.DB, fs []floats.Float) (int, error) {
	if len(fs) == 0 {
		return 0, nil
	}

	rows := make([]FloatModel, 0, len(fs))
	for _, f := range fs {
		if err := f.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		rows = append(rows, newFloatModel(f))
	}

	res := db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "float_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"platform_number", "deploy_date", "region", "latitude",
				"longitude", "description", "notes", "properties", "updated_at",
			}),
		}).
		CreateInBatches(&rows, upsertBatchSize)
	if res.Error != nil {
		return 0, TranslateError(res.Error)
	}
	return int(res.RowsAffected), nil
}

func insertProfiles(db *gorm.DB, ps []floats.Profile) (int, error) {
	if len(ps) == 0 {
		return 0, nil
	}

	rows := make([]ProfileModel, 0, len(ps))
	for _, pr := range ps {
		if err := pr.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		rows = append(rows, newProfileModel(pr))
	}

	res := db.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, upsertBatchSize)
	if res.Error != nil {
		return 0, TranslateError(res.Error)
	}
	return int(res.RowsAffected), nil
}

// FloatIDs returns every float id, ordered.
func (p *Postgres) FloatIDs(ctx context.Context) (ids []string, err error) {
	start := time.Now()
	defer func() { p.observe("select_ids", "floats", start, err, int64(len(ids))) }()

	err = p.DB().WithContext(ctx).
		Model(&FloatModel{}).
		Order("float_id").
		Pluck("float_id", &ids).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return ids, nil
}

// GetFloats loads the floats with the given ids. Unknown ids are ignored.
func (p *Postgres) GetFloats(ctx context.Context, ids []string) (out []floats.Float, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() { p.observe("select", "floats", start, err, int64(len(out))) }()

	var rows []FloatModel
	if err := p.DB().WithContext(ctx).Where("float_id IN ?", ids).Order("float_id").Find(&rows).Error; err != nil {
		return nil, TranslateError(err)
	}

	out = make([]floats.Float, len(rows))
	for i, r := range rows {
		out[i] = r.toFloat()
	}
	return out, nil
}

// GetFloat loads one float or returns ErrRecordNotFound.
func (p *Postgres) GetFloat(ctx context.Context, id string) (floats.Float, error) {
	var row FloatModel
	err := p.DB().WithContext(ctx).Where("float_id = ?", id).First(&row).Error
	if err != nil {
		return floats.Float{}, TranslateError(err)
	}
	return row.toFloat(), nil
}

// CountFloats returns the number of rows in floats.
func (p *Postgres) CountFloats(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { p.observe("count", "floats", start, err, n) }()

	if err := p.DB().WithContext(ctx).Model(&FloatModel{}).Count(&n).Error; err != nil {
		return 0, TranslateError(err)
	}
	return n, nil
}

// Transaction runs fn in one transaction, rolled back when fn returns an error.
func (p *Postgres) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return TranslateError(p.DB().WithContext(ctx).Transaction(fn))
}

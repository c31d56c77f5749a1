package store

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/stockpile/internal/domain"
	"gorm.io/gorm"
)

// GormStore backs the record store with a relational table set.
type GormStore struct {
	mu sync.Mutex
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying handle for migration and maintenance jobs.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) List(ctx context.Context) ([]domain.Record, error) {
	var rows []domain.InvProduct
	if err := s.db.WithContext(ctx).Order("item ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeAttrs(row.Attrs)
		if err != nil {
			return nil, errors.Wrapf(err, "decode product %s", row.Item)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *GormStore) Get(ctx context.Context, item string) (domain.Record, error) {
	var row domain.InvProduct
	err := s.db.WithContext(ctx).Where("item = ?", item).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query product")
	}
	return decodeAttrs(row.Attrs)
}

func (s *GormStore) Upsert(ctx context.Context, rec domain.Record) (bool, error) {
	item := rec.Item()
	if item == "" {
		return false, ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var row domain.InvProduct
	err := s.db.WithContext(ctx).Where("item = ?", item).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		merged := rec.Clone()
		merged[domain.FieldItem] = item
		stamp(merged, now, now)
		attrs, err := encodeAttrs(merged)
		if err != nil {
			return false, err
		}
		row = domain.InvProduct{
			Item:      item,
			Attrs:     attrs,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return false, errors.Wrap(err, "create product")
		}
		return true, nil
	case err != nil:
		return false, errors.Wrap(err, "query product")
	}

	merged, err := decodeAttrs(row.Attrs)
	if err != nil {
		return false, errors.Wrapf(err, "decode product %s", item)
	}
	merged.Merge(rec)
	merged[domain.FieldItem] = item
	stamp(merged, row.CreatedAt, now)
	attrs, err := encodeAttrs(merged)
	if err != nil {
		return false, err
	}
	updates := map[string]interface{}{
		"attrs":      attrs,
		"updated_at": now,
	}
	if err := s.db.WithContext(ctx).Model(&domain.InvProduct{}).
		Where("id = ?", row.ID).Updates(updates).Error; err != nil {
		return false, errors.Wrap(err, "update product")
	}
	return false, nil
}

func (s *GormStore) Delete(ctx context.Context, item string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.db.WithContext(ctx).Where("item = ?", item).Delete(&domain.InvProduct{})
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "delete product")
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) ListFields(ctx context.Context) ([]domain.InvSchemaField, error) {
	var fields []domain.InvSchemaField
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&fields).Error; err != nil {
		return nil, errors.Wrap(err, "list schema fields")
	}
	return fields, nil
}

func (s *GormStore) AddField(ctx context.Context, field domain.InvSchemaField) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if field.CreatedAt.IsZero() {
		field.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(&field).Error; err != nil {
		return errors.Wrap(err, "create schema field")
	}
	return nil
}

func (s *GormStore) AppendOpsLog(ctx context.Context, entry domain.InvOpsLog) error {
	if entry.OptTime.IsZero() {
		entry.OptTime = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return errors.Wrap(err, "append ops log")
	}
	return nil
}

func (s *GormStore) ListOpsLog(ctx context.Context, limit int) ([]domain.InvOpsLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []domain.InvOpsLog
	if err := s.db.WithContext(ctx).Order("opt_time DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "list ops log")
	}
	return entries, nil
}

func (s *GormStore) PurgeOpsLog(ctx context.Context, before time.Time) error {
	return s.db.WithContext(ctx).Where("opt_time < ?", before).Delete(&domain.InvOpsLog{}).Error
}

func (s *GormStore) Close() error {
	sqldb, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqldb.Close()
}

func encodeAttrs(rec domain.Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Wrap(err, "encode record attrs")
	}
	return string(data), nil
}

func decodeAttrs(attrs string) (domain.Record, error) {
	rec := make(domain.Record)
	if attrs == "" {
		return rec, nil
	}
	if err := json.Unmarshal([]byte(attrs), &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

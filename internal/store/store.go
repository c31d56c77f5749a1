// Package store persists product records, dynamically discovered schema
// fields and the audit log. Two backends satisfy the same contract: a
// relational table set (GORM/PostgreSQL) and an embedded key-value file
// (bbolt). Every mutating call is durable before it returns; mutations
// are serialized per store because each one is a read-modify-write of a
// whole record.
package store

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/talkincode/stockpile/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrNotFound no record matched the requested item code.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidRecord the record is missing a non-empty item code.
	ErrInvalidRecord = errors.New("record requires a non-empty item")
)

// RecordStore is the persistence contract for product records and the
// field schema. Upsert performs a shallow merge: incoming fields win per
// field, fields absent from the incoming record are preserved.
type RecordStore interface {
	// List returns all records ordered by item ascending.
	List(ctx context.Context) ([]domain.Record, error)
	// Get returns the record for item, or ErrNotFound.
	Get(ctx context.Context, item string) (domain.Record, error)
	// Upsert merges rec over any existing record with the same item and
	// stamps updated_at; created_at is set only on first insert. Returns
	// whether a new record was created. Fails with ErrInvalidRecord when
	// the item code is missing or empty.
	Upsert(ctx context.Context, rec domain.Record) (created bool, err error)
	// Delete removes the record by item. Returns false without error
	// when no record matched.
	Delete(ctx context.Context, item string) (deleted bool, err error)

	// ListFields returns the persisted dynamic schema fields.
	ListFields(ctx context.Context) ([]domain.InvSchemaField, error)
	// AddField durably registers a dynamic schema field.
	AddField(ctx context.Context, field domain.InvSchemaField) error

	AppendOpsLog(ctx context.Context, entry domain.InvOpsLog) error
	ListOpsLog(ctx context.Context, limit int) ([]domain.InvOpsLog, error)
	PurgeOpsLog(ctx context.Context, before time.Time) error

	Close() error
}

// stamp applies the server-assigned timestamps to a merged record.
func stamp(rec domain.Record, createdAt, updatedAt time.Time) {
	rec[domain.FieldCreatedAt] = createdAt.Format(time.RFC3339Nano)
	rec[domain.FieldUpdatedAt] = updatedAt.Format(time.RFC3339Nano)
}

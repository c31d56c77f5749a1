package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/stockpile/internal/domain"
	"github.com/talkincode/stockpile/pkg/common"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketProducts = []byte("products")
	bucketFields   = []byte("schema_fields")
	bucketOpsLog   = []byte("ops_log")
)

// BoltStore backs the record store with an embedded bbolt file. Records
// are serialized whole under their item code, so key order gives the
// item-ascending list order for free.
type BoltStore struct {
	mu sync.Mutex
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketProducts, bucketFields, bucketOpsLog} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init bolt buckets")
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) List(_ context.Context) ([]domain.Record, error) {
	var records []domain.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProducts).ForEach(func(k, v []byte) error {
			rec := make(domain.Record)
			if err := json.Unmarshal(v, &rec); err != nil {
				return errors.Wrapf(err, "decode product %s", k)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

func (s *BoltStore) Get(_ context.Context, item string) (domain.Record, error) {
	var rec domain.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketProducts).Get([]byte(item))
		if v == nil {
			return ErrNotFound
		}
		rec = make(domain.Record)
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *BoltStore) Upsert(_ context.Context, rec domain.Record) (bool, error) {
	item := rec.Item()
	if item == "" {
		return false, ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := false
	now := time.Now()
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketProducts)
		merged := make(domain.Record)
		createdAt := now
		if v := bucket.Get([]byte(item)); v != nil {
			if err := json.Unmarshal(v, &merged); err != nil {
				return errors.Wrapf(err, "decode product %s", item)
			}
			if ts, err := time.Parse(time.RFC3339Nano, fmt.Sprint(merged[domain.FieldCreatedAt])); err == nil {
				createdAt = ts
			}
		} else {
			created = true
		}
		merged.Merge(rec)
		merged[domain.FieldItem] = item
		stamp(merged, createdAt, now)
		data, err := json.Marshal(merged)
		if err != nil {
			return errors.Wrap(err, "encode record")
		}
		return bucket.Put([]byte(item), data)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *BoltStore) Delete(_ context.Context, item string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketProducts)
		if bucket.Get([]byte(item)) == nil {
			return nil
		}
		deleted = true
		return bucket.Delete([]byte(item))
	})
	return deleted, err
}

func (s *BoltStore) ListFields(_ context.Context) ([]domain.InvSchemaField, error) {
	var fields []domain.InvSchemaField
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFields).ForEach(func(_, v []byte) error {
			var f domain.InvSchemaField
			if err := json.Unmarshal(v, &f); err != nil {
				return err
			}
			fields = append(fields, f)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list schema fields")
	}
	return fields, nil
}

func (s *BoltStore) AddField(_ context.Context, field domain.InvSchemaField) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if field.ID == 0 {
		field.ID = common.UUIDint64()
	}
	if field.CreatedAt.IsZero() {
		field.CreatedAt = time.Now()
	}
	data, err := json.Marshal(field)
	if err != nil {
		return errors.Wrap(err, "encode schema field")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFields).Put([]byte(field.Name), data)
	})
}

func (s *BoltStore) AppendOpsLog(_ context.Context, entry domain.InvOpsLog) error {
	if entry.ID == 0 {
		entry.ID = common.UUIDint64()
	}
	if entry.OptTime.IsZero() {
		entry.OptTime = time.Now()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "encode ops log entry")
	}
	// snowflake IDs are time-ordered, a zero-padded key keeps bolt
	// iteration in insertion order
	key := []byte(fmt.Sprintf("%020d", entry.ID))
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOpsLog).Put(key, data)
	})
}

func (s *BoltStore) ListOpsLog(_ context.Context, limit int) ([]domain.InvOpsLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []domain.InvOpsLog
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketOpsLog).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var entry domain.InvOpsLog
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list ops log")
	}
	return entries, nil
}

func (s *BoltStore) PurgeOpsLog(_ context.Context, before time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketOpsLog)
		c := bucket.Cursor()
		var stale [][]byte
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var entry domain.InvOpsLog
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			if entry.OptTime.Before(before) {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

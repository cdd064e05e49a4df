package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

var bucketAudit = []byte("reward_audit")

// AuditLog is the durable append-only journal behind the ledger's AuditSink
// port. Records are keyed by a monotonic sequence so replay preserves commit
// order; nothing is ever rewritten or deleted.
type AuditLog struct {
	db *bbolt.DB
}

// OpenAuditLog opens or creates the bolt file at path. The parent directory
// is created if it does not exist.
func OpenAuditLog(path string) (*AuditLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("audit log: create directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("audit log: open bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAudit)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit log: create bucket: %w", err)
	}
	return &AuditLog{db: db}, nil
}

func (l *AuditLog) Close() error { return l.db.Close() }

func (l *AuditLog) AppendAudit(_ context.Context, record ports.AuditRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("audit log: encode record: %w", err)
	}
	return l.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAudit)
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		return bucket.Put(sequenceKey(seq), payload)
	})
}

// Replay streams the journal in commit order. Used by the read mirror rebuild
// and by reconciliation tooling.
func (l *AuditLog) Replay(_ context.Context, fn func(ports.AuditRecord) error) error {
	return l.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAudit).ForEach(func(_, value []byte) error {
			var record ports.AuditRecord
			if err := json.Unmarshal(value, &record); err != nil {
				return fmt.Errorf("audit log: decode record: %w", err)
			}
			return fn(record)
		})
	})
}

// sequenceKey encodes the sequence as an 8-byte big-endian key so bolt's
// byte-ordered iteration matches append order.
func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

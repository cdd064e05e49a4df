package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

// Repository is the read mirror of committed grants: a projection kept up to
// date from ledger events, queried by dashboards and builder profile pages.
// It never writes ledger state of its own.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) UpsertGrant(ctx context.Context, record ports.GrantRecord) error {
	row := grantModelFromRecord(record)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "grant_id"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
	if err != nil {
		if isUniqueViolation(err) {
			// Same proof under a different grant id: the projection saw a
			// replayed event. Not an error worth failing the consumer over.
			r.logger.Warn("reward mirror grant replay ignored",
				"event", "reward_mirror_upsert_grant_replayed",
				"module", "reward-core/reward-ledger",
				"layer", "adapters/postgres",
				"grant_id", record.GrantID,
				"proof", record.Proof,
			)
			return nil
		}
		return r.logError("reward_mirror_upsert_grant_failed", err,
			"grant_id", record.GrantID,
			"batch_ref", record.BatchRef,
		)
	}
	return nil
}

func (r *Repository) MarkGrantsPaid(ctx context.Context, recipient string, paidAt time.Time, txHash string) error {
	ts := paidAt.UTC()
	err := r.db.WithContext(ctx).
		Model(&grantModel{}).
		Where("recipient = ?", strings.ToLower(strings.TrimSpace(recipient))).
		Where("status = ?", string(ports.GrantStatusPending)).
		Updates(map[string]any{
			"status":     string(ports.GrantStatusSettled),
			"tx_hash":    strings.TrimSpace(txHash),
			"settled_at": &ts,
		}).
		Error
	if err != nil {
		return r.logError("reward_mirror_mark_paid_failed", err,
			"recipient", strings.ToLower(strings.TrimSpace(recipient)),
		)
	}
	return nil
}

func (r *Repository) ListGrantsByRecipient(ctx context.Context, recipient string) ([]ports.GrantRecord, error) {
	var rows []grantModel
	err := r.db.WithContext(ctx).
		Where("recipient = ?", strings.ToLower(strings.TrimSpace(recipient))).
		Order("allocated_at asc").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("reward_mirror_list_by_recipient_failed", err,
			"recipient", strings.ToLower(strings.TrimSpace(recipient)),
		)
	}
	return grantRecordsFromModels(rows), nil
}

func (r *Repository) ListGrantsByWeek(ctx context.Context, week int) ([]ports.GrantRecord, error) {
	var rows []grantModel
	err := r.db.WithContext(ctx).
		Where("week = ?", week).
		Order("allocated_at asc").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("reward_mirror_list_by_week_failed", err, "week", week)
	}
	return grantRecordsFromModels(rows), nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	r.logger.Error("reward mirror repository error",
		append([]any{
			"event", event,
			"module", "reward-core/reward-ledger",
			"layer", "adapters/postgres",
			"error", err.Error(),
		}, args...)...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type grantModel struct {
	GrantID     string     `gorm:"column:grant_id;primaryKey"`
	BatchRef    string     `gorm:"column:batch_ref;index"`
	Recipient   string     `gorm:"column:recipient;index"`
	Amount      int64      `gorm:"column:amount"`
	Category    string     `gorm:"column:category"`
	Week        int        `gorm:"column:week;index"`
	Proof       string     `gorm:"column:proof;uniqueIndex"`
	Status      string     `gorm:"column:status"`
	TxHash      string     `gorm:"column:tx_hash"`
	AllocatedAt time.Time  `gorm:"column:allocated_at"`
	SettledAt   *time.Time `gorm:"column:settled_at"`
}

func (grantModel) TableName() string {
	return "reward_grants"
}

func grantModelFromRecord(record ports.GrantRecord) grantModel {
	return grantModel{
		GrantID:     strings.TrimSpace(record.GrantID),
		BatchRef:    record.BatchRef,
		Recipient:   strings.ToLower(strings.TrimSpace(record.Recipient)),
		Amount:      record.Amount,
		Category:    string(record.Category),
		Week:        record.Week,
		Proof:       record.Proof,
		Status:      string(record.Status),
		TxHash:      record.TxHash,
		AllocatedAt: record.AllocatedAt.UTC(),
		SettledAt:   record.SettledAt,
	}
}

func grantRecordsFromModels(rows []grantModel) []ports.GrantRecord {
	records := make([]ports.GrantRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ports.GrantRecord{
			GrantID:     row.GrantID,
			BatchRef:    row.BatchRef,
			Recipient:   row.Recipient,
			Amount:      row.Amount,
			Category:    ports.RewardCategory(row.Category),
			Week:        row.Week,
			Proof:       row.Proof,
			Status:      ports.GrantStatus(row.Status),
			TxHash:      row.TxHash,
			AllocatedAt: row.AllocatedAt,
			SettledAt:   row.SettledAt,
		})
	}
	return records
}

package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/domain/entities"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/progress-service/domain/errors"
)

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

func (r *Repository) GetProgress(ctx context.Context, userAddress string) (entities.Progress, error) {
	var row progressModel
	err := r.db.WithContext(ctx).
		Where("user_address = ?", strings.ToLower(strings.TrimSpace(userAddress))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Progress{}, domainerrors.ErrProgressNotFound
		}
		return entities.Progress{}, r.logError("progress_get_failed", err, "user_address", userAddress)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpsertProgress(ctx context.Context, progress entities.Progress) error {
	row := progressModelFromEntity(progress)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_address"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("progress_upsert_failed", err, "user_address", progress.UserAddress)
	}
	return nil
}

func (r *Repository) ListProgress(ctx context.Context) ([]entities.Progress, error) {
	var rows []progressModel
	if err := r.db.WithContext(ctx).Order("user_address asc").Find(&rows).Error; err != nil {
		return nil, r.logError("progress_list_failed", err)
	}
	items := make([]entities.Progress, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	r.logger.Error("progress repository error",
		append([]any{
			"event", event,
			"module", "campaign-onboarding/progress-service",
			"layer", "adapters/postgres",
			"error", err.Error(),
		}, args...)...)
	return err
}

type progressModel struct {
	UserAddress    string     `gorm:"column:user_address;primaryKey"`
	WeekMask       uint8      `gorm:"column:week_mask"`
	RegisteredAt   time.Time  `gorm:"column:registered_at"`
	LastActivityAt time.Time  `gorm:"column:last_activity_at"`
	GraduatedAt    *time.Time `gorm:"column:graduated_at"`
}

func (progressModel) TableName() string {
	return "campaign_progress"
}

func progressModelFromEntity(progress entities.Progress) progressModel {
	return progressModel{
		UserAddress:    progress.UserAddress,
		WeekMask:       progress.WeekMask,
		RegisteredAt:   progress.RegisteredAt.UTC(),
		LastActivityAt: progress.LastActivityAt.UTC(),
		GraduatedAt:    progress.GraduatedAt,
	}
}

func (m progressModel) toEntity() entities.Progress {
	return entities.Progress{
		UserAddress:    m.UserAddress,
		WeekMask:       m.WeekMask,
		RegisteredAt:   m.RegisteredAt,
		LastActivityAt: m.LastActivityAt,
		GraduatedAt:    m.GraduatedAt,
	}
}

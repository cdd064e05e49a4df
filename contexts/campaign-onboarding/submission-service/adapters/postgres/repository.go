package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/entities"
	domainerrors "github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/domain/errors"
	"github.com/0xandee/SpeedRunLisk/contexts/campaign-onboarding/submission-service/ports"
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

func (r *Repository) CreateSubmission(ctx context.Context, submission entities.Submission) error {
	row := submissionModelFromEntity(submission)
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateSubmission
		}
		return r.logError("submission_create_failed", err, "submission_id", submission.SubmissionID)
	}
	return nil
}

func (r *Repository) UpdateSubmission(ctx context.Context, submission entities.Submission) error {
	row := submissionModelFromEntity(submission)
	result := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(&row)
	if result.Error != nil {
		return r.logError("submission_update_failed", result.Error, "submission_id", submission.SubmissionID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSubmissionNotFound
	}
	return nil
}

func (r *Repository) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, domainerrors.ErrSubmissionNotFound
		}
		return entities.Submission{}, r.logError("submission_get_failed", err, "submission_id", submissionID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetByUserWeek(ctx context.Context, userAddress string, week int) (entities.Submission, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("user_address = ?", strings.ToLower(strings.TrimSpace(userAddress))).
		Where("week = ?", week).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, domainerrors.ErrSubmissionNotFound
		}
		return entities.Submission{}, r.logError("submission_get_by_user_week_failed", err,
			"user_address", userAddress, "week", week)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSubmissions(ctx context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	query := r.db.WithContext(ctx).Model(&submissionModel{})
	if filter.UserAddress != "" {
		query = query.Where("user_address = ?", filter.UserAddress)
	}
	if filter.Week != 0 {
		query = query.Where("week = ?", filter.Week)
	}
	if filter.ApprovedOnly {
		query = query.Where("status = ?", string(entities.ReviewStatusApproved))
	}
	var rows []submissionModel
	if err := query.Order("submitted_at asc").Find(&rows).Error; err != nil {
		return nil, r.logError("submission_list_failed", err)
	}
	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CountByWeek(ctx context.Context) (map[int]int, error) {
	type weekCount struct {
		Week  int
		Total int
	}
	var rows []weekCount
	err := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Select("week, count(*) as total").
		Group("week").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("submission_count_by_week_failed", err)
	}
	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Week] = row.Total
	}
	return counts, nil
}

func (r *Repository) CountryDistribution(ctx context.Context) (map[string]int, error) {
	type countryCount struct {
		Country string
		Total   int
	}
	var rows []countryCount
	err := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Select("country, count(*) as total").
		Where("country <> ''").
		Group("country").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("submission_country_distribution_failed", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Country] = row.Total
	}
	return counts, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	r.logger.Error("submission repository error",
		append([]any{
			"event", event,
			"module", "campaign-onboarding/submission-service",
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

type submissionModel struct {
	SubmissionID   string     `gorm:"column:submission_id;primaryKey"`
	UserAddress    string     `gorm:"column:user_address;index;uniqueIndex:idx_submission_user_week"`
	Week           int        `gorm:"column:week;index;uniqueIndex:idx_submission_user_week"`
	GithubURL      string     `gorm:"column:github_url"`
	SocialPostURL  string     `gorm:"column:social_post_url"`
	PayoutWallet   string     `gorm:"column:payout_wallet"`
	Country        string     `gorm:"column:country"`
	Notes          string     `gorm:"column:notes"`
	Status         string     `gorm:"column:status;index"`
	MentorFeedback string     `gorm:"column:mentor_feedback"`
	ReviewedBy     string     `gorm:"column:reviewed_by"`
	SubmittedAt    time.Time  `gorm:"column:submitted_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
	ReviewedAt     *time.Time `gorm:"column:reviewed_at"`
}

func (submissionModel) TableName() string {
	return "campaign_submissions"
}

func submissionModelFromEntity(submission entities.Submission) submissionModel {
	return submissionModel{
		SubmissionID:   strings.TrimSpace(submission.SubmissionID),
		UserAddress:    strings.ToLower(strings.TrimSpace(submission.UserAddress)),
		Week:           submission.Week,
		GithubURL:      submission.GithubURL,
		SocialPostURL:  submission.SocialPostURL,
		PayoutWallet:   submission.PayoutWallet,
		Country:        submission.Country,
		Notes:          submission.Notes,
		Status:         string(submission.Status),
		MentorFeedback: submission.MentorFeedback,
		ReviewedBy:     submission.ReviewedBy,
		SubmittedAt:    submission.SubmittedAt.UTC(),
		UpdatedAt:      submission.UpdatedAt.UTC(),
		ReviewedAt:     submission.ReviewedAt,
	}
}

func (m submissionModel) toEntity() entities.Submission {
	return entities.Submission{
		SubmissionID:   m.SubmissionID,
		UserAddress:    m.UserAddress,
		Week:           m.Week,
		GithubURL:      m.GithubURL,
		SocialPostURL:  m.SocialPostURL,
		PayoutWallet:   m.PayoutWallet,
		Country:        m.Country,
		Notes:          m.Notes,
		Status:         entities.ReviewStatus(m.Status),
		MentorFeedback: m.MentorFeedback,
		ReviewedBy:     m.ReviewedBy,
		SubmittedAt:    m.SubmittedAt,
		UpdatedAt:      m.UpdatedAt,
		ReviewedAt:     m.ReviewedAt,
	}
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/placementai/placement-predictor/internal/apperror"
	"github.com/placementai/placement-predictor/internal/model"
	"github.com/placementai/placement-predictor/internal/response"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db}
}

// AppendReport inserts a new report into the user's history and returns the
// generated id. CreatedAt is assigned here if the caller left it zero.
// Re-submitting an analysis simply appends another report; there is no
// uniqueness constraint across a user's reports.
func (r *ReportRepository) AppendReport(ctx context.Context, report *model.Report) (uuid.UUID, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return uuid.Nil, mapStoreErr("append report", err)
	}
	return report.ID, nil
}

// ListReports returns the user's full history ascending by created_at.
// A user with no reports yields an empty slice, not an error.
func (r *ReportRepository) ListReports(ctx context.Context, userID string) ([]model.Report, error) {
	reports := []model.Report{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&reports).Error
	return reports, mapStoreErr("list reports", err)
}

// ListReportsPage is the paginated variant used by the dashboards.
func (r *ReportRepository) ListReportsPage(ctx context.Context, userID string, page, pageSize int) ([]model.Report, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Report{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, nil, mapStoreErr("count reports", err)
	}

	reports := []model.Report{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reports).Error
	if err != nil {
		return nil, nil, mapStoreErr("list reports", err)
	}

	return reports, response.NewPagination(page, pageSize, len(reports), total), nil
}

// LatestReport returns the most recent report, or ErrNothingToAmend when
// the user has no history.
func (r *ReportRepository) LatestReport(ctx context.Context, userID string) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNothingToAmend
	}
	if err != nil {
		return nil, mapStoreErr("latest report", err)
	}
	return &report, nil
}

// AmendLatestReport applies a field-level merge onto the user's most recent
// report. CreatedAt and the echoed applicant attributes are never touched.
// The read and the update share one transaction so the merge is not torn,
// but two concurrent remedial completions still resolve last-write-wins:
// the later transaction's values stand. That mirrors the original flow and
// is documented rather than guarded.
func (r *ReportRepository) AmendLatestReport(ctx context.Context, userID string, amendment model.ReportAmendment) (*model.Report, error) {
	var amended model.Report
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest model.Report
		err := tx.Where("user_id = ?", userID).
			Order("created_at desc").
			First(&latest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNothingToAmend
		}
		if err != nil {
			return err
		}

		completed := latest.SkillTestsCompleted
		if amendment.CompletedSkill != "" && !containsSkill(completed, amendment.CompletedSkill) {
			completed = append(completed, amendment.CompletedSkill)
		}

		amendedAt := amendment.AmendedAt
		if amendedAt.IsZero() {
			amendedAt = time.Now()
		}

		latest.Probability = amendment.Probability
		latest.Confidence = amendment.Confidence
		latest.Attribution = amendment.Attribution
		latest.RecommendedTrack = amendment.RecommendedTrack
		latest.SkillTestsCompleted = completed
		latest.AmendedAt = &amendedAt

		if err := tx.Model(&model.Report{}).
			Where("id = ?", latest.ID).
			Select("probability", "confidence", "attribution", "recommended_track",
				"skill_tests_completed", "amended_at").
			Updates(map[string]any{
				"probability":           latest.Probability,
				"confidence":            latest.Confidence,
				"attribution":           latest.Attribution,
				"recommended_track":     latest.RecommendedTrack,
				"skill_tests_completed": latest.SkillTestsCompleted,
				"amended_at":            latest.AmendedAt,
			}).Error; err != nil {
			return err
		}
		amended = latest
		return nil
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNothingToAmend) {
			return nil, err
		}
		return nil, mapStoreErr("amend latest report", err)
	}
	return &amended, nil
}

// StudentSummaries joins each student with their latest report for the TPO
// dashboard. Students without reports are omitted.
func (r *ReportRepository) StudentSummaries(ctx context.Context) ([]model.StudentSummary, error) {
	summaries := []model.StudentSummary{}
	err := r.db.WithContext(ctx).Raw(`
        SELECT u.id AS user_id,
               u.display_name,
               u.email,
               r.department,
               r.probability,
               r.recommended_track,
               r.created_at AS last_analyzed_at,
               (SELECT count(*) FROM reports rc WHERE rc.user_id = u.id) AS report_count
        FROM users u
        JOIN LATERAL (
            SELECT * FROM reports rr
            WHERE rr.user_id = u.id
            ORDER BY rr.created_at DESC
            LIMIT 1
        ) r ON true
        WHERE u.role = ?
        ORDER BY r.probability DESC
    `, model.RoleStudent).Scan(&summaries).Error
	return summaries, mapStoreErr("student summaries", err)
}

func containsSkill(skills []string, name string) bool {
	for _, s := range skills {
		if s == name {
			return true
		}
	}
	return false
}

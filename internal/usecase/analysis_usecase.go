package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/placementai/placement-predictor/internal/apperror"
	"github.com/placementai/placement-predictor/internal/dto"
	"github.com/placementai/placement-predictor/internal/model"
	"github.com/placementai/placement-predictor/internal/response"
	"github.com/placementai/placement-predictor/internal/scoring"
	"github.com/placementai/placement-predictor/internal/service"
)

// DefaultSyncUserID receives bulk-imported reports that arrive without a
// user id, matching the spreadsheet-sync ingestion path.
const DefaultSyncUserID = "mock_user_sheets_sync"

// UserStore is the slice of the user repository the analysis flow needs.
type UserStore interface {
	EnsureUser(ctx context.Context, id string, profile model.UserProfile) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	ListStudents(ctx context.Context) ([]model.User, error)
}

// ReportStore is the persistence contract for a user's report history.
type ReportStore interface {
	AppendReport(ctx context.Context, report *model.Report) (uuid.UUID, error)
	ListReports(ctx context.Context, userID string) ([]model.Report, error)
	ListReportsPage(ctx context.Context, userID string, page, pageSize int) ([]model.Report, *response.Pagination, error)
	LatestReport(ctx context.Context, userID string) (*model.Report, error)
	AmendLatestReport(ctx context.Context, userID string, amendment model.ReportAmendment) (*model.Report, error)
	StudentSummaries(ctx context.Context) ([]model.StudentSummary, error)
}

type AnalysisUsecase struct {
	users     UserStore
	reports   ReportStore
	predictor service.PredictorServiceInterface
	synth     *scoring.Synthesizer
}

func NewAnalysisUsecase(users UserStore, reports ReportStore, predictor service.PredictorServiceInterface, synth *scoring.Synthesizer) *AnalysisUsecase {
	return &AnalysisUsecase{users: users, reports: reports, predictor: predictor, synth: synth}
}

// IngestMockReport handles the spreadsheet-sync ingestion path: validate
// the payload, synthesize an analysis, ensure the user document exists and
// append the report to their history.
func (uc *AnalysisUsecase) IngestMockReport(ctx context.Context, req dto.MockReportRequest) (*dto.MockReportResult, error) {
	if req.Cgpa == nil || *req.Cgpa == 0 || req.Internships == nil || req.Skills == "" || req.Department == "" {
		return nil, apperror.NewValidationError("",
			"Missing required fields: cgpa, internships, skills, department")
	}

	userID := req.UserID
	if userID == "" {
		userID = DefaultSyncUserID
	}
	userName := req.UserName
	if userName == "" {
		userName = "Anonymous Student"
	}
	userEmail := req.UserEmail
	if userEmail == "" {
		userEmail = "student@example.com"
	}

	outcome := uc.synth.Synthesize(scoring.Attributes{
		CGPA:        float64(*req.Cgpa),
		Internships: *req.Internships,
		SkillsText:  req.Skills,
		Department:  req.Department,
	})

	if _, err := uc.users.EnsureUser(ctx, userID, model.UserProfile{
		Email:       userEmail,
		DisplayName: userName,
		Source:      model.SourceSheetsSync,
	}); err != nil {
		return nil, err
	}

	report := &model.Report{
		UserID:           userID,
		CGPA:             float64(*req.Cgpa),
		Internships:      *req.Internships,
		Skills:           outcome.Skills,
		Department:       req.Department,
		Probability:      outcome.Probability,
		Confidence:       outcome.Confidence,
		RecommendedTrack: outcome.RecommendedTrack,
		Recommendations:  outcome.Recommendations,
		Attribution:      outcome.Attribution,
		Source:           model.SourceSheetsSync,
	}
	id, err := uc.reports.AppendReport(ctx, report)
	if err != nil {
		return nil, err
	}

	return &dto.MockReportResult{
		ReportID:         id.String(),
		UserID:           userID,
		Probability:      report.Probability,
		RecommendedTrack: report.RecommendedTrack,
	}, nil
}

// AnalyzeResume scores an uploaded resume. The external predictor is
// preferred when configured; any upstream failure falls back to local
// synthesis so an analysis event always produces a report.
func (uc *AnalysisUsecase) AnalyzeResume(ctx context.Context, userID string, profile model.UserProfile, fileName string, pdf []byte, resumeText string) (*model.Report, error) {
	if userID == "" {
		return nil, apperror.NewValidationError("userId", "user id is required")
	}

	features := scoring.ParseResumeFeatures(resumeText)

	report := &model.Report{
		UserID:      userID,
		CGPA:        features.CGPA,
		Internships: features.Internships,
		Skills:      features.Skills,
		Source:      model.SourceResumeUpload,
	}

	var prediction *service.PredictionResult
	if uc.predictor != nil && uc.predictor.Enabled() {
		var err error
		prediction, err = uc.predictor.Predict(ctx, fileName, pdf)
		if err != nil {
			log.Printf("predictor unavailable, falling back to local synthesis: %v", err)
			prediction = nil
		}
	}

	if prediction != nil {
		report.Probability = prediction.Probability
		report.Confidence = prediction.Confidence
		report.RecommendedTrack = prediction.RecommendedTrack
		report.Attribution = prediction.Attribution
		report.WeakSkills = prediction.WeakSkills
		report.Recommendations = uc.synth.GenerateRecommendations(
			features.CGPA, features.Internships, features.SkillsText(), "")
	} else {
		outcome := uc.synth.Synthesize(scoring.Attributes{
			CGPA:        features.CGPA,
			Internships: features.Internships,
			SkillsText:  features.SkillsText(),
		})
		report.Probability = outcome.Probability
		report.Confidence = outcome.Confidence
		report.RecommendedTrack = outcome.RecommendedTrack
		report.Recommendations = outcome.Recommendations
		report.Attribution = outcome.Attribution
	}

	profile.Source = model.SourceResumeUpload
	if _, err := uc.users.EnsureUser(ctx, userID, profile); err != nil {
		return nil, err
	}
	if _, err := uc.reports.AppendReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// History returns a page of the user's reports ascending by creation time.
func (uc *AnalysisUsecase) History(ctx context.Context, userID string, page, pageSize int) ([]model.Report, *response.Pagination, error) {
	return uc.reports.ListReportsPage(ctx, userID, page, pageSize)
}

// CompleteSkillTest amends the user's latest report after a remedial skill
// test. A user with no reports gets ErrNothingToAmend; no report is created.
func (uc *AnalysisUsecase) CompleteSkillTest(ctx context.Context, userID, skillName string, score int) (*dto.SkillTestResult, error) {
	if skillName == "" {
		return nil, apperror.NewValidationError("skillName", "skill name is required")
	}
	if score < 0 || score > 100 {
		return nil, apperror.NewValidationError("score", "score must be between 0 and 100")
	}

	latest, err := uc.reports.LatestReport(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &dto.SkillTestResult{
		SkillName:           skillName,
		OriginalProbability: latest.Probability,
	}

	var amendment model.ReportAmendment
	usedPredictor := false
	if uc.predictor != nil && uc.predictor.Enabled() {
		rePrediction, err := uc.predictor.RePredict(ctx, userID, skillName, score, latest.Probability)
		if err != nil {
			log.Printf("re-predict unavailable, falling back to local recompute: %v", err)
		} else {
			amendment = model.ReportAmendment{
				Probability:      rePrediction.NewProbability,
				Confidence:       rePrediction.NewConfidence,
				Attribution:      rePrediction.NewAttribution,
				RecommendedTrack: rePrediction.NewRecommendedTrack,
				CompletedSkill:   skillName,
			}
			result.Improvement = rePrediction.Improvement
			result.Message = rePrediction.Message
			usedPredictor = true
		}
	}

	if !usedPredictor {
		newProbability, improvement := uc.synth.AmendAfterSkillTest(latest.Probability, score)
		amendment = model.ReportAmendment{
			Probability: newProbability,
			Confidence:  uc.synth.ComputeConfidence(newProbability),
			Attribution: uc.synth.ComputeAttribution(),
			RecommendedTrack: uc.synth.RecommendTrack(
				latest.CGPA, strings.Join(latest.Skills, ", "), latest.Department),
			CompletedSkill: skillName,
		}
		result.Improvement = improvement
		result.Message = fmt.Sprintf(
			"Great job! Your %s skill has improved. Your placement probability increased from %.0f%% to %.0f%%!",
			skillName, latest.Probability, newProbability)
	}

	amended, err := uc.reports.AmendLatestReport(ctx, userID, amendment)
	if err != nil {
		return nil, err
	}

	result.NewProbability = amended.Probability
	result.NewConfidence = amended.Confidence
	result.NewRecommendedTrack = amended.RecommendedTrack
	return result, nil
}

// Student returns one user's profile document.
func (uc *AnalysisUsecase) Student(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.NewValidationError("id", "user id is required")
	}
	return uc.users.FindByID(ctx, id)
}

// StudentRoster lists every student, including those yet to run an analysis.
func (uc *AnalysisUsecase) StudentRoster(ctx context.Context) ([]model.User, error) {
	return uc.users.ListStudents(ctx)
}

// StudentSummaries feeds the TPO analytics dashboard.
func (uc *AnalysisUsecase) StudentSummaries(ctx context.Context) ([]model.StudentSummary, error) {
	return uc.reports.StudentSummaries(ctx)
}

package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/placementai/placement-predictor/internal/apperror"
	"github.com/placementai/placement-predictor/internal/dto"
	"github.com/placementai/placement-predictor/internal/model"
	"github.com/placementai/placement-predictor/internal/response"
	"github.com/placementai/placement-predictor/internal/scoring"
	"github.com/placementai/placement-predictor/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*model.User{}}
}

func (f *fakeUserStore) EnsureUser(_ context.Context, id string, profile model.UserProfile) (*model.User, error) {
	if existing, ok := f.users[id]; ok {
		return existing, nil
	}
	role := profile.Role
	if role == "" {
		role = model.RoleStudent
	}
	user := &model.User{
		ID:          id,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Role:        role,
		Source:      profile.Source,
		CreatedAt:   time.Now(),
	}
	f.users[id] = user
	return user, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) ListStudents(_ context.Context) ([]model.User, error) {
	students := []model.User{}
	for _, u := range f.users {
		if u.Role == model.RoleStudent {
			students = append(students, *u)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

type fakeReportStore struct {
	reports []model.Report
}

func (f *fakeReportStore) AppendReport(_ context.Context, report *model.Report) (uuid.UUID, error) {
	report.ID = uuid.New()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	f.reports = append(f.reports, *report)
	return report.ID, nil
}

func (f *fakeReportStore) ListReports(_ context.Context, userID string) ([]model.Report, error) {
	reports := []model.Report{}
	for _, r := range f.reports {
		if r.UserID == userID {
			reports = append(reports, r)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.Before(reports[j].CreatedAt)
	})
	return reports, nil
}

func (f *fakeReportStore) ListReportsPage(ctx context.Context, userID string, page, pageSize int) ([]model.Report, *response.Pagination, error) {
	reports, err := f.ListReports(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return reports, &response.Pagination{
		Page: page, PageSize: pageSize,
		TotalItems: int64(len(reports)), TotalPages: 1,
	}, nil
}

func (f *fakeReportStore) LatestReport(ctx context.Context, userID string) (*model.Report, error) {
	reports, _ := f.ListReports(ctx, userID)
	if len(reports) == 0 {
		return nil, apperror.ErrNothingToAmend
	}
	latest := reports[len(reports)-1]
	return &latest, nil
}

func (f *fakeReportStore) AmendLatestReport(ctx context.Context, userID string, amendment model.ReportAmendment) (*model.Report, error) {
	latest, err := f.LatestReport(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range f.reports {
		if f.reports[i].ID != latest.ID {
			continue
		}
		r := &f.reports[i]
		r.Probability = amendment.Probability
		r.Confidence = amendment.Confidence
		r.Attribution = amendment.Attribution
		r.RecommendedTrack = amendment.RecommendedTrack
		if amendment.CompletedSkill != "" {
			found := false
			for _, s := range r.SkillTestsCompleted {
				if s == amendment.CompletedSkill {
					found = true
				}
			}
			if !found {
				r.SkillTestsCompleted = append(r.SkillTestsCompleted, amendment.CompletedSkill)
			}
		}
		now := time.Now()
		r.AmendedAt = &now
		return r, nil
	}
	return nil, apperror.ErrNothingToAmend
}

func (f *fakeReportStore) StudentSummaries(context.Context) ([]model.StudentSummary, error) {
	return []model.StudentSummary{}, nil
}

type fakePredictor struct {
	enabled      bool
	rePrediction *service.RePredictionResult
	err          error
}

func (f *fakePredictor) Enabled() bool { return f.enabled }

func (f *fakePredictor) Predict(context.Context, string, []byte) (*service.PredictionResult, error) {
	return nil, f.err
}

func (f *fakePredictor) RePredict(context.Context, string, string, int, float64) (*service.RePredictionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rePrediction, nil
}

func newTestUsecase() (*AnalysisUsecase, *fakeUserStore, *fakeReportStore) {
	users := newFakeUserStore()
	reports := &fakeReportStore{}
	uc := NewAnalysisUsecase(users, reports, &fakePredictor{}, scoring.NewWithSource(rand.NewSource(7)))
	return uc, users, reports
}

func floatPtr(v float64) *dto.FlexFloat {
	f := dto.FlexFloat(v)
	return &f
}

func intPtr(v int) *int { return &v }

func TestIngestMockReportValidation(t *testing.T) {
	uc, _, reports := newTestUsecase()
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.MockReportRequest
	}{
		{
			name: "missing cgpa",
			req:  dto.MockReportRequest{Internships: intPtr(1), Skills: "go", Department: "CS"},
		},
		{
			name: "missing internships",
			req:  dto.MockReportRequest{Cgpa: floatPtr(8), Skills: "go", Department: "CS"},
		},
		{
			name: "missing skills",
			req:  dto.MockReportRequest{Cgpa: floatPtr(8), Internships: intPtr(1), Department: "CS"},
		},
		{
			name: "missing department",
			req:  dto.MockReportRequest{Cgpa: floatPtr(8), Internships: intPtr(1), Skills: "go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.IngestMockReport(ctx, tt.req)
			assert.Nil(t, result)
			assert.True(t, apperror.IsValidation(err))
		})
	}
	assert.Empty(t, reports.reports, "no report may be written on validation failure")
}

func TestIngestMockReportStrongApplicant(t *testing.T) {
	uc, users, reports := newTestUsecase()

	result, err := uc.IngestMockReport(context.Background(), dto.MockReportRequest{
		Cgpa:        floatPtr(9.2),
		Internships: intPtr(3),
		Skills:      "Python, SQL, React",
		Department:  "Computer Science",
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Probability)
	assert.Equal(t, scoring.TrackDataAnalyst, result.RecommendedTrack)
	assert.Equal(t, DefaultSyncUserID, result.UserID)
	assert.NotEmpty(t, result.ReportID)

	user := users.users[DefaultSyncUserID]
	require.NotNil(t, user)
	assert.Equal(t, "Anonymous Student", user.DisplayName)
	assert.Equal(t, "student@example.com", user.Email)
	assert.Equal(t, model.RoleStudent, user.Role)

	require.Len(t, reports.reports, 1)
	report := reports.reports[0]
	assert.Equal(t, model.SourceSheetsSync, report.Source)
	assert.Equal(t, []string{"Python", "SQL", "React"}, report.Skills)
	assert.Len(t, report.Recommendations, 3)
	assert.Contains(t, report.Recommendations[len(report.Recommendations)-1], "portfolio")
	assert.Len(t, report.Attribution, 5)
	assert.False(t, report.CreatedAt.IsZero())
}

func TestIngestMockReportKeepsExistingUser(t *testing.T) {
	uc, users, _ := newTestUsecase()
	ctx := context.Background()

	_, err := users.EnsureUser(ctx, "u1", model.UserProfile{Role: model.RoleTPO, DisplayName: "Existing"})
	require.NoError(t, err)

	_, err = uc.IngestMockReport(ctx, dto.MockReportRequest{
		Cgpa:        floatPtr(7.0),
		Internships: intPtr(0),
		Skills:      "go",
		Department:  "CS",
		UserID:      "u1",
		UserName:    "Someone Else",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleTPO, users.users["u1"].Role, "existing role must not be clobbered")
	assert.Equal(t, "Existing", users.users["u1"].DisplayName)
}

func TestCompleteSkillTestWithNoReports(t *testing.T) {
	uc, _, reports := newTestUsecase()

	result, err := uc.CompleteSkillTest(context.Background(), "ghost", "Java", 90)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperror.ErrNothingToAmend)
	assert.Empty(t, reports.reports, "a failed amend must not create a report")
}

func TestCompleteSkillTestAmendsLatest(t *testing.T) {
	uc, _, reports := newTestUsecase()
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := reports.AppendReport(ctx, &model.Report{
		UserID:      "u1",
		CGPA:        7.5,
		Internships: 1,
		Skills:      []string{"Java", "SQL"},
		Department:  "Computer Science",
		Probability: 68,
		Confidence:  72,
		CreatedAt:   created,
	})
	require.NoError(t, err)

	result, err := uc.CompleteSkillTest(ctx, "u1", "Java", 85)
	require.NoError(t, err)

	assert.Equal(t, 68.0, result.OriginalProbability)
	assert.Equal(t, 85.0, result.NewProbability)
	assert.Equal(t, 17, result.Improvement)
	assert.Contains(t, result.Message, "Java")

	amended := reports.reports[0]
	assert.Equal(t, 85.0, amended.Probability)
	assert.Equal(t, []string{"Java"}, amended.SkillTestsCompleted)
	assert.NotNil(t, amended.AmendedAt)
	// Immutable fields survive the amendment untouched.
	assert.Equal(t, created, amended.CreatedAt)
	assert.Equal(t, 7.5, amended.CGPA)
	assert.Equal(t, []string{"Java", "SQL"}, amended.Skills)
	// Track is recomputed from the echoed attributes; "SQL" wins rule one.
	assert.Equal(t, scoring.TrackDataAnalyst, amended.RecommendedTrack)
}

func TestCompleteSkillTestRepeatedSkillDoesNotDuplicate(t *testing.T) {
	uc, _, reports := newTestUsecase()
	ctx := context.Background()

	_, err := reports.AppendReport(ctx, &model.Report{UserID: "u1", Probability: 50})
	require.NoError(t, err)

	_, err = uc.CompleteSkillTest(ctx, "u1", "Python", 60)
	require.NoError(t, err)
	_, err = uc.CompleteSkillTest(ctx, "u1", "Python", 95)
	require.NoError(t, err)

	assert.Equal(t, []string{"Python"}, reports.reports[0].SkillTestsCompleted)
}

func TestCompleteSkillTestValidation(t *testing.T) {
	uc, _, _ := newTestUsecase()
	ctx := context.Background()

	_, err := uc.CompleteSkillTest(ctx, "u1", "", 50)
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.CompleteSkillTest(ctx, "u1", "Java", 101)
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.CompleteSkillTest(ctx, "u1", "Java", -1)
	assert.True(t, apperror.IsValidation(err))
}

func TestCompleteSkillTestPrefersPredictor(t *testing.T) {
	users := newFakeUserStore()
	reports := &fakeReportStore{}
	predictor := &fakePredictor{
		enabled: true,
		rePrediction: &service.RePredictionResult{
			NewProbability:      91,
			NewConfidence:       95,
			NewRecommendedTrack: "Data Scientist",
			NewAttribution:      scoring.Attribution{"cgpa": 0.2},
			Improvement:         11,
			Message:             "from predictor",
		},
	}
	uc := NewAnalysisUsecase(users, reports, predictor, scoring.NewWithSource(rand.NewSource(7)))
	ctx := context.Background()

	_, err := reports.AppendReport(ctx, &model.Report{UserID: "u1", Probability: 80})
	require.NoError(t, err)

	result, err := uc.CompleteSkillTest(ctx, "u1", "Python", 70)
	require.NoError(t, err)
	assert.Equal(t, 91.0, result.NewProbability)
	assert.Equal(t, 11, result.Improvement)
	assert.Equal(t, "from predictor", result.Message)
}

func TestCompleteSkillTestFallsBackWhenPredictorFails(t *testing.T) {
	users := newFakeUserStore()
	reports := &fakeReportStore{}
	predictor := &fakePredictor{enabled: true, err: errors.New("connection refused")}
	uc := NewAnalysisUsecase(users, reports, predictor, scoring.NewWithSource(rand.NewSource(7)))
	ctx := context.Background()

	_, err := reports.AppendReport(ctx, &model.Report{UserID: "u1", Probability: 60})
	require.NoError(t, err)

	result, err := uc.CompleteSkillTest(ctx, "u1", "SQL", 100)
	require.NoError(t, err)
	assert.Equal(t, 80.0, result.NewProbability)
	assert.Equal(t, 20, result.Improvement)
}

func TestAnalyzeResumeLocalFallback(t *testing.T) {
	uc, users, reports := newTestUsecase()

	resumeText := "CGPA: 9.3. Two internship stints. Built projects with python, sql and machine learning."
	report, err := uc.AnalyzeResume(context.Background(), "student-1",
		model.UserProfile{DisplayName: "Asha", Email: "asha@example.com"},
		"resume.pdf", []byte("%PDF"), resumeText)
	require.NoError(t, err)

	assert.Equal(t, model.SourceResumeUpload, report.Source)
	assert.Equal(t, 9.3, report.CGPA)
	assert.NotEmpty(t, report.Skills)
	assert.Equal(t, scoring.TrackDataAnalyst, report.RecommendedTrack)
	assert.GreaterOrEqual(t, report.Probability, 0.0)
	assert.LessOrEqual(t, report.Probability, 100.0)
	assert.NotEmpty(t, report.Recommendations)

	require.Len(t, reports.reports, 1)
	assert.Equal(t, "Asha", users.users["student-1"].DisplayName)
}

func TestStudent(t *testing.T) {
	uc, users, _ := newTestUsecase()
	ctx := context.Background()

	_, err := users.EnsureUser(ctx, "u1", model.UserProfile{DisplayName: "Asha"})
	require.NoError(t, err)

	user, err := uc.Student(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.DisplayName)

	_, err = uc.Student(ctx, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.Student(ctx, "")
	assert.True(t, apperror.IsValidation(err))
}

func TestStudentRoster(t *testing.T) {
	uc, users, _ := newTestUsecase()
	ctx := context.Background()

	_, err := users.EnsureUser(ctx, "s1", model.UserProfile{})
	require.NoError(t, err)
	_, err = users.EnsureUser(ctx, "s2", model.UserProfile{})
	require.NoError(t, err)
	_, err = users.EnsureUser(ctx, "officer", model.UserProfile{Role: model.RoleTPO})
	require.NoError(t, err)

	roster, err := uc.StudentRoster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 2, "only students belong on the roster")
	assert.Equal(t, "s1", roster[0].ID)
	assert.Equal(t, "s2", roster[1].ID)
}

func TestHistoryOrdering(t *testing.T) {
	uc, _, reports := newTestUsecase()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// Appended out of chronological order on purpose.
	for _, offset := range []int{2, 0, 1} {
		_, err := reports.AppendReport(ctx, &model.Report{
			UserID:    "u1",
			CreatedAt: base.Add(time.Duration(offset) * time.Hour),
		})
		require.NoError(t, err)
	}

	listed, pagination, err := uc.History(ctx, "u1", 1, 20)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, int64(3), pagination.TotalItems)

	for i := 1; i < len(listed); i++ {
		assert.False(t, listed[i].CreatedAt.Before(listed[i-1].CreatedAt))
	}
	last := listed[len(listed)-1]
	for _, r := range listed {
		assert.False(t, last.CreatedAt.Before(r.CreatedAt),
			"last element must carry the maximum created_at")
	}
}

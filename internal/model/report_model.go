package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/placementai/placement-predictor/internal/scoring"
)

// Report provenance values.
const (
	SourceDirectAnalysis = "direct_analysis"
	SourceResumeUpload   = "resume_upload"
	SourceSheetsSync     = "google_sheets_sync"
)

// WeakSkill is a predictor-supplied advisory about a skill scoring below
// threshold. Stored pass-through; no invariant enforced here.
type WeakSkill struct {
	SkillName    string `json:"skill_name"`
	CurrentScore int    `json:"current_score"`
	Message      string `json:"message"`
}

// Report is one persisted analysis outcome for a user. CreatedAt and the
// echoed applicant attributes are immutable; the derived fields of the
// most recent report may be amended once per remedial skill test.
type Report struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID string    `gorm:"type:varchar(128);index" json:"user_id"`

	// Echo of the applicant attributes the analysis ran on.
	CGPA        float64  `gorm:"type:float" json:"cgpa"`
	Internships int      `json:"internships"`
	Skills      []string `gorm:"serializer:json;type:jsonb" json:"skills"`
	Department  string   `gorm:"type:varchar(255)" json:"department"`

	// Derived analysis fields.
	Probability      float64             `gorm:"type:float" json:"probability"`
	Confidence       float64             `gorm:"type:float" json:"confidence"`
	RecommendedTrack string              `gorm:"type:varchar(100)" json:"recommended_track"`
	Recommendations  []string            `gorm:"serializer:json;type:jsonb" json:"recommendations"`
	Attribution      scoring.Attribution `gorm:"serializer:json;type:jsonb" json:"shap_values"`
	WeakSkills       []WeakSkill         `gorm:"serializer:json;type:jsonb" json:"weak_skills,omitempty"`

	Source              string     `gorm:"type:varchar(50)" json:"source"`
	SkillTestsCompleted []string   `gorm:"serializer:json;type:jsonb" json:"skill_tests_completed,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	AmendedAt           *time.Time `json:"amended_at,omitempty"`
}

// ReportAmendment is the field-level merge applied to the latest report
// after a remedial skill test. Only derived fields appear here; created_at
// and the echoed attributes are never part of an amendment.
type ReportAmendment struct {
	Probability      float64
	Confidence       float64
	Attribution      scoring.Attribution
	RecommendedTrack string
	CompletedSkill   string
	AmendedAt        time.Time
}

// StudentSummary is the per-student roll-up the TPO dashboard renders:
// identity plus the latest report's headline numbers.
type StudentSummary struct {
	UserID           string    `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	Email            string    `json:"email"`
	Department       string    `json:"department"`
	Probability      float64   `json:"probability"`
	RecommendedTrack string    `json:"recommended_track"`
	ReportCount      int64     `json:"report_count"`
	LastAnalyzedAt   time.Time `json:"last_analyzed_at"`
}

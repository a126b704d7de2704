package dto

import (
	"bytes"
	"fmt"
	"strconv"
)

// FlexFloat accepts both JSON numbers and numeric strings. Spreadsheet
// sync posts cgpa as a string, the dashboard posts a number.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number: %q", data)
	}
	*f = FlexFloat(v)
	return nil
}

// MockReportRequest is the ingestion payload of POST /reports. Pointer
// fields distinguish "missing" from zero values for validation.
type MockReportRequest struct {
	Cgpa        *FlexFloat `json:"cgpa"`
	Internships *int       `json:"internships"`
	Skills      string     `json:"skills"`
	Department  string     `json:"department"`
	UserID      string     `json:"userId"`
	UserName    string     `json:"userName"`
	UserEmail   string     `json:"userEmail"`
}

// MockReportResult is the data portion of a successful ingestion response.
type MockReportResult struct {
	ReportID         string  `json:"reportId"`
	UserID           string  `json:"userId"`
	Probability      float64 `json:"probability"`
	RecommendedTrack string  `json:"recommendedTrack"`
}

// SkillTestRequest reports a completed remedial skill test.
type SkillTestRequest struct {
	SkillName string `json:"skillName"`
	Score     *int   `json:"score"`
}

// SkillTestResult summarizes the amendment applied after a skill test.
type SkillTestResult struct {
	SkillName           string  `json:"skillName"`
	OriginalProbability float64 `json:"originalProbability"`
	NewProbability      float64 `json:"newProbability"`
	NewConfidence       float64 `json:"newConfidence"`
	NewRecommendedTrack string  `json:"newRecommendedTrack"`
	Improvement         int     `json:"improvement"`
	Message             string  `json:"message"`
}

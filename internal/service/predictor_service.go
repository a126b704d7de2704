package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/placementai/placement-predictor/internal/apperror"
	"github.com/placementai/placement-predictor/internal/config"
	"github.com/placementai/placement-predictor/internal/model"
	"github.com/placementai/placement-predictor/internal/scoring"
	"github.com/tidwall/gjson"
)

type PredictorServiceInterface interface {
	Enabled() bool
	Predict(ctx context.Context, fileName string, pdf []byte) (*PredictionResult, error)
	RePredict(ctx context.Context, userID, skillName string, newScore int, originalProbability float64) (*RePredictionResult, error)
}

// PredictionResult is the parsed output of the external resume predictor.
type PredictionResult struct {
	Probability      float64
	Confidence       float64
	RecommendedTrack string
	Attribution      scoring.Attribution
	WeakSkills       []model.WeakSkill
	Features         scoring.ResumeFeatures
}

// RePredictionResult is the parsed output of the re-predict call that runs
// after a remedial skill test.
type RePredictionResult struct {
	NewProbability      float64
	NewConfidence       float64
	NewRecommendedTrack string
	NewAttribution      scoring.Attribution
	NewWeakSkills       []model.WeakSkill
	Improvement         int
	Message             string
}

// PredictorService talks to the external resume-prediction API. The service
// is optional: when PREDICTOR_API_URL is unset the analysis usecase falls
// back to local synthesis.
type PredictorService struct {
	client  *resty.Client
	baseURL string
}

func NewPredictorService() *PredictorService {
	cfg := config.LoadPredictorConfig()
	client := resty.New().SetTimeout(cfg.Timeout)
	return &PredictorService{client: client, baseURL: cfg.BaseURL}
}

func (s *PredictorService) Enabled() bool {
	return s.baseURL != ""
}

// Predict uploads a resume PDF and parses the prediction payload. Transport
// failures and 5xx responses come back as retryable upstream errors.
func (s *PredictorService) Predict(ctx context.Context, fileName string, pdf []byte) (*PredictionResult, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("resume", fileName, bytes.NewReader(pdf)).
		Post(s.baseURL + "/predict")
	if err != nil {
		return nil, &apperror.UpstreamServiceError{Service: "predictor", Err: err}
	}
	body := resp.String()
	if resp.StatusCode() != 200 {
		return nil, &apperror.UpstreamServiceError{
			Service: "predictor",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode(), gjson.Get(body, "error").String()),
		}
	}

	if !gjson.Get(body, "probability").Exists() {
		return nil, &apperror.UpstreamServiceError{
			Service: "predictor",
			Err:     fmt.Errorf("malformed response: missing probability"),
		}
	}

	result := &PredictionResult{
		Probability:      gjson.Get(body, "probability").Float(),
		Confidence:       gjson.Get(body, "confidence").Float(),
		RecommendedTrack: gjson.Get(body, "recommended_track").String(),
		Attribution:      parseAttribution(gjson.Get(body, "shap_values")),
		WeakSkills:       parseWeakSkills(gjson.Get(body, "weak_skills")),
		Features: scoring.ResumeFeatures{
			CGPA:           gjson.Get(body, "features_extracted.cgpa").Float(),
			Internships:    int(gjson.Get(body, "features_extracted.internships").Int()),
			Projects:       int(gjson.Get(body, "features_extracted.projects").Int()),
			Certifications: int(gjson.Get(body, "features_extracted.certifications").Int()),
		},
	}
	return result, nil
}

// RePredict reports a remedial test score and parses the updated prediction.
func (s *PredictorService) RePredict(ctx context.Context, userID, skillName string, newScore int, originalProbability float64) (*RePredictionResult, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"userId":              userID,
			"skillName":           skillName,
			"newScore":            newScore,
			"originalProbability": originalProbability,
		}).
		Post(s.baseURL + "/re-predict")
	if err != nil {
		return nil, &apperror.UpstreamServiceError{Service: "predictor", Err: err}
	}
	body := resp.String()
	if resp.StatusCode() != 200 {
		return nil, &apperror.UpstreamServiceError{
			Service: "predictor",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode(), gjson.Get(body, "error").String()),
		}
	}

	if !gjson.Get(body, "new_probability").Exists() {
		return nil, &apperror.UpstreamServiceError{
			Service: "predictor",
			Err:     fmt.Errorf("malformed response: missing new_probability"),
		}
	}

	result := &RePredictionResult{
		NewProbability:      gjson.Get(body, "new_probability").Float(),
		NewConfidence:       gjson.Get(body, "new_confidence").Float(),
		NewRecommendedTrack: gjson.Get(body, "new_recommended_track").String(),
		NewAttribution:      parseAttribution(gjson.Get(body, "new_shap_values")),
		NewWeakSkills:       parseWeakSkills(gjson.Get(body, "new_weak_skills")),
		Improvement:         int(gjson.Get(body, "improvement").Int()),
		Message:             gjson.Get(body, "message").String(),
	}
	return result, nil
}

func parseAttribution(value gjson.Result) scoring.Attribution {
	attribution := scoring.Attribution{}
	value.ForEach(func(key, val gjson.Result) bool {
		attribution[key.String()] = val.Float()
		return true
	})
	return attribution
}

func parseWeakSkills(value gjson.Result) []model.WeakSkill {
	weakSkills := []model.WeakSkill{}
	value.ForEach(func(_, item gjson.Result) bool {
		weakSkills = append(weakSkills, model.WeakSkill{
			SkillName:    item.Get("skill_name").String(),
			CurrentScore: int(item.Get("current_score").Int()),
			Message:      item.Get("message").String(),
		})
		return true
	})
	return weakSkills
}

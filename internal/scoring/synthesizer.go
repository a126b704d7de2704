package scoring

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Attribution maps each placement factor to an illustrative, non-negative
// weight for the feature-importance chart. The key set is fixed; values are
// not normalized.
type Attribution map[string]float64

// Attributes is the raw applicant input for one analysis event.
type Attributes struct {
	CGPA        float64
	Internships int
	SkillsText  string
	Department  string
}

// Outcome is everything the synthesizer derives from a set of attributes.
type Outcome struct {
	Probability      float64
	Confidence       float64
	Attribution      Attribution
	RecommendedTrack string
	Recommendations  []string
	Skills           []string
}

const (
	TrackDataAnalyst       = "Data Analyst"
	TrackDataScientist     = "Data Scientist"
	TrackFrontendDeveloper = "Frontend Developer"
	TrackBackendDeveloper  = "Backend Developer"
	TrackSoftwareEngineer  = "Software Engineer"
	TrackSoftwareDeveloper = "Software Developer"
)

// Synthesizer turns applicant attributes into a placement report. It is pure
// except for its random source, which is injected so tests can pin a seed.
// One instance serves all requests, so draws from the source are serialized
// behind a mutex; *rand.Rand itself is not safe for concurrent use.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New() *Synthesizer {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewWithSource(src rand.Source) *Synthesizer {
	return &Synthesizer{rng: rand.New(src)}
}

// ComputeProbability scores an applicant into [0,100]. Base 40, plus the
// single highest matching CGPA tier, plus capped internship and skill
// bonuses. Out-of-range inputs are absorbed by the clamp, never rejected.
func (s *Synthesizer) ComputeProbability(cgpa float64, internships int, skills []string) float64 {
	probability := 40.0

	switch {
	case cgpa >= 9.0:
		probability += 30
	case cgpa >= 8.0:
		probability += 25
	case cgpa >= 7.0:
		probability += 20
	case cgpa >= 6.0:
		probability += 10
	}

	probability += math.Min(float64(internships)*10, 20)
	probability += math.Min(float64(len(skills))*2, 10)

	return clamp(probability, 0, 100)
}

// ComputeConfidence adds a non-negative jitter of 0-9 points on top of the
// probability, capped at 100. Not reproducible across calls with the same
// input; callers that need determinism must seed the synthesizer.
func (s *Synthesizer) ComputeConfidence(probability float64) float64 {
	s.mu.Lock()
	jitter := s.rng.Intn(10)
	s.mu.Unlock()
	return math.Min(probability+float64(jitter), 100)
}

// ComputeAttribution draws a fresh weight per factor. The per-key upper
// bounds mirror the display ranges of the importance chart.
func (s *Synthesizer) ComputeAttribution() Attribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Attribution{
		"cgpa":           s.rng.Float64() * 0.3,
		"internships":    s.rng.Float64() * 0.2,
		"skills":         s.rng.Float64() * 0.25,
		"projects":       s.rng.Float64() * 0.15,
		"certifications": s.rng.Float64() * 0.1,
	}
}

// RecommendTrack evaluates an ordered decision list against the raw skills
// text (case-insensitive substring match, not the parsed list). The first
// matching rule wins.
func (s *Synthesizer) RecommendTrack(cgpa float64, skillsText, department string) string {
	skillsLower := strings.ToLower(skillsText)
	deptLower := strings.ToLower(department)

	switch {
	case strings.Contains(skillsLower, "data") ||
		strings.Contains(skillsLower, "analytics") ||
		strings.Contains(skillsLower, "sql"):
		return TrackDataAnalyst
	case strings.Contains(skillsLower, "python") && strings.Contains(skillsLower, "machine learning"):
		return TrackDataScientist
	case strings.Contains(skillsLower, "react") ||
		strings.Contains(skillsLower, "angular") ||
		strings.Contains(skillsLower, "vue"):
		return TrackFrontendDeveloper
	case strings.Contains(skillsLower, "node") || strings.Contains(skillsLower, "backend"):
		return TrackBackendDeveloper
	case cgpa >= 8.0 &&
		(strings.Contains(deptLower, "computer") || strings.Contains(deptLower, "software")):
		return TrackSoftwareEngineer
	default:
		return TrackSoftwareDeveloper
	}
}

// GenerateRecommendations appends advisories whose triggers hold, in fixed
// order. Exactly one of the programming advisories fires, and the portfolio
// advisory is always present and always last, so the result is never empty.
func (s *Synthesizer) GenerateRecommendations(cgpa float64, internships int, skillsText, department string) []string {
	recommendations := []string{}
	skillsLower := strings.ToLower(skillsText)
	deptLower := strings.ToLower(department)

	if cgpa < 7.0 {
		recommendations = append(recommendations,
			"Focus on improving academic performance to increase placement opportunities")
	}

	if internships < 2 {
		recommendations = append(recommendations,
			"Gain more practical experience through internships in your field")
	}

	if strings.Contains(skillsLower, "python") || strings.Contains(skillsLower, "java") {
		recommendations = append(recommendations,
			"Strong programming foundation - consider advanced software development roles")
	} else {
		recommendations = append(recommendations,
			"Develop programming skills in Python, Java, or JavaScript for better opportunities")
	}

	if strings.Contains(deptLower, "computer") || strings.Contains(deptLower, "cs") {
		recommendations = append(recommendations,
			"Explore full-stack development, data science, or cloud computing specializations")
	}

	recommendations = append(recommendations,
		"Participate in coding competitions and open-source projects to build portfolio")

	return recommendations
}

// Synthesize composes the individual scoring functions into one outcome.
// Probability is rounded to one decimal for presentation.
func (s *Synthesizer) Synthesize(attrs Attributes) Outcome {
	skills := ParseSkills(attrs.SkillsText)
	probability := round1(s.ComputeProbability(attrs.CGPA, attrs.Internships, skills))

	return Outcome{
		Probability:      probability,
		Confidence:       s.ComputeConfidence(probability),
		Attribution:      s.ComputeAttribution(),
		RecommendedTrack: s.RecommendTrack(attrs.CGPA, attrs.SkillsText, attrs.Department),
		Recommendations:  s.GenerateRecommendations(attrs.CGPA, attrs.Internships, attrs.SkillsText, attrs.Department),
		Skills:           skills,
	}
}

// AmendAfterSkillTest maps a remedial test score onto an updated probability.
// A perfect test adds 20 points; the boost scales linearly with the score.
func (s *Synthesizer) AmendAfterSkillTest(originalProbability float64, testScore int) (newProbability float64, improvement int) {
	improvement = int(float64(testScore) / 100 * 20)
	newProbability = math.Min(100, originalProbability+float64(improvement))
	return newProbability, improvement
}

// ParseSkills splits comma-delimited skills text, trimming whitespace and
// dropping empty and duplicate entries while preserving order.
func ParseSkills(raw string) []string {
	skills := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		skill := strings.TrimSpace(part)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, skill)
	}
	return skills
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

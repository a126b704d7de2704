package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// ResumeFeatures are the raw signals pulled out of extracted resume text
// before scoring or forwarding to the external predictor.
type ResumeFeatures struct {
	CGPA           float64  `json:"cgpa"`
	Internships    int      `json:"internships"`
	Projects       int      `json:"projects"`
	Skills         []string `json:"skills"`
	Certifications int      `json:"certifications"`
}

var cgpaPattern = regexp.MustCompile(`(?:cgpa|gpa|grade)[:\s]*(\d+\.?\d*)`)

// knownSkills is the scan list for resume text; matching is substring-based
// so "machine learning engineer" still counts as machine learning.
var knownSkills = []string{
	"python", "java", "javascript", "react", "sql", "machine learning",
	"data science", "c++", "git", "aws", "docker",
}

// ParseResumeFeatures extracts scoring features from resume text using the
// same lightweight pattern matching the predictor applies. It never fails:
// a resume with no recognizable signals yields zero-valued features.
func ParseResumeFeatures(text string) ResumeFeatures {
	textLower := strings.ToLower(text)

	features := ResumeFeatures{Skills: []string{}}

	if m := cgpaPattern.FindStringSubmatch(textLower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			features.CGPA = v
		}
	}

	features.Internships = strings.Count(textLower, "intern")
	features.Projects = strings.Count(textLower, "project")
	features.Certifications = strings.Count(textLower, "certificate") +
		strings.Count(textLower, "certification")

	for _, skill := range knownSkills {
		if strings.Contains(textLower, skill) {
			features.Skills = append(features.Skills, skill)
		}
	}

	return features
}

// SkillsText renders the extracted skill list back into the comma-delimited
// form the track and recommendation rules match against.
func (f ResumeFeatures) SkillsText() string {
	return strings.Join(f.Skills, ", ")
}

package dto

// ChatMessage is one turn of an interview transcript. Role is "user" or
// "model", mirroring the Gemini chat roles the web client already uses.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type InterviewRequest struct {
	History []ChatMessage `json:"history"`
	Message string        `json:"message"`
}

type InterviewResponse struct {
	Reply string `json:"reply"`
}

type GuidanceRequest struct {
	Query string `json:"query"`
}

type GuidanceResponse struct {
	Advice string `json:"advice"`
}

type QuizRequest struct {
	Skill     string `json:"skill"`
	Questions int    `json:"questions"`
}

// QuizQuestion is a single multiple-choice question extracted from the
// model's JSON output.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

type Quiz struct {
	Skill     string         `json:"skill"`
	Questions []QuizQuestion `json:"questions"`
}

// ExploreResult is one role-explorer hit.
type ExploreResult struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Skills  string `json:"skills"`
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/placementai/placement-predictor/internal/apperror"
	"github.com/placementai/placement-predictor/internal/dto"
	"github.com/placementai/placement-predictor/internal/service"
	"github.com/tidwall/gjson"
)

const chatModel = "gemini-2.5-flash"

const interviewSystemInstruction = `You are an experienced technical interviewer conducting a mock interview for placement preparation.
Your role is to:
- Ask relevant technical and behavioral questions
- Provide constructive feedback on answers
- Guide the candidate with hints if they struggle
- Maintain a professional yet supportive tone
- Cover topics like data structures, algorithms, system design, and soft skills
- Be encouraging and help candidates improve

Provide thoughtful, detailed responses to help candidates improve their interview skills.`

const guidanceSystemInstruction = `You are an expert career counselor specializing in tech placements and career development.
Your expertise includes:
- Resume and CV optimization
- Interview preparation (technical and behavioral)
- Salary negotiation strategies
- Career path guidance
- Skills development roadmap
- Industry trends and insights

Provide helpful, actionable, and personalized guidance. Be encouraging and supportive while being realistic about challenges.`

// Canned fallbacks substituted when the model returns nothing usable. The
// output is user-facing conversational text, so an upstream failure must
// never surface as an error to the client.
const interviewFallback = "I understand you're looking for career guidance. Let me help you with that! Could you please rephrase your question or be more specific about what aspect you'd like to focus on? For example:\n\n" +
	"• Technical interview preparation\n• Resume building\n• Salary negotiation strategies\n• Skills to develop\n• Career path guidance\n\nWhat would you like to discuss?"

const guidanceFallback = "I'm here to help with your career guidance! Could you please rephrase your question? I can assist with:\n\n" +
	"• Resume and CV tips\n• Interview preparation\n• Skills development\n• Salary negotiation\n• Career planning\n\nWhat would you like to know more about?"

type InterviewUsecase struct {
	gemini service.GeminiServiceInterface
}

func NewInterviewUsecase(gemini service.GeminiServiceInterface) *InterviewUsecase {
	return &InterviewUsecase{gemini: gemini}
}

// MockInterview continues an interview transcript with the next interviewer
// turn. Model failures and empty output degrade to the canned fallback.
func (uc *InterviewUsecase) MockInterview(ctx context.Context, history []dto.ChatMessage, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperror.NewValidationError("message", "message is required")
	}

	var prompt strings.Builder
	prompt.WriteString(interviewSystemInstruction)
	prompt.WriteString("\n\nConversation so far:\n")
	for _, turn := range history {
		speaker := "Candidate"
		if turn.Role == "model" {
			speaker = "Interviewer"
		}
		fmt.Fprintf(&prompt, "%s: %s\n", speaker, turn.Text)
	}
	fmt.Fprintf(&prompt, "Candidate: %s\nInterviewer:", message)

	reply, err := uc.gemini.GenerateContent(ctx, chatModel, prompt.String(), 0.8)
	if err != nil || strings.TrimSpace(reply) == "" {
		return interviewFallback, nil
	}
	return strings.TrimSpace(reply), nil
}

// Guidance answers a one-shot career question.
func (uc *InterviewUsecase) Guidance(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", apperror.NewValidationError("query", "query is required")
	}

	prompt := guidanceSystemInstruction + "\n\nQuestion: " + query
	advice, err := uc.gemini.GenerateContent(ctx, chatModel, prompt, 0.7)
	if err != nil || strings.TrimSpace(advice) == "" {
		return guidanceFallback, nil
	}
	return strings.TrimSpace(advice), nil
}

// GenerateQuiz asks the model for a multiple-choice skill quiz and extracts
// the JSON out of its free-text reply. Unlike the conversational paths a
// malformed quiz is an upstream error: there is no sensible canned quiz.
func (uc *InterviewUsecase) GenerateQuiz(ctx context.Context, skill string, questions int) (*dto.Quiz, error) {
	if strings.TrimSpace(skill) == "" {
		return nil, apperror.NewValidationError("skill", "skill is required")
	}
	if questions < 1 || questions > 20 {
		questions = 5
	}

	prompt := fmt.Sprintf(`Generate a %s skill test with %d multiple-choice questions.
Return your answer STRICTLY in JSON format with this schema:
{
  "questions": [
    {
      "question": "<question text>",
      "options": ["<option A>", "<option B>", "<option C>", "<option D>"],
      "answer": <index 0-3 of the correct option>
    }
  ]
}`, skill, questions)

	text, err := uc.gemini.GenerateContent(ctx, chatModel, prompt, 0.1)
	if err != nil {
		return nil, &apperror.UpstreamServiceError{Service: "gemini", Err: err}
	}

	payload := extractJSON(text)
	quiz := &dto.Quiz{Skill: skill}
	gjson.Get(payload, "questions").ForEach(func(_, item gjson.Result) bool {
		question := dto.QuizQuestion{
			Question: item.Get("question").String(),
			Answer:   int(item.Get("answer").Int()),
		}
		item.Get("options").ForEach(func(_, opt gjson.Result) bool {
			question.Options = append(question.Options, opt.String())
			return true
		})
		if question.Question != "" && len(question.Options) > 0 {
			quiz.Questions = append(quiz.Questions, question)
		}
		return true
	})

	if len(quiz.Questions) == 0 {
		return nil, &apperror.UpstreamServiceError{
			Service: "gemini",
			Err:     fmt.Errorf("no questions in model output"),
		}
	}
	return quiz, nil
}

// extractJSON trims markdown fences and any prose around the first JSON
// object in a model reply.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"quizgen-be/internal/apperr"
)

// questionTemperature is fixed; a single malformed completion aborts the run
// rather than triggering a retry at a different setting.
const questionTemperature = 0.7

const questionPromptTemplate = `You are an expert educational content creator. Generate a high-quality question based on the document.

RULES:
- Generate ONE question
- Test comprehension, not just memory
- Focus on key concepts or facts
- Provide the correct answer and a brief explanation
- Return valid JSON

DOCUMENT TEXT:
%s

OUTPUT FORMAT:
{
    "question": "Your question here?",
    "correct_answer": "The correct answer here",
    "explanation": "Brief explanation of why this is correct"
}`

func buildQuestionPrompt(documentText string) string {
	return fmt.Sprintf(questionPromptTemplate, documentText)
}

type generatedQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// parseQuestionOutput validates a completion against the required shape:
// a JSON object with non-empty question, correct_answer and explanation.
func parseQuestionOutput(raw string) (*generatedQuestion, error) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return nil, apperr.Validation("completion is not a JSON object")
	}

	var result generatedQuestion
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, apperr.Validation("completion is not valid JSON: %v", err)
	}

	for field, value := range map[string]string{
		"question":       result.Question,
		"correct_answer": result.CorrectAnswer,
		"explanation":    result.Explanation,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, apperr.Validation("missing or empty field: %s", field)
		}
	}

	return &result, nil
}

// extractJSONObject returns the outermost {...} block of a completion. Local
// models tend to wrap JSON in markdown fences or prose.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

package workflow

// Turn is one conversational exchange: what the user asked for and what the
// bot produced.
type Turn struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// QuizState is the shared mutable record a pipeline run carries through its
// stages. Created fresh per run; each stage reads and extends it in place.
// The run's session id doubles as the checkpoint config id.
type QuizState struct {
	SessionID           string `json:"session_id"`
	UserID              uint   `json:"user_id"`
	DocumentID          uint   `json:"document_id"`
	DocumentText        string `json:"document_text,omitempty"`
	QuizID              uint   `json:"quiz_id,omitempty"`
	QuestionID          uint   `json:"question_id,omitempty"`
	Question            string `json:"question,omitempty"`
	CorrectAnswer       string `json:"correct_answer,omitempty"`
	Explanation         string `json:"explanation,omitempty"`
	ConversationHistory []Turn `json:"conversation_history"`
}

func NewQuizState(sessionID string, userID, documentID uint, documentText string) *QuizState {
	return &QuizState{
		SessionID:           sessionID,
		UserID:              userID,
		DocumentID:          documentID,
		DocumentText:        documentText,
		ConversationHistory: make([]Turn, 0),
	}
}

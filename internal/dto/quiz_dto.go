package dto

import "time"

type CreateQuizRequest struct {
	Title      string `json:"title" validate:"required,min=1"`
	OwnerId    uint   `json:"owner_id" validate:"required"`
	DocumentId uint   `json:"document_id"`
}

type QuizResponse struct {
	Id         uint               `json:"id"`
	Title      string             `json:"title"`
	OwnerId    uint               `json:"owner_id"`
	DocumentId uint               `json:"document_id,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Questions  []QuestionResponse `json:"questions,omitempty"`
}

type CreateQuestionRequest struct {
	QuizId        uint   `json:"quiz_id" validate:"required"`
	Text          string `json:"text" validate:"required,min=1"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type QuestionResponse struct {
	Id            uint   `json:"id"`
	QuizId        uint   `json:"quiz_id"`
	Text          string `json:"text"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

type GenerateQuizRequest struct {
	UserId       uint   `json:"user_id" validate:"required"`
	DocumentId   uint   `json:"document_id" validate:"required"`
	DocumentText string `json:"document_text" validate:"required,min=1"`
}

type GenerateQuizResponse struct {
	SessionId     string `json:"session_id"`
	QuizId        uint   `json:"quiz_id"`
	QuestionId    uint   `json:"question_id"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type RunStatusResponse struct {
	SessionId  string     `json:"session_id"`
	Status     string     `json:"status"`
	QuizId     uint       `json:"quiz_id,omitempty"`
	QuestionId uint       `json:"question_id,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

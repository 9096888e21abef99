package entity

import "time"

type Quiz struct {
	Id         uint
	Title      string
	OwnerId    uint
	DocumentId uint
	CreatedAt  time.Time
}

type Question struct {
	Id            uint
	QuizId        uint
	Text          string
	CorrectAnswer string
	Explanation   string
	CreatedAt     time.Time
}

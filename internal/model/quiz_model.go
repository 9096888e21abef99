package model

import "time"

type Quiz struct {
	Id         uint      `gorm:"primaryKey;autoIncrement"`
	Title      string    `gorm:"type:varchar(255);not null"`
	OwnerId    uint      `gorm:"not null;index"`
	DocumentId uint      `gorm:"index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	Id            uint      `gorm:"primaryKey;autoIncrement"`
	QuizId        uint      `gorm:"not null;index"`
	Text          string    `gorm:"type:text;not null"`
	CorrectAnswer string    `gorm:"type:text"`
	Explanation   string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Question) TableName() string {
	return "questions"
}

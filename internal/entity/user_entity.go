package entity

import "time"

type User struct {
	Id        uint
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package model

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:65;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

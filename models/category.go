package models

type Category struct {
	ID   int    `json:"id" gorm:"primary_key"`
	Type string `json:"type"`
}

package model

import "time"

// Album represents an album in the catalog.
type Album struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Desc      string    `json:"desc" gorm:"size:1024"`
	Artist    string    `json:"artist" gorm:"size:255"`
	BgColor   string    `json:"bgColor" gorm:"size:16"`
	Image     string    `json:"image" gorm:"size:767"`
	CreatedAt time.Time `json:"createdAt"`
}

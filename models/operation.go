package models

import (
	"time"
)

// Operation records one completed card render: the committed field values
// and where the produced artifact was written. Operation IDs are not
// unique by design; duplicates from the generator are tolerated.
type Operation struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	OpID         string `gorm:"size:16;index;not null"`
	Battery      int    `gorm:"not null"`
	TimeOfDay    string `gorm:"size:8;not null"`
	Amount       string `gorm:"size:64;not null"`
	Wallet       string `gorm:"size:255;not null"`
	ArtifactPath string `gorm:"size:512;not null"`
}

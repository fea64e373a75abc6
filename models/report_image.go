package models

import (
	"time"
)

// ReportImage is a single image attached to a report. FilePath is the key
// inside the image store (relatorios/{reportID}/{name}); the row and the
// stored file live and die together, which is why deletion goes through the
// controllers' two-phase delete instead of a gorm hook.
type ReportImage struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportID     uint      `gorm:"not null;index" json:"report_id"`
	FilePath     string    `gorm:"not null" json:"file_path"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"file_name"`
	Caption      string    `gorm:"column:legenda;type:varchar(200)" json:"legenda,omitempty"`
	DisplayOrder int       `gorm:"column:ordem;not null;default:0;index" json:"ordem"`
	UploadedAt   time.Time `gorm:"column:data_upload;autoCreateTime" json:"data_upload"`
}

func (ReportImage) TableName() string {
	return "imagens_relatorio"
}

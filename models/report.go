package models

import (
	"time"
)

// Report is a relatório submitted through the public site, either by a
// logged-in user (UserID set) or anonymously (SubmitterName/SubmitterEmail
// set). Validation guarantees one of the two identities is present before a
// row is created.
type Report struct {
	ID             uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string        `gorm:"column:titulo;type:varchar(200);not null" json:"titulo"`
	Content        string        `gorm:"column:conteudo;type:text;not null" json:"conteudo"`
	CreatedAt      time.Time     `gorm:"column:data_criacao" json:"data_criacao"`
	UserID         *uint         `gorm:"index" json:"user_id,omitempty"`
	User           *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SubmitterName  string        `gorm:"column:nome_usuario;type:varchar(100)" json:"nome_usuario,omitempty"`
	SubmitterEmail string        `gorm:"column:email_usuario;type:varchar(254)" json:"email_usuario,omitempty"`
	Latitude       *float64      `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude      *float64      `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`
	Address        string        `gorm:"column:endereco;type:varchar(255)" json:"endereco,omitempty"`
	Images         []ReportImage `gorm:"foreignKey:ReportID" json:"imagens,omitempty"`
}

func (Report) TableName() string {
	return "relatorios"
}

// HasLocation reports whether the submission carried coordinates. Latitude
// and longitude are always written together.
func (r *Report) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// AuthorName resolves the display name: the owning account's username, the
// anonymous submitter's name, or "Anônimo".
func (r *Report) AuthorName() string {
	if r.User != nil && r.User.Username != "" {
		return r.User.Username
	}
	if r.SubmitterName != "" {
		return r.SubmitterName
	}
	return "Anônimo"
}

// AuthorEmail resolves the contact email, or "" when none is known.
func (r *Report) AuthorEmail() string {
	if r.User != nil && r.User.Email != "" {
		return r.User.Email
	}
	return r.SubmitterEmail
}

// IsAnonymous is true for reports with no owning account.
func (r *Report) IsAnonymous() bool {
	return r.UserID == nil
}

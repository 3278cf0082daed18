package models

import "time"

// AboutMe - единственная строка на арендатора.
type AboutMe struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	ImageRef  string    `db:"image_url" json:"imageUrl"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy"`
}

type SiteSettings struct {
	ID           int64     `db:"id" json:"id"`
	SiteName     string    `db:"site_name" json:"siteName"`
	Theme        string    `db:"theme" json:"theme"`
	PrimaryColor string    `db:"primary_color" json:"primaryColor"`
	FooterText   string    `db:"footer_text" json:"footerText"`
	LogoRef      string    `db:"logo_url" json:"logoUrl"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
	UpdatedBy    string    `db:"updated_by" json:"updatedBy"`
}

type Theme struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	PrimaryColor string `json:"primaryColor"`
	Background   string `json:"background"`
}

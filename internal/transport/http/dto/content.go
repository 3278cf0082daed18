package dto

import "time"

type AboutRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type AboutResponse struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

type SiteSettingsRequest struct {
	SiteName     string `json:"siteName" validate:"required,max=100"`
	Theme        string `json:"theme" validate:"required"`
	PrimaryColor string `json:"primaryColor" validate:"omitempty,hexcolor"`
	FooterText   string `json:"footerText" validate:"max=500"`
}

type SiteSettingsResponse struct {
	SiteName     string    `json:"siteName"`
	Theme        string    `json:"theme"`
	PrimaryColor string    `json:"primaryColor"`
	FooterText   string    `json:"footerText"`
	LogoURL      string    `json:"logoUrl"`
	UpdatedAt    time.Time `json:"updatedAt"`
	UpdatedBy    string    `json:"updatedBy"`
}

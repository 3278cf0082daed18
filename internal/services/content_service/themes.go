package services

import "storefront/internal/domain/models"

const DefaultTheme = "light"

var themes = []models.Theme{
	{Key: "light", Name: "Light", PrimaryColor: "#3b82f6", Background: "#ffffff"},
	{Key: "dark", Name: "Dark", PrimaryColor: "#60a5fa", Background: "#111827"},
	{Key: "rose", Name: "Rose", PrimaryColor: "#e11d48", Background: "#fff1f2"},
	{Key: "forest", Name: "Forest", PrimaryColor: "#15803d", Background: "#f0fdf4"},
	{Key: "ocean", Name: "Ocean", PrimaryColor: "#0e7490", Background: "#ecfeff"},
}

func findTheme(key string) (models.Theme, bool) {
	for _, t := range themes {
		if t.Key == key {
			return t, true
		}
	}
	return models.Theme{}, false
}

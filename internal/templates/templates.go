package templates

import (
	"embed"
)

//go:embed dashboard/*.tmpl
var dashboardTemplates embed.FS

// GetBoard returns the dashboard page template content
func GetBoard() (string, error) {
	content, err := dashboardTemplates.ReadFile("dashboard/board.tmpl")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

package dto

import "github.com/slutstation/slutstation-web/internal/models"

// EventOverview groups both listings for the events page.
type EventOverview struct {
	Upcoming []models.Event `json:"upcoming"`
	Past     []models.Event `json:"past"`
	Empty    bool           `json:"empty"`
}

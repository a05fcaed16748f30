package models

import "time"

// Well-known setting keys.
const (
	SettingMaintenanceMode = "maintenance_mode"
	SettingStoreName       = "store_name"
	SettingSupportEmail    = "support_email"
)

// Setting is the model for the 'settings' table.
type Setting struct {
	Key       string    `json:"key" db:"setting_key"`
	Value     string    `json:"value" db:"setting_value"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

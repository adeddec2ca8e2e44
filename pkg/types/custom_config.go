package types

import (
	"encoding/json"
)

const (
	StatusEnabled  = 1
	StatusDisabled = 0
)

const (
	AUTOREPLY_CATEGORY       = "autoreply"
	CONFIG_AUTOREPLY_ENABLED = "autoreply.enabled"
)

// CustomConfig is a persisted runtime setting. The reply engine uses it for
// the process-wide autoreply toggle, the web app owns the rest.
type CustomConfig struct {
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Value       json.RawMessage `json:"value" db:"value"`
	Category    string          `json:"category" db:"category"`
	Status      int             `json:"status" db:"status"`
	CreatedAt   int64           `json:"created_at" db:"created_at"`
	UpdatedAt   int64           `json:"updated_at" db:"updated_at"`
}

func (c *CustomConfig) BoolValue() bool {
	if c == nil || len(c.Value) == 0 {
		return false
	}
	var v bool
	if err := json.Unmarshal(c.Value, &v); err != nil {
		return false
	}
	return v
}

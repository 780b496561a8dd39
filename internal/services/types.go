package services

import "time"

// Dataset is one items x raters rating matrix owned by a tenant.
type Dataset struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id,omitempty"`
	Name     string `json:"name"`
	// Level is the measurement level: nominal, ordinal, interval or ratio.
	Level string `json:"level"`
	// Missing marks one explicit value as missing in addition to
	// cells that were never rated.
	Missing   *float64  `json:"missing,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Rating is one cell of a dataset's matrix. Nominal datasets may carry a
// label instead of a numeric value; labels are coded before analysis.
type Rating struct {
	DatasetID   string    `json:"dataset_id"`
	ItemID      string    `json:"item_id"`
	RaterID     string    `json:"rater_id"`
	Value       float64   `json:"value"`
	Label       string    `json:"label,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Tenant struct {
	ID   string
	Name string
}

type User struct {
	ID        string
	Email     string
	PassHash  []byte
	TenantID  string
	CreatedAt time.Time
}

type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

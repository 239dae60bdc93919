package model

import "time"

// Client type values.
const (
	ClientTypeClient    = "client"
	ClientTypePotential = "potential"
	ClientTypeSupplier  = "supplier"
	ClientTypeOther     = "other"
)

// Client status values. DealValue is required once a client is closed.
const (
	ClientStatusPending   = "pending"
	ClientStatusClosed    = "closed"
	ClientStatusCancelled = "cancelled"
)

type Client struct {
	ID         string    `json:"id"`
	AssignedTo string    `json:"assignedTo"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Type       string    `json:"type,omitempty"`
	Note       string    `json:"note,omitempty"`
	Status     string    `json:"status"`
	DealValue  *float64  `json:"dealValue,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ClientUpdate carries a partial client update; nil fields are left untouched.
type ClientUpdate struct {
	Name      *string
	Email     *string
	Phone     *string
	Type      *string
	Note      *string
	Status    *string
	DealValue *float64
}

// Empty reports whether the update would change nothing.
func (c *ClientUpdate) Empty() bool {
	return c.Name == nil && c.Email == nil && c.Phone == nil && c.Type == nil &&
		c.Note == nil && c.Status == nil && c.DealValue == nil
}

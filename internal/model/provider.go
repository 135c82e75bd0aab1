package model

// Provider is a registered external counterpart in the hub directory.
// Referenced by transactions but not owned by this service.
type Provider struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"` // clinic, hospital, laboratory, pharmacy
	Active bool   `json:"active"`
}

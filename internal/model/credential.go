package model

import "time"

type CredentialHealth string

const (
	CredentialActive   CredentialHealth = "active"
	CredentialInactive CredentialHealth = "inactive"
	CredentialError    CredentialHealth = "error"
)

// Credential is the stored record for an external integration. APIKey is
// write-only at the HTTP boundary; reads go through Status().
type Credential struct {
	Name      string           `db:"Name"`
	APIKey    string           `db:"APIKey"`
	Health    CredentialHealth `db:"Health"`
	LastCheck *time.Time       `db:"LastCheck"`
}

// CredentialStatus is the read projection of a Credential, with the secret
// stripped.
type CredentialStatus struct {
	Name      string           `json:"name"`
	Health    CredentialHealth `json:"status"`
	LastCheck *time.Time       `json:"lastCheck,omitempty"`
}

func (c *Credential) Status() CredentialStatus {
	return CredentialStatus{
		Name:      c.Name,
		Health:    c.Health,
		LastCheck: c.LastCheck,
	}
}

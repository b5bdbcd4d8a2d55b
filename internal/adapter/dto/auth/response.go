package auth

import "time"

// LoginResponse carries the consent URL for clients that do not follow redirects
type LoginResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// StatusResponse represents the connected Google account
type StatusResponse struct {
	Enabled   bool       `json:"enabled"`
	Connected bool       `json:"connected"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Expiry    *time.Time `json:"expiry,omitempty"`
}

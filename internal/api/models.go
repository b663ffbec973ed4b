// Package api provides the HTTP API for the search service.
package api

import (
	"github.com/unifi-search-tool/unifi-search/internal/search"
	"github.com/unifi-search-tool/unifi-search/internal/unifi"
)

// SearchRequest is the request body for starting a search.
type SearchRequest struct {
	Username           unifi.Secret `json:"username"`
	Password           unifi.Secret `json:"password"`
	ServerURL          string       `json:"server_url" binding:"required"`
	MAC                string       `json:"mac" binding:"required"`
	AcceptInvalidCerts bool         `json:"accept_invalid_certs"`
}

func (r *SearchRequest) wipe() {
	r.Username.Wipe()
	r.Password.Wipe()
}

// SearchAccepted is returned when a search has been handed to the worker.
type SearchAccepted struct {
	SearchID string `json:"search_id"`
	Status   string `json:"status"`
}

// SearchStatus describes the current or most recent search.
type SearchStatus struct {
	State    string          `json:"state"` // idle, running, finished
	SearchID string          `json:"search_id,omitempty"`
	Progress float32         `json:"progress"`
	Outcome  *search.Outcome `json:"outcome,omitempty"`
}

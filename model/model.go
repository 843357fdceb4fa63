package model

import "github.com/google/uuid"

// Document is the single shared JSON document backing the whole site.
// Every collection lives as a named top-level array; the store rewrites
// the entire document on each persist.
type Document struct {
	Users    []User       `json:"users"`
	Sessions []Session    `json:"sessions"`
	AuditLog []AuditEntry `json:"auditLog"`
	News     []News       `json:"news"`
}

func GenerateID() string {
	return uuid.NewString()
}

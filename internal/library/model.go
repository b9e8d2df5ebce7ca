// Package library persists generated prompts and enforces the per-tier
// usage quotas. The core pipeline owns no state; persistence lives here,
// on the caller's side of the boundary.
package library

import (
	"time"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
	"github.com/ChamsBouzaiene/promptstitch/internal/version"
)

// SavedPrompt is one library entry.
type SavedPrompt struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Title     string             `json:"title"`
	Prompt    string             `json:"prompt"`
	Input     schema.InputRecord `json:"input"`
	Metadata  version.Metadata   `json:"metadata"`
	Tier      schema.Tier        `json:"tier"`
	CreatedAt time.Time          `json:"created_at"`
}

// QuotaStatus reports a user's standing against one tier limit.
type QuotaStatus struct {
	UserID       string `json:"user_id"`
	QuotaType    string `json:"quota_type"`
	CurrentUsage int    `json:"current_usage"`
	Limit        int    `json:"limit"`
	IsUnlimited  bool   `json:"is_unlimited"`
}

// SearchResult is one hit from the library's full-text index.
type SearchResult struct {
	ID    string
	Title string
	Score float64
}

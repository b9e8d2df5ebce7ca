// Package version gives every generated prompt a reproducible identity: a
// deterministic content hash over the canonical input plus a random
// per-call identifier.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// Version tags stamped onto metadata unless overridden.
const (
	DefaultTemplateVersion = "3.2"
	DefaultEngineVersion   = "1.0.0"
)

// Field and list separators for the hash serialization. The serialization
// contract is fixed: changing either changes every hash.
const (
	fieldSep = "::"
	listSep  = "|"
)

// Metadata is the immutable identity record for a canonicalized input.
// Two records with identical field values always share InputHash; every
// call produces a fresh VersionID.
type Metadata struct {
	VersionID       string    `json:"version_id"`
	CreatedAt       time.Time `json:"created_timestamp"`
	InputHash       string    `json:"input_hash"`
	TemplateVersion string    `json:"template_version"`
	EngineVersion   string    `json:"engine_version"`
}

// ContentID is the hash-derived identity: stable across calls for the same
// canonical input, used as the lineage parent pointer.
func (m Metadata) ContentID() string {
	return ContentID(m.InputHash)
}

// ContentID derives the short content identity from an input hash.
func ContentID(inputHash string) string {
	if len(inputHash) < 8 {
		return "v_" + inputHash
	}
	return "v_" + inputHash[:8]
}

// MutationRecord links a derived record back to its parent's content
// identity. A derived record owns exactly one parent link.
type MutationRecord struct {
	ParentVersionID string    `json:"parent_version_id"`
	Operator        string    `json:"mutation_type"`
	Timestamp       time.Time `json:"timestamp"`
}

// HashRecord computes the deterministic content hash: every field value in
// a fixed order, each length-prefixed so the serialization is injective
// (a separator inside a field value cannot shift bytes across a field or
// list boundary), SHA-256 over the concatenation. Constraint order is
// significant; the canonicalizer deduplicates but does not sort.
func HashRecord(rec schema.InputRecord) string {
	values := []string{
		string(rec.IntentType),
		string(rec.TaskDomain),
		string(rec.OutputType),
		string(rec.Tone),
		rec.Role,
		rec.TaskDescription,
		rec.ContextProvided,
		joinList(rec.Constraints),
		strconv.FormatBool(rec.ExamplesIncluded),
		rec.ExampleText,
		string(rec.DetailLevel),
		rec.TargetAudience,
		string(rec.ComplexityTier),
		rec.CustomInstructions,
		strconv.FormatBool(rec.MultiStepEnabled),
		strconv.FormatBool(rec.ChainOfThought),
		strconv.Itoa(rec.OutputLengthTarget),
	}

	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteString(fieldSep)
		b.WriteString(v)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// joinList length-prefixes each entry so distinct lists never share a
// serialization: ["ab|c"] and ["ab", "c"] stay distinguishable.
func joinList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(strconv.Itoa(len(item)))
		b.WriteString(listSep)
		b.WriteString(item)
	}
	return b.String()
}

// Generator produces version metadata. The identifier source and clock are
// injectable so tests can pin identifiers while keeping hash assertions
// stable.
type Generator struct {
	TemplateVersion string
	EngineVersion   string
	NewID           func() string
	Now             func() time.Time
}

// NewGenerator returns a Generator with UUID identifiers and the system
// clock.
func NewGenerator() *Generator {
	return &Generator{
		TemplateVersion: DefaultTemplateVersion,
		EngineVersion:   DefaultEngineVersion,
		NewID:           uuid.NewString,
		Now:             time.Now,
	}
}

// Version computes fresh metadata for a canonicalized record. Pure aside
// from clock and entropy; no failure path.
func (g *Generator) Version(rec schema.InputRecord) Metadata {
	newID := g.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}

	templateVersion := g.TemplateVersion
	if templateVersion == "" {
		templateVersion = DefaultTemplateVersion
	}
	engineVersion := g.EngineVersion
	if engineVersion == "" {
		engineVersion = DefaultEngineVersion
	}

	return Metadata{
		VersionID:       newID(),
		CreatedAt:       now().UTC(),
		InputHash:       HashRecord(rec),
		TemplateVersion: templateVersion,
		EngineVersion:   engineVersion,
	}
}

// Lineage builds the mutation record linking a derived input to its
// parent's content identity.
func (g *Generator) Lineage(parent schema.InputRecord, operator string) MutationRecord {
	now := g.Now
	if now == nil {
		now = time.Now
	}
	return MutationRecord{
		ParentVersionID: ContentID(HashRecord(parent)),
		Operator:        operator,
		Timestamp:       now().UTC(),
	}
}

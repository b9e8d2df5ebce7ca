package assembly

import (
	"fmt"

	"github.com/ChamsBouzaiene/promptstitch/internal/schema"
)

// RoleResolver supplies the persona for an (intent, domain) pair when the
// caller did not name one. The built-in matrix or a runtime registry can
// serve this.
type RoleResolver interface {
	Role(intent schema.IntentType, domain schema.TaskDomain) string
}

// defaultRoleMatrix is the built-in persona lookup table.
var defaultRoleMatrix = map[schema.IntentType]map[schema.TaskDomain]string{
	schema.IntentCreate: {
		schema.DomainBusiness:    "Expert Business Content Creator",
		schema.DomainCreative:    "Creative Writing Specialist",
		schema.DomainTechnical:   "Technical Documentation Writer",
		schema.DomainEducational: "Educational Content Developer",
		schema.DomainMarketing:   "Marketing Copywriter",
		schema.DomainPersonal:    "Personal Writing Assistant",
	},
	schema.IntentAnalyze: {
		schema.DomainBusiness:    "Business Analyst",
		schema.DomainCreative:    "Creative Critic and Analyst",
		schema.DomainTechnical:   "Technical Systems Analyst",
		schema.DomainEducational: "Learning Assessment Specialist",
		schema.DomainMarketing:   "Marketing Data Analyst",
		schema.DomainPersonal:    "Personal Development Coach",
	},
	schema.IntentTransform: {
		schema.DomainBusiness:    "Business Process Optimizer",
		schema.DomainCreative:    "Content Transformation Specialist",
		schema.DomainTechnical:   "Code Refactoring Expert",
		schema.DomainEducational: "Curriculum Adaptation Specialist",
		schema.DomainMarketing:   "Brand Messaging Strategist",
		schema.DomainPersonal:    "Lifestyle Change Consultant",
	},
	schema.IntentExtract: {
		schema.DomainBusiness:    "Business Intelligence Specialist",
		schema.DomainCreative:    "Content Extraction Expert",
		schema.DomainTechnical:   "Data Mining Engineer",
		schema.DomainEducational: "Key Concept Identifier",
		schema.DomainMarketing:   "Market Research Analyst",
		schema.DomainPersonal:    "Information Organizer",
	},
	schema.IntentPlan: {
		schema.DomainBusiness:    "Strategic Business Planner",
		schema.DomainCreative:    "Creative Project Manager",
		schema.DomainTechnical:   "Technical Architect",
		schema.DomainEducational: "Learning Path Designer",
		schema.DomainMarketing:   "Campaign Strategy Director",
		schema.DomainPersonal:    "Goal Setting Coach",
	},
	schema.IntentSolve: {
		schema.DomainBusiness:    "Business Problem Solver",
		schema.DomainCreative:    "Creative Solutions Consultant",
		schema.DomainTechnical:   "Technical Troubleshooting Expert",
		schema.DomainEducational: "Learning Challenge Specialist",
		schema.DomainMarketing:   "Marketing Challenge Solver",
		schema.DomainPersonal:    "Personal Problem-Solving Coach",
	},
}

// DefaultRoleMatrix returns a deep copy of the built-in persona matrix,
// used to seed runtime registries.
func DefaultRoleMatrix() map[schema.IntentType]map[schema.TaskDomain]string {
	out := make(map[schema.IntentType]map[schema.TaskDomain]string, len(defaultRoleMatrix))
	for intent, domains := range defaultRoleMatrix {
		inner := make(map[schema.TaskDomain]string, len(domains))
		for domain, role := range domains {
			inner[domain] = role
		}
		out[intent] = inner
	}
	return out
}

// builtinRoles resolves personas from the static matrix.
type builtinRoles struct{}

func (builtinRoles) Role(intent schema.IntentType, domain schema.TaskDomain) string {
	if role, ok := defaultRoleMatrix[intent][domain]; ok {
		return role
	}
	return schema.DefaultRole
}

// resolveRole returns the supplied role verbatim, or the matrix persona
// when the role is blank.
func (a *Assembler) resolveRole(rec schema.InputRecord) string {
	if rec.Role != "" {
		return rec.Role
	}
	if role := a.roles().Role(rec.IntentType, rec.TaskDomain); role != "" {
		return role
	}
	return schema.DefaultRole
}

// roleBlock renders the ROLE block.
func (a *Assembler) roleBlock(rec schema.InputRecord) string {
	return fmt.Sprintf("You are a %s.", a.resolveRole(rec))
}

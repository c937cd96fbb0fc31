// Package company describes the organization emails are triaged into:
// departments, inbox aliases, the employee roster, and routing rules.
package company

// Department identifies a triage destination. Values are either one of the
// built-in departments or an id defined in the company configuration.
type Department string

// Built-in departments. NeedsReview is the reserved sentinel for email that
// could not be confidently classified.
const (
	Sales       Department = "Sales"
	Support     Department = "Support"
	Finance     Department = "Finance"
	NeedsReview Department = "NeedsReview"
)

func (d Department) String() string {
	return string(d)
}

// Config is the company configuration document.
type Config struct {
	Company      map[string]any         `json:"company" yaml:"company"`
	Departments  []DepartmentDefinition `json:"departments" yaml:"departments"`
	InboxAliases []InboxAlias           `json:"inbox_aliases" yaml:"inbox_aliases"`
	Employees    []Employee             `json:"employees" yaml:"employees"`
	Assignment   Assignment             `json:"assignment" yaml:"assignment"`
	RoutingRules RoutingRules           `json:"routing_rules" yaml:"routing_rules"`
}

// DepartmentDefinition names a department and the tone its replies use.
type DepartmentDefinition struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Tone string `json:"tone" yaml:"tone"`
}

// InboxAlias routes mail addressed to Address straight to a department.
type InboxAlias struct {
	Address      string `json:"address" yaml:"address"`
	DepartmentID string `json:"department_id" yaml:"department_id"`
}

// Employee is a potential owner of triaged email.
type Employee struct {
	Email         string   `json:"email" yaml:"email"`
	Signature     string   `json:"signature" yaml:"signature"`
	DepartmentIDs []string `json:"department_ids" yaml:"department_ids"`
}

// Assignment holds owner-assignment settings.
type Assignment struct {
	FallbackEmployeeEmail string `json:"fallback_employee_email" yaml:"fallback_employee_email"`
}

// RoutingRules holds configured keyword routing.
type RoutingRules struct {
	KeywordToDepartment []KeywordRule `json:"keyword_to_department" yaml:"keyword_to_department"`
}

// KeywordRule sends email containing any of Keywords to DepartmentID.
type KeywordRule struct {
	DepartmentID string   `json:"department_id" yaml:"department_id"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
}

var builtinDepartments = []DepartmentDefinition{
	{ID: string(Sales), Name: "Sales", Tone: "friendly, concise, confident"},
	{ID: string(Support), Name: "Support", Tone: "empathetic, helpful, step-by-step"},
	{ID: string(Finance), Name: "Finance", Tone: "formal, precise, compliance-focused"},
}

// NeedsReviewTone is used when drafting for unclassified email.
const NeedsReviewTone = "neutral, ask clarifying questions"

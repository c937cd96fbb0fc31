package company

import (
	"slices"
	"strings"
)

// Catalog is the resolved view of a company configuration used during
// triage. A nil or empty Config yields the built-in departments.
type Catalog struct {
	name        string
	departments []DepartmentDefinition
	byKey       map[string]DepartmentDefinition
	aliases     []InboxAlias
	employees   []Employee
	fallback    string
	rules       []KeywordRule
}

// NewCatalog resolves cfg into a Catalog.
func NewCatalog(cfg *Config) *Catalog {
	if cfg == nil {
		cfg = &Config{}
	}

	defs := cfg.Departments
	if len(defs) == 0 {
		defs = builtinDepartments
	}

	c := &Catalog{
		byKey:    make(map[string]DepartmentDefinition, len(defs)),
		fallback: strings.ToLower(strings.TrimSpace(cfg.Assignment.FallbackEmployeeEmail)),
		rules:    cfg.RoutingRules.KeywordToDepartment,
	}

	if v, ok := cfg.Company["name"].(string); ok {
		c.name = strings.TrimSpace(v)
	}

	for _, d := range defs {
		d.ID = strings.TrimSpace(d.ID)
		if d.Name == "" {
			d.Name = d.ID
		}
		c.departments = append(c.departments, d)
		c.byKey[strings.ToLower(d.ID)] = d
	}

	for _, a := range cfg.InboxAliases {
		addr := strings.ToLower(strings.TrimSpace(a.Address))
		if addr == "" || a.DepartmentID == "" {
			continue
		}
		c.aliases = append(c.aliases, InboxAlias{Address: addr, DepartmentID: a.DepartmentID})
	}

	for _, e := range cfg.Employees {
		e.Email = strings.ToLower(strings.TrimSpace(e.Email))
		if e.Email == "" {
			continue
		}
		c.employees = append(c.employees, e)
	}

	return c
}

// CompanyName returns the configured company name, if any.
func (c *Catalog) CompanyName() string {
	return c.name
}

// Departments returns the configured department definitions in order.
func (c *Catalog) Departments() []DepartmentDefinition {
	return c.departments
}

// Allowed lists every department id a reviewer may choose, NeedsReview last.
func (c *Catalog) Allowed() []Department {
	out := make([]Department, 0, len(c.departments)+1)
	for _, d := range c.departments {
		out = append(out, Department(d.ID))
	}
	return append(out, NeedsReview)
}

// Resolve maps free text to a known department, matching ids and display
// names case-insensitively. Both "NeedsReview" and "needs_review" resolve
// to the sentinel.
func (c *Catalog) Resolve(input string) (Department, bool) {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return "", false
	}
	if isSentinel(key) {
		return NeedsReview, true
	}
	if d, ok := c.byKey[key]; ok {
		return Department(d.ID), true
	}
	for _, d := range c.departments {
		if strings.EqualFold(d.Name, key) {
			return Department(d.ID), true
		}
	}
	return "", false
}

// Valid reports whether d is the sentinel or a configured department id.
func (c *Catalog) Valid(d Department) bool {
	if d == NeedsReview {
		return true
	}
	def, ok := c.byKey[strings.ToLower(string(d))]
	return ok && def.ID == string(d)
}

// Name returns the display name for d.
func (c *Catalog) Name(d Department) string {
	if def, ok := c.byKey[strings.ToLower(string(d))]; ok {
		return def.Name
	}
	return string(d)
}

// Tone returns the configured reply tone for d.
func (c *Catalog) Tone(d Department) string {
	if d == NeedsReview {
		return NeedsReviewTone
	}
	if def, ok := c.byKey[strings.ToLower(string(d))]; ok {
		return def.Tone
	}
	return ""
}

// AliasFor returns the department whose inbox alias appears in recipient.
func (c *Catalog) AliasFor(recipient string) (Department, bool) {
	to := strings.ToLower(recipient)
	if to == "" {
		return "", false
	}
	for _, a := range c.aliases {
		if strings.Contains(to, a.Address) {
			if d, ok := c.Resolve(a.DepartmentID); ok {
				return d, true
			}
		}
	}
	return "", false
}

// Rules returns the configured keyword routing rules.
func (c *Catalog) Rules() []KeywordRule {
	return c.rules
}

// Employees returns the full roster in configuration order.
func (c *Catalog) Employees() []Employee {
	return c.employees
}

// Roster returns the employees serving d in configuration order.
func (c *Catalog) Roster(d Department) []Employee {
	var out []Employee
	for _, e := range c.employees {
		if serves(e, d) {
			out = append(out, e)
		}
	}
	return out
}

// Serves reports whether the employee with the given email serves d.
func (c *Catalog) Serves(email string, d Department) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	i := slices.IndexFunc(c.employees, func(e Employee) bool { return e.Email == email })
	return i >= 0 && serves(c.employees[i], d)
}

// Employee looks up an employee by email.
func (c *Catalog) Employee(email string) (Employee, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range c.employees {
		if e.Email == email {
			return e, true
		}
	}
	return Employee{}, false
}

// Fallback returns the configured fallback employee. An address that is not
// on the roster is still returned, without a signature.
func (c *Catalog) Fallback() (Employee, bool) {
	if c.fallback == "" {
		return Employee{}, false
	}
	if e, ok := c.Employee(c.fallback); ok {
		return e, true
	}
	return Employee{Email: c.fallback}, true
}

func serves(e Employee, d Department) bool {
	return slices.ContainsFunc(e.DepartmentIDs, func(id string) bool {
		return strings.EqualFold(strings.TrimSpace(id), string(d))
	})
}

func isSentinel(key string) bool {
	switch key {
	case "needsreview", "needs_review", "needs review":
		return true
	}
	return false
}

// Package memory persists what dispatch learns across runs: sender
// associations, department tones, the roster snapshot, and round-robin
// cursors.
package memory

import (
	"maps"
	"slices"
)

// Memory is the on-disk memory document.
type Memory struct {
	SenderDepartment map[string]string   `json:"sender_department"`
	SenderOwner      map[string]string   `json:"sender_owner"`
	DepartmentTone   map[string]string   `json:"department_tone"`
	DepartmentOwners map[string][]string `json:"department_owners"`
	RRIndex          map[string]int      `json:"rr_index"`
	Employees        map[string]Employee `json:"employees"`
}

// Employee is the roster snapshot entry for one employee email.
type Employee struct {
	Signature   string   `json:"signature"`
	Departments []string `json:"departments"`
}

// Defaults returns a fresh memory document with the built-in tones.
func Defaults() Memory {
	return Memory{
		SenderDepartment: map[string]string{},
		SenderOwner:      map[string]string{},
		DepartmentTone: map[string]string{
			"Sales":       "friendly, concise, confident",
			"Support":     "empathetic, helpful, step-by-step",
			"Finance":     "formal, precise, compliance-focused",
			"NeedsReview": "neutral, ask clarifying questions",
		},
		DepartmentOwners: map[string][]string{},
		RRIndex:          map[string]int{},
		Employees:        map[string]Employee{},
	}
}

// fill replaces missing sections with their defaults.
func (m *Memory) fill() {
	d := Defaults()
	if m.SenderDepartment == nil {
		m.SenderDepartment = d.SenderDepartment
	}
	if m.SenderOwner == nil {
		m.SenderOwner = d.SenderOwner
	}
	if m.DepartmentTone == nil {
		m.DepartmentTone = d.DepartmentTone
	}
	if m.DepartmentOwners == nil {
		m.DepartmentOwners = d.DepartmentOwners
	}
	if m.RRIndex == nil {
		m.RRIndex = d.RRIndex
	}
	if m.Employees == nil {
		m.Employees = d.Employees
	}
}

func (m Memory) clone() Memory {
	out := Memory{
		SenderDepartment: maps.Clone(m.SenderDepartment),
		SenderOwner:      maps.Clone(m.SenderOwner),
		DepartmentTone:   maps.Clone(m.DepartmentTone),
		DepartmentOwners: make(map[string][]string, len(m.DepartmentOwners)),
		RRIndex:          maps.Clone(m.RRIndex),
		Employees:        make(map[string]Employee, len(m.Employees)),
	}
	for k, v := range m.DepartmentOwners {
		out.DepartmentOwners[k] = slices.Clone(v)
	}
	for k, v := range m.Employees {
		v.Departments = slices.Clone(v.Departments)
		out.Employees[k] = v
	}
	return out
}

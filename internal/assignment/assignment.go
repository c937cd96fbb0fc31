// Package assignment selects the employee who owns a triaged email.
package assignment

import (
	"github.com/JaimeStill/dispatch/internal/company"
)

// Owner is the employee an email is assigned to. The zero value means
// nobody could be assigned.
type Owner struct {
	Email     string `json:"email"`
	Signature string `json:"signature"`
}

// Empty reports whether no owner was assigned.
func (o Owner) Empty() bool {
	return o.Email == ""
}

// Directory exposes the roster lookups assignment needs.
// *company.Catalog satisfies it.
type Directory interface {
	Roster(d company.Department) []company.Employee
	Employees() []company.Employee
	Employee(email string) (company.Employee, bool)
	Serves(email string, d company.Department) bool
	Fallback() (company.Employee, bool)
}

// CursorStore holds the round-robin cursor per department.
// *memory.Store satisfies it.
type CursorStore interface {
	Cursor(d company.Department) int
	SetCursor(d company.Department, n int)
}

// Assign picks the next owner for department in strict round-robin order
// and advances the department cursor. With no roster for the department it
// falls back to the configured fallback employee, then to the first
// employee overall, then to an empty Owner.
func Assign(department company.Department, dir Directory, cursors CursorStore) Owner {
	roster := dir.Roster(department)
	if len(roster) > 0 {
		cursor := cursors.Cursor(department)
		if cursor < 0 {
			cursor = 0
		}
		e := roster[cursor%len(roster)]
		cursors.SetCursor(department, (cursor+1)%len(roster))
		return ownerOf(e)
	}

	if e, ok := dir.Fallback(); ok {
		return ownerOf(e)
	}

	if all := dir.Employees(); len(all) > 0 {
		return ownerOf(all[0])
	}

	return Owner{}
}

// Sticky returns the previously remembered owner when that employee still
// serves department. The cursor is left untouched.
func Sticky(remembered string, department company.Department, dir Directory) (Owner, bool) {
	if remembered == "" || !dir.Serves(remembered, department) {
		return Owner{}, false
	}
	e, ok := dir.Employee(remembered)
	if !ok {
		return Owner{}, false
	}
	return ownerOf(e), true
}

func ownerOf(e company.Employee) Owner {
	return Owner{Email: e.Email, Signature: e.Signature}
}

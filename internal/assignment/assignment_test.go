package assignment_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/dispatch/internal/assignment"
	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/memory"
)

type cursors map[company.Department]int

func (c cursors) Cursor(d company.Department) int       { return c[d] }
func (c cursors) SetCursor(d company.Department, n int) { c[d] = n }

func catalog(fallback string, employees ...company.Employee) *company.Catalog {
	return company.NewCatalog(&company.Config{
		Employees:  employees,
		Assignment: company.Assignment{FallbackEmployeeEmail: fallback},
	})
}

func employee(email string, depts ...string) company.Employee {
	return company.Employee{Email: email, Signature: "-- " + email, DepartmentIDs: depts}
}

func TestAssignRoundRobin(t *testing.T) {
	cat := catalog("",
		employee("a@corp.test", "Sales"),
		employee("b@corp.test", "Sales"),
		employee("c@corp.test", "Sales"),
	)
	c := cursors{}

	want := []string{"a@corp.test", "b@corp.test", "c@corp.test", "a@corp.test", "b@corp.test", "c@corp.test"}
	for i, w := range want {
		got := assignment.Assign(company.Sales, cat, c)
		if got.Email != w {
			t.Errorf("call %d: owner = %q, want %q", i, got.Email, w)
		}
	}

	if c[company.Sales] != 0 {
		t.Errorf("cursor after two full cycles = %d, want 0", c[company.Sales])
	}
}

func TestAssignEachOnceBeforeRepeat(t *testing.T) {
	for n := 1; n <= 5; n++ {
		var emps []company.Employee
		for i := range n {
			emps = append(emps, employee(string(rune('a'+i))+"@corp.test", "Support"))
		}
		cat := catalog("", emps...)
		c := cursors{company.Support: 0}

		seen := map[string]bool{}
		for range n {
			seen[assignment.Assign(company.Support, cat, c).Email] = true
		}
		if len(seen) != n {
			t.Errorf("n=%d: %d distinct owners, want %d", n, len(seen), n)
		}
	}
}

func TestAssignFallbacks(t *testing.T) {
	tests := []struct {
		name string
		cat  *company.Catalog
		want string
	}{
		{
			name: "configured fallback",
			cat:  catalog("desk@corp.test", employee("a@corp.test", "Sales")),
			want: "desk@corp.test",
		},
		{
			name: "first global employee",
			cat:  catalog("", employee("a@corp.test", "Sales"), employee("b@corp.test", "Sales")),
			want: "a@corp.test",
		},
		{
			name: "empty roster",
			cat:  catalog(""),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cursors{}
			got := assignment.Assign(company.Finance, tt.cat, c)
			if got.Email != tt.want {
				t.Errorf("owner = %q, want %q", got.Email, tt.want)
			}
			if _, touched := c[company.Finance]; touched {
				t.Error("fallback should not move the cursor")
			}
		})
	}
}

func TestAssignPersistsCursorInMemory(t *testing.T) {
	cat := catalog("", employee("a@corp.test", "Sales"), employee("b@corp.test", "Sales"))
	store := memory.NewInMemory(slog.New(slog.NewTextHandler(io.Discard, nil)))

	first := assignment.Assign(company.Sales, cat, store)
	second := assignment.Assign(company.Sales, cat, store)

	if first.Email == second.Email {
		t.Errorf("consecutive assignments both went to %q", first.Email)
	}
	if got := store.Cursor(company.Sales); got != 0 {
		t.Errorf("cursor = %d, want 0", got)
	}
}

func TestSticky(t *testing.T) {
	cat := catalog("", employee("a@corp.test", "Sales"), employee("b@corp.test", "Support"))

	if o, ok := assignment.Sticky("a@corp.test", company.Sales, cat); !ok || o.Signature != "-- a@corp.test" {
		t.Errorf("Sticky(a, Sales) = %+v, %v", o, ok)
	}
	if _, ok := assignment.Sticky("b@corp.test", company.Sales, cat); ok {
		t.Error("Sticky should reject an owner outside the department")
	}
	if _, ok := assignment.Sticky("", company.Sales, cat); ok {
		t.Error("Sticky should reject an empty owner")
	}
}

package memory_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/memory"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "memory.json")

	s, err := memory.Open(path, discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("memory file not created: %v", err)
	}

	tone, ok := s.Tone(company.Support)
	if !ok || tone != "empathetic, helpful, step-by-step" {
		t.Errorf("Tone(Support) = %q, %v", tone, ok)
	}
}

func TestOpenCorruptFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := memory.Open(path, discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(s.Snapshot().SenderDepartment) != 0 {
		t.Error("expected empty sender map after reset")
	}

	if _, err := memory.Open(path, discard()); err != nil {
		t.Errorf("reopen after reset: %v", err)
	}
}

func TestOpenFillsMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	content := `{"sender_department": {"a@x.test": "Finance"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := memory.Open(path, discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if d, ok := s.SenderDepartment("A@X.test "); !ok || d != company.Finance {
		t.Errorf("SenderDepartment = %q, %v", d, ok)
	}
	if _, ok := s.Tone(company.Sales); !ok {
		t.Error("missing department_tone should be defaulted")
	}

	s.SetCursor(company.Sales, 2)
	if got := s.Cursor(company.Sales); got != 2 {
		t.Errorf("Cursor = %d, want 2", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")

	s, err := memory.Open(path, discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	s.SetSenderDepartment("jane@acme.test", company.Finance)
	s.SetSenderOwner("jane@acme.test", "Owner@Corp.test")
	s.SetCursor(company.Finance, 1)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := memory.Open(path, discard())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	if d, _ := reopened.SenderDepartment("jane@acme.test"); d != company.Finance {
		t.Errorf("SenderDepartment = %q", d)
	}
	if o, _ := reopened.SenderOwner("jane@acme.test"); o != "owner@corp.test" {
		t.Errorf("SenderOwner = %q", o)
	}
	if c := reopened.Cursor(company.Finance); c != 1 {
		t.Errorf("Cursor = %d", c)
	}
}

func TestSetSenderDepartmentIgnoresSentinel(t *testing.T) {
	s := memory.NewInMemory(discard())

	s.SetSenderDepartment("a@x.test", company.NeedsReview)
	s.SetSenderDepartment("", company.Sales)

	if len(s.Snapshot().SenderDepartment) != 0 {
		t.Errorf("sender map = %v, want empty", s.Snapshot().SenderDepartment)
	}
}

func TestForget(t *testing.T) {
	s := memory.NewInMemory(discard())
	s.SetSenderDepartment("a@x.test", company.Sales)
	s.SetSenderOwner("a@x.test", "o@corp.test")

	if !s.Forget("A@X.TEST") {
		t.Fatal("Forget returned false")
	}
	if _, ok := s.SenderDepartment("a@x.test"); ok {
		t.Error("department still remembered")
	}
	if s.Forget("a@x.test") {
		t.Error("second Forget returned true")
	}
}

func TestSyncRoster(t *testing.T) {
	cat := func(emails ...string) *company.Catalog {
		cfg := &company.Config{}
		for _, e := range emails {
			cfg.Employees = append(cfg.Employees, company.Employee{
				Email:         e,
				Signature:     e,
				DepartmentIDs: []string{"Sales"},
			})
		}
		return company.NewCatalog(cfg)
	}

	s := memory.NewInMemory(discard())
	s.SyncRoster(cat("a@corp.test", "b@corp.test"))
	s.SetCursor(company.Sales, 1)

	s.SyncRoster(cat("a@corp.test", "b@corp.test"))
	if got := s.Cursor(company.Sales); got != 1 {
		t.Errorf("unchanged roster cursor = %d, want 1", got)
	}

	s.SyncRoster(cat("a@corp.test", "c@corp.test"))
	if got := s.Cursor(company.Sales); got != 0 {
		t.Errorf("changed roster cursor = %d, want 0", got)
	}

	snap := s.Snapshot()
	if !slices.Equal(snap.DepartmentOwners["Sales"], []string{"a@corp.test", "c@corp.test"}) {
		t.Errorf("DepartmentOwners = %v", snap.DepartmentOwners)
	}
	if _, ok := snap.Employees["c@corp.test"]; !ok {
		t.Error("employees snapshot missing c@corp.test")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := memory.NewInMemory(discard())
	snap := s.Snapshot()
	snap.DepartmentTone["Sales"] = "changed"

	if tone, _ := s.Tone(company.Sales); tone == "changed" {
		t.Error("Snapshot shares maps with the store")
	}
}

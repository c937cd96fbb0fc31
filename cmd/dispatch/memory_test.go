package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/dispatch/internal/memory"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedMemory(t *testing.T) string {
	t.Helper()

	m := memory.Defaults()
	m.SenderDepartment["jane@customer.test"] = "Finance"
	m.SenderOwner["jane@customer.test"] = "fin@acme.test"

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "memory.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMemoryShow(t *testing.T) {
	path := seedMemory(t)

	out, err := execute(t, "memory", "show", "--memory", path)
	if err != nil {
		t.Fatalf("memory show: %v", err)
	}

	var got memory.Memory
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not memory JSON: %v\n%s", err, out)
	}
	if got.SenderDepartment["jane@customer.test"] != "Finance" {
		t.Errorf("sender department = %v", got.SenderDepartment)
	}
}

func TestMemoryForget(t *testing.T) {
	path := seedMemory(t)

	out, err := execute(t, "memory", "forget", "Jane@Customer.test", "--memory", path)
	if err != nil {
		t.Fatalf("memory forget: %v", err)
	}
	if !strings.Contains(out, "Forgot") {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "jane@customer.test") {
		t.Errorf("sender still present after forget:\n%s", data)
	}

	out, err = execute(t, "memory", "forget", "jane@customer.test", "--memory", path)
	if err != nil {
		t.Fatalf("second forget: %v", err)
	}
	if !strings.Contains(out, "Nothing remembered") {
		t.Errorf("output = %q", out)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	if _, err := execute(t, "run", "--max-chars", "-1", "--memory", filepath.Join(t.TempDir(), "m.json")); err == nil {
		t.Fatal("expected validation error for negative max chars")
	}
}

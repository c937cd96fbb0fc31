package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/JaimeStill/dispatch/internal/company"
)

// Store guards a Memory document and writes it back to its file.
// A Store with an empty path keeps memory in process only.
type Store struct {
	mu     sync.Mutex
	path   string
	data   Memory
	logger *slog.Logger
}

// Open loads the memory file at path. A missing file is created with
// defaults. A corrupt file is replaced with defaults and logged as a
// warning rather than returned as an error.
func Open(path string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.With("system", "memory"),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.data = Defaults()
		if err := s.Save(); err != nil {
			return nil, err
		}
		s.logger.Info("memory created", "path", path)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	var m Memory
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Warn("memory file corrupt, resetting to defaults", "path", path, "error", err)
		s.data = Defaults()
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}

	m.fill()
	s.data = m
	return s, nil
}

// NewInMemory returns a Store that is never written to disk.
func NewInMemory(logger *slog.Logger) *Store {
	return &Store{
		data:   Defaults(),
		logger: logger.With("system", "memory"),
	}
}

// Path returns the backing file path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Save writes the memory document atomically.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	tmp, err := os.CreateTemp(dir, ".memory-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Snapshot returns a deep copy of the current memory document.
func (s *Store) Snapshot() Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}

// SenderDepartment returns the remembered department for sender.
func (s *Store) SenderDepartment(sender string) (company.Department, bool) {
	key := senderKey(sender)
	if key == "" {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.data.SenderDepartment[key]
	return company.Department(d), ok && d != ""
}

// SetSenderDepartment remembers department for sender. The sentinel
// department and blank senders are ignored.
func (s *Store) SetSenderDepartment(sender string, department company.Department) {
	key := senderKey(sender)
	if key == "" || department == "" || department == company.NeedsReview {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.SenderDepartment[key] = string(department)
}

// SenderOwner returns the remembered owner email for sender.
func (s *Store) SenderOwner(sender string) (string, bool) {
	key := senderKey(sender)
	if key == "" {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.data.SenderOwner[key]
	return o, ok && o != ""
}

// SetSenderOwner remembers owner for sender.
func (s *Store) SetSenderOwner(sender, owner string) {
	key := senderKey(sender)
	owner = strings.ToLower(strings.TrimSpace(owner))
	if key == "" || owner == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.SenderOwner[key] = owner
}

// Tone returns the remembered tone for department.
func (s *Store) Tone(department company.Department) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := strings.TrimSpace(s.data.DepartmentTone[string(department)])
	return t, t != ""
}

// SetTone remembers the reply tone for department.
func (s *Store) SetTone(department company.Department, tone string) {
	tone = strings.TrimSpace(tone)
	if department == "" || tone == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.DepartmentTone[string(department)] = tone
}

// Cursor returns the round-robin cursor for department.
func (s *Store) Cursor(department company.Department) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.RRIndex[string(department)]
}

// SetCursor stores the round-robin cursor for department.
func (s *Store) SetCursor(department company.Department, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.RRIndex[string(department)] = n
}

// SyncRoster snapshots the catalog roster. Departments whose owner list
// changed since the last run have their cursor reset so rotation restarts
// at the head of the new roster.
func (s *Store) SyncRoster(cat *company.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, def := range cat.Departments() {
		d := company.Department(def.ID)
		var owners []string
		for _, e := range cat.Roster(d) {
			owners = append(owners, e.Email)
		}

		if prev, ok := s.data.DepartmentOwners[def.ID]; ok && !slices.Equal(prev, owners) {
			delete(s.data.RRIndex, def.ID)
			s.logger.Info("roster changed, cursor reset", "department", def.ID)
		}

		if len(owners) == 0 {
			delete(s.data.DepartmentOwners, def.ID)
			continue
		}
		s.data.DepartmentOwners[def.ID] = owners
	}

	employees := make(map[string]Employee, len(cat.Employees()))
	for _, e := range cat.Employees() {
		employees[e.Email] = Employee{
			Signature:   e.Signature,
			Departments: slices.Clone(e.DepartmentIDs),
		}
	}
	s.data.Employees = employees
}

// Forget removes everything remembered about sender and reports whether
// anything was removed.
func (s *Store) Forget(sender string) bool {
	key := senderKey(sender)
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, hadDept := s.data.SenderDepartment[key]
	_, hadOwner := s.data.SenderOwner[key]
	delete(s.data.SenderDepartment, key)
	delete(s.data.SenderOwner, key)
	return hadDept || hadOwner
}

func senderKey(sender string) string {
	return strings.ToLower(strings.TrimSpace(sender))
}

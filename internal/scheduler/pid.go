package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/adrg/xdg"

	"github.com/manav03panchal/toggl2slack/internal/errors"
)

// ErrAlreadyRunning is returned by Acquire while another scheduler holds the
// PID file.
var ErrAlreadyRunning = errors.New("scheduler is already running")

// PIDFile keeps two schedulers from posting the same report twice.
type PIDFile struct {
	path string
}

// DefaultPIDPath returns $XDG_STATE_HOME/toggl2slack/schedule.pid.
func DefaultPIDPath() string {
	return filepath.Join(xdg.StateHome, "toggl2slack", "schedule.pid")
}

// NewPIDFile creates a PID file manager for path.
func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the PID file path.
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID. A file left behind by a process that is
// no longer running is taken over.
func (p *PIDFile) Acquire() error {
	if pid := p.RunningPID(); pid > 0 && pid != os.Getpid() {
		return errors.NewUserError(
			fmt.Sprintf("another scheduler is running (pid %d)", pid),
			"Stop it first, or remove "+p.path+" if that process is not toggl2slack.").
			WithCause(ErrAlreadyRunning)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return errors.NewSystemErrorWithOp("schedule", "cannot create the PID directory", err)
	}
	if err := os.WriteFile(p.path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return errors.NewSystemErrorWithOp("schedule", "cannot write the PID file", err)
	}
	return nil
}

// Release removes the PID file if it still names this process.
func (p *PIDFile) Release() error {
	pid, err := p.Read()
	if err != nil || pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove PID file: %w", err)
	}
	return nil
}

// Read returns the PID stored in the file.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in %s: %w", p.path, err)
	}
	return pid, nil
}

// RunningPID returns the stored PID if that process is alive, or 0.
func (p *PIDFile) RunningPID() int {
	pid, err := p.Read()
	if err != nil || !IsProcessRunning(pid) {
		return 0
	}
	return pid
}

// IsProcessRunning checks if a process with the given PID is running.
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix FindProcess always succeeds; signal 0 probes the process.
	return process.Signal(syscall.Signal(0)) == nil
}

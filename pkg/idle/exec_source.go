package idle

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ExecSource shells out to xprintidle for the idle time. It is the
// last-resort backend for setups where neither the X wire protocol nor
// the session bus is reachable but the tool still is.
type ExecSource struct {
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewExecSource creates a new xprintidle-based idle source.
func NewExecSource() *ExecSource {
	return &ExecSource{
		cmdExecutor: defaultCmdExecutor,
	}
}

// defaultCmdExecutor executes a command and returns its output.
func defaultCmdExecutor(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.Output()
}

// IdleTime runs xprintidle and parses its millisecond output.
func (s *ExecSource) IdleTime() (time.Duration, error) {
	output, err := s.cmdExecutor("xprintidle")
	if err != nil {
		return 0, fmt.Errorf("failed to execute xprintidle: %w", err)
	}

	ms, err := parseIdleMillis(output)
	if err != nil {
		return 0, fmt.Errorf("failed to parse xprintidle output: %w", err)
	}

	return time.Duration(ms) * time.Millisecond, nil
}

// parseIdleMillis parses xprintidle's output, a single line holding
// the idle time in milliseconds.
func parseIdleMillis(output []byte) (int64, error) {
	value := strings.TrimSpace(string(output))
	if value == "" {
		return 0, fmt.Errorf("empty output")
	}

	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected milliseconds, got %q", value)
	}
	if ms < 0 {
		return 0, fmt.Errorf("negative idle time %d", ms)
	}

	return ms, nil
}

// IsAvailable checks if xprintidle is available on the system.
func (s *ExecSource) IsAvailable() bool {
	_, err := s.cmdExecutor("which", "xprintidle")
	return err == nil
}

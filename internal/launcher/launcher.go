package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// System opens URLs with the platform's default handler and writes to the
// system clipboard.
type System struct {
	goos  string
	start func(name string, args ...string) error
	copy  func(text string) error
}

// NewSystem creates a launcher for the running platform
func NewSystem() *System {
	return &System{
		goos:  runtime.GOOS,
		start: startDetached,
		copy:  clipboard.WriteAll,
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// OpenURL hands target to the default browser or URL handler.
func (s *System) OpenURL(target string) error {
	if strings.TrimSpace(target) == "" {
		return errors.New("empty url")
	}
	name, args := openCommand(s.goos, target)
	if err := s.start(name, args...); err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	return nil
}

// CopyText places text on the clipboard.
func (s *System) CopyText(text string) error {
	if err := s.copy(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

func openCommand(goos, target string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default:
		return "xdg-open", []string{target}
	}
}

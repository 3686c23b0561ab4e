//go:build e2e && unix

package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

const maxOutput = 1 << 20 // bytes of output kept for matching

var binPath = "selkit_e2e" // set by TestMain

// Keys understood by the demo
const (
	KeyCtrlC    = "\x03"
	KeySpace    = " "
	KeyDown     = "j"
	KeyExtend   = "J"
	KeyDelete   = "d"
	KeyReset    = "R"
	KeyEventLog = "L"
	KeyQuit     = "q"
)

// ReadyMarker is rendered by the demo when SELKIT_E2E_TEST is set
const ReadyMarker = "__READY__"

// escape sequences and carriage returns stripped before plain matching
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07|\x1b[()][A-Za-z]|\x1b[=>]|\r`)

// TUITestFramework runs the demo binary on a PTY and records what it draws
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	workspace string
	exited    chan struct{}

	mu  sync.Mutex
	out bytes.Buffer
}

// NewTUITest creates a new TUI test framework instance
func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{t: t}
}

// CreateTestWorkspace creates the directory the demo reads its config from
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	dir, err := os.MkdirTemp("", "selkit-test-*")
	if err != nil {
		return "", err
	}
	tf.workspace = dir
	return dir, nil
}

// WriteConfig writes a .selkit.toml into the workspace
func (tf *TUITestFramework) WriteConfig(content string) (string, error) {
	if tf.workspace == "" {
		return "", errors.New("workspace not created")
	}
	path := filepath.Join(tf.workspace, ".selkit.toml")
	return path, os.WriteFile(path, []byte(content), 0644)
}

// StartApp launches the demo in the workspace on a 40x120 PTY
func (tf *TUITestFramework) StartApp(args ...string) error {
	tf.cmd = exec.Command(binPath, args...)
	tf.cmd.Dir = tf.workspace
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"HOME="+tf.workspace,
		"SELKIT_E2E_TEST=1",
	)

	f, err := pty.StartWithSize(tf.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return err
	}
	tf.pty = f
	tf.exited = make(chan struct{})

	go tf.capture()
	go func() {
		_ = tf.cmd.Wait()
		close(tf.exited)
	}()
	return nil
}

// capture appends PTY output until the PTY closes, dropping the oldest
// bytes past maxOutput
func (tf *TUITestFramework) capture() {
	buf := make([]byte, 8192)
	for {
		n, err := tf.pty.Read(buf)
		if n > 0 {
			tf.mu.Lock()
			tf.out.Write(buf[:n])
			if extra := tf.out.Len() - maxOutput; extra > 0 {
				tf.out.Next(extra)
			}
			tf.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes keystrokes to the application
func (tf *TUITestFramework) SendKeys(keys string) error {
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// SendCtrlC sends Ctrl+C to terminate the application
func (tf *TUITestFramework) SendCtrlC() error {
	return tf.SendKeys(KeyCtrlC)
}

// Quit presses the quit key
func (tf *TUITestFramework) Quit() error {
	return tf.SendKeys(KeyQuit)
}

// Ready waits for the first frame
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.waitFor(ReadyMarker, 5*time.Second)
}

// SeePlain waits for text to appear in the output with escapes removed
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.waitFor(text, 3*time.Second)
}

func (tf *TUITestFramework) waitFor(text string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if strings.Contains(tf.plain(), text) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func (tf *TUITestFramework) plain() string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return ansiRe.ReplaceAllString(tf.out.String(), "")
}

// WaitExit waits for the process to exit
func (tf *TUITestFramework) WaitExit(timeout time.Duration) bool {
	select {
	case <-tf.exited:
		return true
	case <-time.After(timeout):
		return false
	}
}

// DumpTailOnFail saves the last n bytes of plain output for debugging
func (tf *TUITestFramework) DumpTailOnFail(t *testing.T, name string, n int) {
	s := tf.plain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	p := filepath.Join(t.TempDir(), name+".txt")
	_ = os.WriteFile(p, []byte(s), 0644)
	t.Logf("Saved tail to %s", p)
}

// Cleanup closes the PTY, kills the application and removes the workspace
func (tf *TUITestFramework) Cleanup() {
	if tf.pty != nil {
		_ = tf.pty.Close()
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		<-tf.exited
	}
	if tf.workspace != "" {
		_ = os.RemoveAll(tf.workspace)
	}
}

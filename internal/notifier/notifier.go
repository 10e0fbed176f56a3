// Package notifier raises desktop notifications through the companion tray
// app. The tray app publishes "port|pid|secret" in a lockfile and accepts
// JSON posts on 127.0.0.1.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/pomohabit/internal/constants"
	"github.com/julianstephens/pomohabit/internal/logger"
	"github.com/julianstephens/pomohabit/internal/timer"
)

var ErrTrayNotRunning = errors.New(constants.TrayAppExecutable + " is not running")

type Payload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Notifier sends desktop notifications through the tray app.
type Notifier struct {
	configDir   func() (string, error)
	findProcess func(int) (ps.Process, error)
	client      *http.Client
}

// New returns a Notifier using the default tray config directory.
func New() *Notifier {
	return &Notifier{
		configDir:   os.UserConfigDir,
		findProcess: ps.FindProcess,
		client:      &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify posts text to the tray app.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := n.trayConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := n.locateTray(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return n.send(ctx, port, secret, Payload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// IntervalMessage is the notification text for a finished interval.
func IntervalMessage(habitTitle string, finished timer.Mode) string {
	if finished == timer.Break {
		return fmt.Sprintf("Break over. Back to %s for %s.", habitTitle, timer.FormatRemaining(int(timer.Duration(timer.Work).Seconds())))
	}
	return fmt.Sprintf("Pomodoro done for %s. Take %s.", habitTitle, timer.FormatRemaining(int(timer.Duration(timer.Break).Seconds())))
}

// Listener returns a timer subscriber that notifies on every natural
// completion. Delivery failures are logged, never returned.
func (n *Notifier) Listener(habitTitle string) func(timer.Event) {
	return func(ev timer.Event) {
		if ev.Kind != timer.Completed {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.Notify(ctx, IntervalMessage(habitTitle, ev.Finished)); err != nil {
			logger.Warn("Failed to send notification", "error", err)
		}
	}
}

// trayConfigDir honours a lockfile_dir override in the tray app's settings.json.
func (n *Notifier) trayConfigDir() (string, error) {
	configDir, err := n.configDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil && store.Settings.LockfileDir != "" {
		return store.Settings.LockfileDir, nil
	}
	return dir, nil
}

func (n *Notifier) locateTray(lockfilePath string) (port int, secret string, err error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return 0, "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return 0, "", errors.New("lockfile is malformed")
	}

	port, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, "", errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return 0, "", fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, "", errors.New("invalid process ID in lockfile")
	}

	secret = strings.TrimSpace(parts[2])
	if secret == "" {
		return 0, "", errors.New("secret in lockfile is empty")
	}

	process, err := n.findProcess(pid)
	if err != nil || process == nil {
		return 0, "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayAppExecutable) {
		return 0, "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayAppExecutable, process.Executable())
	}

	return port, secret, nil
}

func (n *Notifier) send(ctx context.Context, port int, secret string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("http://127.0.0.1:%d", port), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Pomohabit-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}

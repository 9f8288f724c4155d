// Package notifier delivers desktop notifications through the steady tray
// app, which listens on a loopback port advertised in a lockfile.
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

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/steady/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
	baseURLFunc       = func(port int) string { return fmt.Sprintf("http://127.0.0.1:%d", port) }
)

// ErrTrayNotRunning is returned when no live tray app can be found.
var ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")

// Message is a single notification.
type Message struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Notifier posts messages to the tray app.
type Notifier struct {
	client *http.Client
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 5 * time.Second}}
}

// Notify sends a message with the default display duration.
func (n *Notifier) Notify(ctx context.Context, title, text string) error {
	dir, err := TrayConfigDir()
	if err != nil {
		return err
	}
	lock, err := readLock(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	msg := Message{Title: title, Text: text, DurationMs: constants.NotificationDurationMs}
	return n.send(ctx, lock, msg)
}

// TrayConfigDir returns the tray app's config directory, honoring a custom
// lockfile directory from the tray's settings.json.
func TrayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var doc struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return trayDir, nil
	}
	if d := doc.Settings.LockfileDir; d != nil && *d != "" {
		return *d, nil
	}
	return trayDir, nil
}

// trayLock is the "port|pid|secret" lockfile written by the tray app.
type trayLock struct {
	Port   int
	PID    int
	Secret string
}

func readLock(path string) (trayLock, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return trayLock{}, ErrTrayNotRunning
	}
	lock, err := parseLock(string(content))
	if err != nil {
		return trayLock{}, err
	}

	process, err := findProcessFunc(lock.PID)
	if err != nil || process == nil {
		return trayLock{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return trayLock{}, fmt.Errorf("process with PID %d is not %s (is %s)", lock.PID, constants.TrayExecutablePrefix, process.Executable())
	}
	return lock, nil
}

func parseLock(content string) (trayLock, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return trayLock{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return trayLock{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return trayLock{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return trayLock{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return trayLock{}, errors.New("secret in lockfile is empty")
	}
	return trayLock{Port: port, PID: pid, Secret: secret}, nil
}

func (n *Notifier) send(ctx context.Context, lock trayLock, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURLFunc(lock.Port), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Steady-Secret", lock.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach tray app: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
}

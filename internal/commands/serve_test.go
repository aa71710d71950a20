package commands_test

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"todod/internal/backend/httpapi"
	"todod/internal/commands"
	"todod/internal/config"
	"todod/internal/exitcode"
)

// syncBuffer guards a bytes.Buffer shared with the server goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServeCommand_ServesAndPersists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data", "tasks.txt")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	cmd := &commands.ServeCmd{}
	cmd.SetListener(ln)

	cfg := &config.Config{Dir: dir, File: file}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- cmd.Run(ctx, cfg, nil, nil, &stdout, &stderr)
	}()

	client, err := httpapi.New("http://" + ln.Addr().String())
	if err != nil {
		t.Fatalf("httpapi.New: %v", err)
	}
	task, err := client.CreateTask(context.Background(), "Gym", "low")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != 1 {
		t.Errorf("expected id 1, got %d", task.ID)
	}

	cancel()
	select {
	case code := <-done:
		if code != exitcode.Success {
			t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `[{"id":1,"title":"Gym","priority":"low","isDone":false}]` {
		t.Errorf("unexpected file content %s", data)
	}
	if !strings.Contains(stderr.String(), "listening on http://"+ln.Addr().String()) {
		t.Errorf("expected listening log line, got %q", stderr.String())
	}
}

func TestServeCommand_MirrorNeedsCredentials(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir, File: filepath.Join(dir, "tasks.txt"), MirrorList: "Todo"}

	_, stderr, code := runCommand(t, &commands.ServeCmd{}, nil, nil, cfg)
	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.Contains(stderr, "oauth_client.json not found") {
		t.Errorf("unexpected stderr %q", stderr)
	}

	writeConfigFile(t, dir, "oauth_client.json", testOAuthClient)
	_, stderr, code = runCommand(t, &commands.ServeCmd{}, nil, nil, cfg)
	if code != exitcode.ConfigError || !strings.Contains(stderr, "not logged in") {
		t.Errorf("code=%d stderr=%q", code, stderr)
	}
}

func TestServeCommand_RejectsArguments(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ServeCmd{}, nil, []string{"now"}, nil)
	if code != exitcode.UserError || stderr != "error: unexpected argument: now\n" {
		t.Errorf("code=%d stderr=%q", code, stderr)
	}
}

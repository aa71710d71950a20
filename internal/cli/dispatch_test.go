package cli_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"todod/internal/cli"
	"todod/internal/commands"
	"todod/internal/config"
	"todod/internal/exitcode"
	"todod/internal/service"
	"todod/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: --quiet\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Gym", service.PriorityLow, false)

	stdout, stderr, code := run(t, testFactory(svc))
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	if stdout != "   1  [ ] Gym (low)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestDispatcher_AliasesAndFlags(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := run(t, testFactory(svc), "create", "--priority", "high", "File", "taxes")
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	if stdout != "ok 1\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	_, _, code = run(t, testFactory(svc), "complete", "--quiet", "1")
	if code != exitcode.Success {
		t.Errorf("complete: expected success, got %d", code)
	}
	if task, _ := svc.Task(1); !task.IsDone || task.Priority != service.PriorityHigh || task.Title != "File taxes" {
		t.Errorf("unexpected task %+v", task)
	}

	stdout, _, _ = run(t, testFactory(svc), "ls", "--open")
	if stdout != "no tasks found\n" {
		t.Errorf("ls --open: unexpected stdout %q", stdout)
	}
}

func TestDispatcher_AddrFlagReachesFactory(t *testing.T) {
	var got string
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		got = cfg.ServerURL()
		return testutil.NewFakeService(), nil
	}

	run(t, factory, "list", "--addr", "http://10.0.0.2:9000")
	if got != "http://10.0.0.2:9000" {
		t.Errorf("expected addr override, got %q", got)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("invalid server address")
	}

	_, stderr, code := run(t, factory, "list")
	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stderr != "error: invalid server address\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_HelpAndVersionNeedNoService(t *testing.T) {
	stdout, stderr, code := run(t, nil, "help")
	if code != exitcode.Success || stderr != "" || !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Errorf("help: code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}

	stdout, _, code = run(t, nil, "version")
	if code != exitcode.Success || stdout != "todod 0.1.0\n" {
		t.Errorf("version: code=%d stdout=%q", code, stdout)
	}
}

func TestDispatcher_FlagErrors(t *testing.T) {
	tests := []struct {
		args   []string
		stderr string
	}{
		{[]string{"help", "--unknown"}, "error: unknown flag: -unknown\n"},
		{[]string{"add", "--priority"}, "error: flag needs an argument: -priority\n"},
		{[]string{"done", "1", "--quiet"}, "error: too many arguments: --quiet\n"},
		{[]string{"serve", "--port", "0"}, "error: invalid port: 0\n"},
	}
	for _, tt := range tests {
		_, stderr, code := run(t, testFactory(testutil.NewFakeService()), tt.args...)
		if code != exitcode.UserError {
			t.Errorf("%v: expected exit code %d, got %d", tt.args, exitcode.UserError, code)
		}
		if stderr != tt.stderr {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.stderr, stderr)
		}
	}
}

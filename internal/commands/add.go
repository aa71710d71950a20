package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todod/internal/config"
	"todod/internal/exitcode"
	"todod/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// DefaultPriority is used when add is given no --priority.
const DefaultPriority = service.PriorityNormal

// AddCmd implements the add command.
type AddCmd struct {
	priority string
}

// SetPriority sets the priority (for testing).
func (c *AddCmd) SetPriority(p string) {
	c.priority = p
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "todod add [--priority low|normal|high] <title...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", string(DefaultPriority), "")
	fs.StringVar(&c.priority, "p", string(DefaultPriority), "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Join args to form title
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	priority := c.priority
	if priority == "" {
		priority = string(DefaultPriority)
	}

	task, err := svc.CreateTask(ctx, title, priority)
	if err != nil {
		if service.IsValidation(err) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %d\n", task.ID)
	}
	return exitcode.Success
}

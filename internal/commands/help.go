package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todod/internal/config"
	"todod/internal/exitcode"
	"todod/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todod help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	WriteUsage(out, DefaultRegistry)
	return exitcode.Success
}

// WriteUsage prints the usage of every command in reg.
func WriteUsage(w io.Writer, reg *Registry) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %-52s %s\n", "todod", "List all tasks")
	for _, cmd := range reg.All() {
		fmt.Fprintf(w, "  %-52s %s\n", cmd.Usage(), cmd.Synopsis())
	}
	fmt.Fprint(w, commonFlagsText)
}

const commonFlagsText = `
Common flags:
  --config <dir>   Override config directory
  --addr <url>     Server URL for client commands (default from TODOD_ADDR or host/port)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"strings"

	"todod/internal/backend/filestore"
	"todod/internal/backend/googletasks"
	"todod/internal/config"
	"todod/internal/exitcode"
	"todod/internal/server"
	"todod/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	host   string
	port   string
	file   string
	mirror string

	listener net.Listener
}

// SetListener makes the next Run serve on ln instead of host:port (for testing).
func (c *ServeCmd) SetListener(ln net.Listener) {
	c.listener = ln
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run the task HTTP server" }
func (c *ServeCmd) Usage() string {
	return "todod serve [--host <h>] [--port <n>] [--file <path>] [--mirror <list>]"
}
func (c *ServeCmd) NeedsService() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.host, "host", "", "")
	fs.StringVar(&c.port, "port", "", "")
	fs.StringVar(&c.file, "file", "", "")
	fs.StringVar(&c.mirror, "mirror", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Flags override the environment
	if c.host != "" {
		cfg.Host = c.host
	}
	if c.port != "" {
		port, err := config.ParsePort(c.port)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		cfg.Port = port
	}
	if c.file != "" {
		cfg.File = c.file
	}
	if c.mirror != "" {
		cfg.MirrorList = c.mirror
	}

	logger := log.New(errOut, "todod: ", log.LstdFlags)

	store := filestore.New(cfg.File, logger)
	var backend service.Service = store

	if name := strings.TrimSpace(cfg.MirrorList); name != "" {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return exitcode.ConfigError
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: todod login)")
			return exitcode.ConfigError
		}
		remote, err := googletasks.New(ctx, cfg, name)
		if err != nil {
			fmt.Fprintf(errOut, "error: mirror: %v\n", err)
			return exitcode.ConfigError
		}
		backend = googletasks.NewMirror(store, remote, logger)
		if cfg.Debug {
			logger.Printf("mirroring to Google Tasks list %q", name)
		}
	}

	srv := server.New(backend, logger, cfg.Debug)

	var err error
	if ln := c.listener; ln != nil {
		c.listener = nil
		if !cfg.Quiet {
			logger.Printf("listening on http://%s (tasks file %s)", ln.Addr(), store.Path())
		}
		err = srv.Serve(ctx, ln)
	} else {
		if !cfg.Quiet {
			logger.Printf("listening on http://%s (tasks file %s)", cfg.ListenAddr(), store.Path())
		}
		err = srv.ListenAndServe(ctx, cfg.ListenAddr())
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: server: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/df-mc/sower/editor/sowing"
	"golang.org/x/text/cases"
)

// Console provides a simple CLI that reads commands from an io.Reader (defaulting to os.Stdin) and uses them to control
// a Sower.
type Console struct {
	sower  *sowing.Sower
	log    *slog.Logger
	reader io.Reader
}

// New returns a Console controlling s. Command output is written to log, or to slog.Default() if log is nil.
func New(s *sowing.Sower, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{
		sower:  s,
		log:    log,
		reader: os.Stdin,
	}
}

// WithReader makes the console read commands from r instead of os.Stdin.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// Run starts consuming commands from the console. It blocks until the context is cancelled, the underlying reader
// reaches EOF or the stop command shut the Sower down.
func (c *Console) Run(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	fold := cases.Fold()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console input error", "err", err)
			}
			return
		}
		line := strings.TrimPrefix(strings.TrimSpace(scanner.Text()), "/")
		if line == "" {
			continue
		}
		if !c.execute(ctx, fold.String(strings.Fields(line)[0])) {
			return
		}
	}
}

// execute runs a single command. It returns false once the console should stop reading commands.
func (c *Console) execute(ctx context.Context, command string) bool {
	switch command {
	case "pause":
		if err := c.sower.Pause(ctx); err != nil {
			if errors.Is(err, sowing.ErrTerminated) {
				c.log.Error("Sower is stopped.")
				return true
			}
			c.log.Error("Could not pause sower.", "err", err)
			return true
		}
		c.log.Info("Sower paused.", "ticks", c.sower.Ticks())
	case "resume":
		c.sower.Resume()
		c.log.Info("Sower resumed.")
	case "status":
		c.status()
	case "stop":
		c.sower.Shutdown()
		c.log.Info("Sower stopped.", "ticks", c.sower.Ticks())
		return false
	default:
		c.log.Error("Unknown command.", "command", command, "available", "pause, resume, status, stop")
	}
	return true
}

func (c *Console) status() {
	c.log.Info("Sower status.", "state", c.sower.State(), "ticks", c.sower.Ticks())
	for _, st := range c.sower.Metrics().Snapshot() {
		c.log.Info("Rule status.",
			"rule", st.Rule,
			"placed", st.Placed,
			"grown", st.Grown,
			"disallowed", st.Disallowed,
			"overlaps", st.Overlaps,
			"evicted", st.Evicted,
			"faults", st.Faults,
			"pool", st.Pool,
		)
	}
}

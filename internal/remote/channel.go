package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"clustermon/internal/config"
	"clustermon/internal/logging"
)

// ErrHostUnreachable reports that the ssh transport could not reach a host.
var ErrHostUnreachable = errors.New("host unreachable")

// ErrUnknownHost reports a host handle that is not configured.
var ErrUnknownHost = errors.New("unknown host")

// ssh exits with 255 when the connection itself fails.
const sshTransportExit = 255

const stderrLimit = 4 << 10

// CommandError reports a remote command that ran but exited non-zero.
type CommandError struct {
	Host     string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("remote command on %s exited with status %d", e.Host, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// ChannelOptions configures how ssh is invoked.
type ChannelOptions struct {
	SSHBinary      string
	SSHOptions     []string
	ConnectTimeout time.Duration
	Logger         *slog.Logger
}

// ChannelOptionsFromConfig builds channel options from the [remote] section.
func ChannelOptionsFromConfig(cfg *config.Config, logger *slog.Logger) ChannelOptions {
	return ChannelOptions{
		SSHBinary:      cfg.Remote.SSHBinary,
		SSHOptions:     append([]string(nil), cfg.Remote.SSHOptions...),
		ConnectTimeout: cfg.ConnectTimeout(),
		Logger:         logger,
	}
}

// Channel runs commands on one host through the system ssh client. Host keys,
// identities and jump hosts come from the user's ssh configuration.
type Channel struct {
	handle string
	host   string
	opts   ChannelOptions
	logger *slog.Logger
}

// NewChannel returns a channel for the host registered under handle.
func NewChannel(handle string, host config.Host, opts ChannelOptions) *Channel {
	if opts.SSHBinary == "" {
		opts.SSHBinary = "ssh"
	}
	return &Channel{
		handle: handle,
		host:   host.Host,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "remote").With(logging.String(logging.FieldHost, handle)),
	}
}

// Handle returns the configured host handle.
func (c *Channel) Handle() string {
	return c.handle
}

// Run executes argv on the host and returns its standard output. Stdout is
// returned even when the command fails so callers can decode partial answers.
func (c *Channel) Run(ctx context.Context, argv ...string) ([]byte, error) {
	var stdout bytes.Buffer
	err := c.exec(ctx, &stdout, argv)
	return stdout.Bytes(), err
}

// Stream executes argv on the host and copies its standard output into w
// until the command exits or ctx is done.
func (c *Channel) Stream(ctx context.Context, w io.Writer, argv ...string) error {
	return c.exec(ctx, w, argv)
}

func (c *Channel) exec(ctx context.Context, stdout io.Writer, argv []string) error {
	if len(argv) == 0 {
		return errors.New("remote command is required")
	}
	args := c.sshArgs(argv)
	c.logger.Debug("running remote command", logging.String("command", strings.Join(args, " ")))

	var stderr limitedBuffer
	cmd := exec.CommandContext(ctx, c.opts.SSHBinary, args...) //nolint:gosec
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: start ssh: %v", ErrHostUnreachable, c.handle, err)
	}
	err := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err == nil {
		return nil
	}

	message := strings.TrimSpace(stderr.String())
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() == sshTransportExit {
			c.logger.Warn("host unreachable", logging.String("stderr", message))
			return fmt.Errorf("%w: %s: %s", ErrHostUnreachable, c.handle, message)
		}
		return &CommandError{Host: c.handle, ExitCode: exitErr.ExitCode(), Stderr: message}
	}
	return fmt.Errorf("%w: %s: %v", ErrHostUnreachable, c.handle, err)
}

// sshArgs builds the ssh argument list. The remote side receives a single
// shell-quoted command string.
func (c *Channel) sshArgs(argv []string) []string {
	args := []string{"-o", "BatchMode=yes"}
	if c.opts.ConnectTimeout > 0 {
		seconds := max(int(c.opts.ConnectTimeout/time.Second), 1)
		args = append(args, "-o", "ConnectTimeout="+strconv.Itoa(seconds))
	}
	args = append(args, c.opts.SSHOptions...)
	args = append(args, c.host, commandLine(argv))
	return args
}

// commandLine keeps argv[0] verbatim so configured commands may carry their
// own arguments, and quotes everything else.
func commandLine(argv []string) string {
	if len(argv) == 1 {
		return argv[0]
	}
	return argv[0] + " " + shellquote.Join(argv[1:]...)
}

type limitedBuffer struct {
	buf bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := stderrLimit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}

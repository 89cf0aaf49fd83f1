package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/gitkit/internal/log"
)

// Request describes one process invocation beyond its argv.
type Request struct {
	Dir   string    // working directory, empty for the current one
	Env   []string  // appended to os.Environ()
	Stdin io.Reader // optional
}

// ExitError is returned when a process ran and exited non-zero.
// Stderr holds the trimmed diagnostic text the process printed.
type ExitError struct {
	Name   string
	Args   []string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// RunContext executes a command in dir and returns stderr in the error
// message if it fails.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := Exec(ctx, Request{Dir: dir}, name, args...)
	return err
}

// OutputContext executes a command in dir and returns stdout, with stderr
// in the error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return Exec(ctx, Request{Dir: dir}, name, args...)
}

// Exec runs name with args and returns stdout.
//
// A cancelled context yields the context error itself. A non-zero exit
// yields *ExitError. Failures to start the process are returned as-is.
func Exec(ctx context.Context, req Request, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := exec.CommandContext(ctx, name, args...)
	prepare(c, req)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	done := log.FromContext(ctx).Command(req.Dir, name, args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, exitError(name, args, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func prepare(c *exec.Cmd, req Request) {
	c.Dir = req.Dir
	if len(req.Env) > 0 {
		c.Env = append(os.Environ(), req.Env...)
	}
	if req.Stdin != nil {
		c.Stdin = req.Stdin
	}
}

func exitError(name string, args []string, err error, stderr string) error {
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return err
	}
	return &ExitError{
		Name:   name,
		Args:   args,
		Code:   ee.ExitCode(),
		Stderr: strings.TrimSpace(stderr),
		Err:    err,
	}
}

// Stream is a running process whose stdout is consumed line by line.
// It is single-pass: once Next returns false the process has been reaped.
type Stream struct {
	ctx    context.Context
	name   string
	args   []string
	cmd    *exec.Cmd
	sc     *bufio.Scanner
	stderr bytes.Buffer
	done   func(time.Duration)
	start  time.Time
	err    error
	closed bool
}

// Start launches name with args and returns a stream over its stdout.
func Start(ctx context.Context, req Request, name string, args ...string) (*Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := exec.CommandContext(ctx, name, args...)
	prepare(c, req)

	s := &Stream{ctx: ctx, name: name, args: args, cmd: c}
	c.Stderr = &s.stderr

	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %s: %w", name, err)
	}

	s.done = log.FromContext(ctx).Command(req.Dir, name, args...)
	s.start = time.Now()
	if err := c.Start(); err != nil {
		return nil, err
	}
	s.sc = bufio.NewScanner(stdout)
	s.sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return s, nil
}

// Next advances to the next line. It returns false at the end of output or
// on error; Err reports which.
func (s *Stream) Next() bool {
	if s.closed {
		return false
	}
	if s.sc.Scan() {
		return true
	}
	s.finish(s.sc.Err())
	return false
}

// Line returns the current line without its newline. The slice is only
// valid until the next call to Next.
func (s *Stream) Line() []byte {
	return s.sc.Bytes()
}

// Err returns the first error met while streaming.
func (s *Stream) Err() error {
	return s.err
}

// Close stops the process if it is still running. Safe to call repeatedly.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	s.closed = true
	s.done(time.Since(s.start))
	return nil
}

func (s *Stream) finish(scanErr error) {
	if scanErr != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	waitErr := s.cmd.Wait()
	s.closed = true
	s.done(time.Since(s.start))

	switch {
	case scanErr != nil:
		s.err = scanErr
	case waitErr != nil:
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			s.err = ctxErr
			return
		}
		s.err = exitError(s.name, s.args, waitErr, s.stderr.String())
	}
}

// Duplex is a long-lived process driven request/response style over its
// stdin and stdout.
type Duplex struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr bytes.Buffer
	done   func(time.Duration)
	start  time.Time
}

// StartDuplex launches name with args and wires up both pipes. The process
// is not tied to ctx beyond logging; Close ends it.
func StartDuplex(ctx context.Context, req Request, name string, args ...string) (*Duplex, error) {
	c := exec.Command(name, args...)
	prepare(c, req)

	d := &Duplex{cmd: c}
	c.Stderr = &d.stderr

	stdin, err := c.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe for %s: %w", name, err)
	}
	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %s: %w", name, err)
	}

	d.done = log.FromContext(ctx).Command(req.Dir, name, args...)
	d.start = time.Now()
	if err := c.Start(); err != nil {
		return nil, err
	}
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	return d, nil
}

// Write sends a request to the process.
func (d *Duplex) Write(p []byte) (int, error) {
	return d.stdin.Write(p)
}

// Reader returns the buffered stdout of the process.
func (d *Duplex) Reader() *bufio.Reader {
	return d.stdout
}

// Close ends the process and reaps it.
func (d *Duplex) Close() error {
	_ = d.stdin.Close()
	if d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
	}
	_ = d.cmd.Wait()
	d.done(time.Since(d.start))
	return nil
}

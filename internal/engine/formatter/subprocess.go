package formatter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/shared/observability"
	"arrowstyle/internal/shared/util"
)

const (
	defaultTimeout     = 2 * time.Second
	defaultRestartRate = 1.0
	maxResponseBytes   = 16 << 20
)

type SubprocessOptions struct {
	Dir         string
	Timeout     time.Duration
	RestartRate float64 // process starts per second
}

type lineResult struct {
	data []byte
	err  error
}

// Subprocess runs a long-lived worker process speaking newline-delimited
// JSON on stdin/stdout. A crashed or hung worker is killed and restarted on
// the next request, at most RestartRate times per second.
type Subprocess struct {
	command  []string
	opts     SubprocessOptions
	restarts *util.Limiter

	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan lineResult
}

func NewSubprocess(command []string, opts SubprocessOptions) *Subprocess {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RestartRate <= 0 {
		opts.RestartRate = defaultRestartRate
	}
	return &Subprocess{
		command:  append([]string(nil), command...),
		opts:     opts,
		restarts: util.NewLimiter(opts.RestartRate, 1),
	}
}

func (s *Subprocess) Do(ctx context.Context, req Request) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		if err := s.startLocked(); err != nil {
			return Response{}, err
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, errors.Wrap(err, errors.CodeFormatter, "encode request")
	}
	payload = append(payload, '\n')
	if _, err := s.stdin.Write(payload); err != nil {
		s.stopLocked()
		return Response{}, errors.Wrap(err, errors.CodeFormatter, "write request")
	}

	timer := time.NewTimer(s.opts.Timeout)
	defer timer.Stop()

	select {
	case res, ok := <-s.lines:
		if !ok || res.err != nil {
			s.stopLocked()
			if !ok {
				res.err = io.EOF
			}
			return Response{}, errors.Wrap(res.err, errors.CodeFormatter, "worker exited")
		}
		var resp Response
		if err := json.Unmarshal(res.data, &resp); err != nil {
			return Response{}, errors.Wrap(err, errors.CodeFormatter, "malformed worker response")
		}
		return resp, nil
	case <-timer.C:
		s.stopLocked()
		return Response{}, errors.New(errors.CodeFormatter, fmt.Sprintf("worker timed out after %s", s.opts.Timeout))
	case <-ctx.Done():
		s.stopLocked()
		return Response{}, errors.Wrap(ctx.Err(), errors.CodeFormatter, "request cancelled")
	}
}

func (s *Subprocess) startLocked() error {
	if len(s.command) == 0 {
		return errors.New(errors.CodeFormatter, "no worker command configured")
	}
	if !s.restarts.Allow(1) {
		return errors.New(errors.CodeFormatter, "worker restart throttled")
	}

	cmd := exec.Command(s.command[0], s.command[1:]...)
	cmd.Dir = s.opts.Dir
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, errors.CodeFormatter, "open worker stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, errors.CodeFormatter, "open worker stdout")
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, errors.CodeFormatter, "start worker")
	}
	observability.FormatterRestartsTotal.Inc()
	slog.Debug("formatter worker started", "command", s.command, "pid", cmd.Process.Pid)

	lines := make(chan lineResult, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), maxResponseBytes)
		for scanner.Scan() {
			lines <- lineResult{data: append([]byte(nil), scanner.Bytes()...)}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		lines <- lineResult{err: err}
	}()

	s.cmd = cmd
	s.stdin = stdin
	s.lines = lines
	return nil
}

func (s *Subprocess) stopLocked() {
	if s.cmd == nil {
		return
	}
	_ = s.stdin.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	go func(ch chan lineResult) {
		for range ch {
		}
	}(s.lines)
	s.cmd, s.stdin, s.lines = nil, nil, nil
}

func (s *Subprocess) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return nil
}

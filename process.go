//go:build !windows

package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/dmora/uci/internal/errfmt"
)

// errKilled reports that an engine ignored quit and SIGTERM.
var errKilled = errors.New("uci: engine ignored quit and SIGTERM; killed")

// process owns the engine subprocess and its pipes.
type process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	log    zerolog.Logger
	stderr sync.WaitGroup

	// Parent ends of the output pipes, closed to unblock the readers when
	// a killed engine leaves them held open by a descendant.
	outputs []io.Closer

	exited  chan struct{} // closed once cmd.Wait returns
	waitErr error         // valid after exited is closed
}

// checkExecutable fails with ErrLaunch unless path names an existing,
// executable, non-directory file.
func checkExecutable(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: engine path is empty", ErrLaunch)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLaunch, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrLaunch, path)
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		return fmt.Errorf("%w: %s: not executable: %w", ErrLaunch, path, err)
	}
	return nil
}

// startProcess spawns the engine with piped stdio. The returned reader is
// the engine's stdout.
func startProcess(path string, opts EngineOptions, log zerolog.Logger) (*process, io.Reader, error) {
	// exec.Command consults PATH for bare names; the path was validated
	// relative to the working directory, so run exactly that file.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrLaunch, err)
	}
	cmd := exec.Command(abs, opts.Args...)
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: stdin pipe: %w", ErrLaunch, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: stdout pipe: %w", ErrLaunch, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: stderr pipe: %w", ErrLaunch, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("%w: start: %w", ErrLaunch, err)
	}
	log.Debug().Int("pid", cmd.Process.Pid).Strs("args", opts.Args).Msg("engine started")

	p := &process{
		cmd:     cmd,
		stdin:   stdin,
		log:     log,
		outputs: []io.Closer{stdout, stderr},
		exited:  make(chan struct{}),
	}
	p.stderr.Add(1)
	go p.drainStderr(stderr)
	return p, stdout, nil
}

// drainStderr logs engine diagnostics so a chatty engine cannot block on
// a full stderr pipe.
func (p *process) drainStderr(r io.Reader) {
	defer p.stderr.Done()
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), defaultScannerBuffer)
	for s.Scan() {
		p.log.Debug().Str("stderr", errfmt.Truncate(s.Text())).Msg("engine stderr")
	}
	// Keep the pipe drained if a line overflowed the buffer.
	_, _ = io.Copy(io.Discard, r)
}

// reap waits for stdout to be fully consumed, then for the process to
// exit. Must be called exactly once.
func (p *process) reap(stdoutDone <-chan struct{}) {
	<-stdoutDone
	p.stderr.Wait()
	p.waitErr = p.cmd.Wait()
	if p.waitErr != nil {
		p.log.Debug().Err(p.waitErr).Msg("engine exited")
	} else {
		p.log.Debug().Msg("engine exited")
	}
	close(p.exited)
}

// shutdown asks the engine to quit and escalates to SIGTERM and then
// SIGKILL, waiting up to grace after each step. quit is best effort and
// shares the first grace window: an engine that stopped reading its input
// cannot hold shutdown on the write.
func (p *process) shutdown(grace time.Duration, quit func() error) error {
	deadline := time.Now().Add(grace)
	wrote := make(chan error, 1)
	go func() { wrote <- quit() }()

	t := time.NewTimer(grace)
	select {
	case err := <-wrote:
		if err != nil {
			p.log.Debug().Err(err).Msg("write quit")
		}
	case <-p.exited:
	case <-t.C:
		p.log.Warn().Dur("grace", grace).Msg("engine is not reading input; closing stdin")
	}
	t.Stop()

	// Closing stdin also fails any write still blocked on the pipe.
	_ = p.stdin.Close()
	if p.waitFor(time.Until(deadline)) {
		return nil
	}

	p.log.Warn().Dur("grace", grace).Msg("engine ignored quit; sending SIGTERM")
	_ = signalProcess(p.cmd.Process, unix.SIGTERM)
	if p.waitFor(grace) {
		return nil
	}

	p.log.Warn().Dur("grace", grace).Msg("engine ignored SIGTERM; killing")
	p.killAndReap(grace)
	return errKilled
}

// kill terminates the engine immediately. Used when startup fails.
func (p *process) kill(grace time.Duration) {
	_ = p.stdin.Close()
	p.killAndReap(grace)
}

// killAndReap sends SIGKILL and waits for reap. If the output pipes are
// still open after grace, a descendant inherited them; they are closed so
// the readers see end of output.
func (p *process) killAndReap(grace time.Duration) {
	_ = signalProcess(p.cmd.Process, os.Kill)
	if p.waitFor(grace) {
		return
	}
	p.log.Warn().Msg("engine output still open after kill; closing pipes")
	for _, c := range p.outputs {
		_ = c.Close()
	}
	<-p.exited
}

// waitFor reports whether the engine exited within d. A non-positive d
// only checks.
func (p *process) waitFor(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-p.exited:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-p.exited:
		return true
	case <-t.C:
		return false
	}
}

// signalProcess sends sig, treating an already-exited process as success.
func signalProcess(proc *os.Process, sig os.Signal) error {
	err := proc.Signal(sig)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

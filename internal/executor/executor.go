package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// Config describes the player process
type Config struct {
	// Command is the binary started when the player is not running
	Command string
	// Args are passed to Command
	Args []string
}

// runningProcess is the part of a gopsutil process the executor needs
type runningProcess interface {
	NameWithContext(ctx context.Context) (string, error)
	KillWithContext(ctx context.Context) error
}

type processEntry struct {
	pid  int32
	proc runningProcess
}

// ProcessExecutor starts the player detached from the caller and kills it by name
type ProcessExecutor struct {
	logger *zap.Logger
	cfg    Config
	self   int32

	lookPath  func(file string) (string, error)
	start     func(cmd *exec.Cmd) error
	processes func(ctx context.Context) ([]processEntry, error)
}

// NewExecutor creates a process executor for cfg
func NewExecutor(logger *zap.Logger, cfg Config) *ProcessExecutor {
	return &ProcessExecutor{
		logger:    logger,
		cfg:       cfg,
		self:      int32(os.Getpid()),
		lookPath:  exec.LookPath,
		start:     startDetached,
		processes: systemProcesses,
	}
}

// Spawn starts the player in its own session and returns without waiting for it
func (e *ProcessExecutor) Spawn(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	binary, err := e.lookPath(e.cfg.Command)
	if err != nil {
		return fmt.Errorf("player binary %q not found: %w", e.cfg.Command, err)
	}

	// not CommandContext: the player must outlive this process
	cmd := exec.Command(binary, e.cfg.Args...)
	configureSysProcAttr(cmd)

	if err := e.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", binary, err)
	}

	pid := 0
	if cmd.Process != nil {
		pid = cmd.Process.Pid
		// nobody waits for the child, let it go
		_ = cmd.Process.Release()
	}
	e.logger.Info("Player spawned",
		zap.String("binary", binary),
		zap.Int("pid", pid))
	return nil
}

// KillByName force-terminates every process named name except the caller.
// Processes that exit while the table is scanned are skipped.
func (e *ProcessExecutor) KillByName(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 0, errors.New("empty process name")
	}
	procs, err := e.processes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list processes: %w", err)
	}

	var (
		killed int
		errs   []error
	)
	for _, p := range procs {
		if p.pid == e.self {
			continue
		}
		pname, err := p.proc.NameWithContext(ctx)
		if err != nil || pname != name {
			continue
		}
		if err := p.proc.KillWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("kill %d: %w", p.pid, err))
			continue
		}
		killed++
		e.logger.Debug("Process killed", zap.Int32("pid", p.pid), zap.String("name", name))
	}

	e.logger.Info("Kill by name finished",
		zap.String("name", name),
		zap.Int("killed", killed),
		zap.Int("failed", len(errs)))
	return killed, errors.Join(errs...)
}

func startDetached(cmd *exec.Cmd) error {
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Start()
}

func systemProcesses(ctx context.Context) ([]processEntry, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]processEntry, 0, len(procs))
	for _, p := range procs {
		entries = append(entries, processEntry{pid: p.Pid, proc: p})
	}
	return entries, nil
}

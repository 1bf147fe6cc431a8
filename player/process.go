package player

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pes18fan/etere/dialect"
)

const sigtermTimeout = 3 * time.Second

// Process is one running player. Its Output merges stdout and stderr,
// because the players scatter their metadata across both, and yields EOF
// when the process exits for any reason.
type Process struct {
	Kind   dialect.PlayerKind
	Output *os.File

	cmd      *exec.Cmd
	done     chan struct{}
	stopOnce sync.Once
}

// Start launches the player for a stream URL. The child gets its own
// process group so Stop can take down anything it forked.
func Start(kind dialect.PlayerKind, url string) (*Process, error) {
	bin, err := exec.LookPath(kind.String())
	if err != nil {
		return nil, fmt.Errorf("player %s not found: %w", kind, err)
	}

	cmd := exec.Command(bin, args(kind, url)...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("start %s: %w", kind, err)
	}

	// Drop the parent's write end so the read side sees EOF as soon as the
	// child exits.
	pw.Close()

	p := &Process{
		Kind:   kind,
		Output: pr,
		cmd:    cmd,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		err := cmd.Wait()
		log.Debug().
			Str("player", kind.String()).
			Int("pid", cmd.Process.Pid).
			AnErr("exit", err).
			Msg("player exited")
	}()

	log.Info().
		Str("player", kind.String()).
		Int("pid", cmd.Process.Pid).
		Str("url", url).
		Msg("player started")
	return p, nil
}

// Stop terminates the player: SIGTERM to the process group first, SIGKILL
// if it drags its feet. Idempotent, and safe to call after the process
// already exited; closing Output is what unblocks a reader stuck on a
// player that never printed anything.
func (p *Process) Stop() {
	p.stopOnce.Do(p.stop)
}

func (p *Process) stop() {
	select {
	case <-p.done:
		p.Output.Close()
		return
	default:
	}

	pid := p.cmd.Process.Pid
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		log.Debug().Err(err).Int("pid", pid).Msg("SIGTERM failed")
	}

	select {
	case <-p.done:
	case <-time.After(sigtermTimeout):
		log.Warn().Int("pid", pid).Msg("player ignored SIGTERM, killing")
		_ = syscall.Kill(-pid, syscall.SIGKILL)
		<-p.done
	}

	p.Output.Close()
}

package notify

import (
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Command runs a user-configured program on every track change. The
// template is split into argv up front and the placeholders %channel% and
// %title% are substituted per invocation; nothing is passed through a
// shell, so titles with quotes in them cannot break anything.
type Command struct {
	argv []string
}

// NewCommand parses a command template like
//
//	notify-send %channel% %title%
//
// An empty template yields a nil Command, which is safe to skip.
func NewCommand(template string) *Command {
	argv := strings.Fields(template)
	if len(argv) == 0 {
		return nil
	}
	return &Command{argv: argv}
}

// Notify starts the command detached and reaps it in the background.
func (c *Command) Notify(channel, title string) {
	argv := expand(c.argv, channel, title)

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		log.Debug().Err(err).Str("cmd", argv[0]).Msg("notify command failed to start")
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug().Err(err).Str("cmd", argv[0]).Msg("notify command failed")
		}
	}()
}

func expand(argv []string, channel, title string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		a = strings.ReplaceAll(a, "%channel%", channel)
		a = strings.ReplaceAll(a, "%title%", title)
		out[i] = a
	}
	return out
}

// Multi fans one track change out to several notifiers.
type Multi []interface{ Notify(channel, title string) }

func (m Multi) Notify(channel, title string) {
	for _, n := range m {
		n.Notify(channel, title)
	}
}

package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
)

// DefaultGroup is the number of symbols printed between spaces.
const DefaultGroup = 5

// maxLine bounds the length of one input line.
const maxLine = 1 << 20

// Processor runs a message stream through a machine.
type Processor struct {
	Machine *machine.Machine
	Group   int         // Symbols per output group; 0 prints each line unbroken.
	Logger  *zap.Logger // nil logs nothing.
}

// Run reads settings lines and messages from r and writes the converted
// messages to w, one output line per message line.  The first line that is
// not blank must be a settings line.  Output converted before an error is
// still written.
func (p *Processor) Run(r io.Reader, w io.Writer) (err error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	out := bufio.NewWriter(w)
	defer func() {
		if ferr := out.Flush(); err == nil {
			err = ferr
		}
	}()
	in := bufio.NewScanner(r)
	in.Buffer(make([]byte, 0, 4096), maxLine)
	configured := false
	lineNo := 0

	for in.Scan() {
		lineNo++
		line := in.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, string(cryptors.SettingsMark)):
			if err := ApplySettings(p.Machine, trimmed); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			configured = true
			log.Debug("settings applied",
				zap.Int("line", lineNo),
				zap.String("settings", trimmed),
				zap.String("positions", p.Machine.Positions()))
		case !configured && trimmed == "":
			continue
		case !configured:
			return fmt.Errorf("line %d: %w", lineNo,
				cryptors.Configf("settings", "input must begin with a settings line"))
		default:
			msg, err := p.Machine.ConvertString(strings.Join(strings.Fields(line), ""))
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if _, err := fmt.Fprintln(out, Group(msg, p.Group)); err != nil {
				return err
			}
		}
	}
	return in.Err()
}

// Group breaks msg into groups of n symbols separated by single spaces.
// The last group may be shorter.  n <= 0 leaves msg as it is.
func Group(msg string, n int) string {
	if n <= 0 {
		return msg
	}
	var sb strings.Builder
	for i, r := range []rune(msg) {
		if i > 0 && i%n == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

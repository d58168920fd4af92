// Package script runs command scripts against a file system session, one
// command per line.
package script

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Op is the single-letter command selector.
type Op byte

const (
	OpMount     Op = 'M'
	OpCreate    Op = 'C'
	OpDelete    Op = 'D'
	OpRead      Op = 'R'
	OpWrite     Op = 'W'
	OpBuffer    Op = 'B'
	OpList      Op = 'L'
	OpResize    Op = 'E'
	OpDefrag    Op = 'O'
	OpChangeDir Op = 'Y'
)

type Command struct {
	Op   Op
	Name string
	N    Block
	Data []byte
}

const (
	MalformedCommandErr ConstError = "malformed command"
	maxNameLen                     = NameSize
)

// Parse reads one script line. The command is the line's first byte and
// arguments are separated by spaces, so a line that starts with a space or a
// tab is malformed. Empty lines parse to ok == false with no error.
func Parse(line string) (cmd Command, ok bool, err error) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return Command{}, false, nil
	}

	cmd.Op = Op(line[0])
	var args []string
	if tokens := tokenize(line); len(tokens) > 0 {
		args = tokens[1:]
	}
	switch cmd.Op {
	case OpMount:
		if len(args) != 1 {
			return Command{}, false, malformed(line, "wanted 1 argument")
		}
		cmd.Name = args[0]
	case OpDelete, OpChangeDir:
		if len(args) != 1 {
			return Command{}, false, malformed(line, "wanted 1 argument")
		}
		if cmd.Name, err = parseName(args[0]); err != nil {
			return Command{}, false, malformed(line, err.Error())
		}
	case OpCreate, OpRead, OpWrite, OpResize:
		if len(args) != 2 {
			return Command{}, false, malformed(line, "wanted 2 arguments")
		}
		if cmd.Name, err = parseName(args[0]); err != nil {
			return Command{}, false, malformed(line, err.Error())
		}
		lowest := 0
		if cmd.Op == OpResize {
			lowest = 1
		}
		if cmd.N, err = parseBlock(args[1], lowest); err != nil {
			return Command{}, false, malformed(line, err.Error())
		}
	case OpBuffer:
		if len(args) < 1 {
			return Command{}, false, malformed(line, "wanted data")
		}
		data := strings.TrimLeft(line[1:], " ")
		if Byte(len(data)) > BlockSize {
			return Command{}, false, malformed(
				line,
				fmt.Sprintf("data longer than `%d` bytes", BlockSize),
			)
		}
		cmd.Data = []byte(data)
	case OpList, OpDefrag:
		if len(args) != 0 {
			return Command{}, false, malformed(line, "wanted no arguments")
		}
	default:
		return Command{}, false, malformed(line, "unknown command")
	}
	return cmd, true, nil
}

// tokenize splits on runs of spaces. Tabs are not separators.
func tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool { return r == ' ' })
}

func parseName(s string) (string, error) {
	if strings.ContainsRune(s, '/') {
		return "", fmt.Errorf("name `%s` contains `/`", s)
	}
	if len(s) > maxNameLen {
		return "", fmt.Errorf("name `%s` longer than `%d` bytes", s, maxNameLen)
	}
	return s, nil
}

func parseBlock(s string, lowest int) (Block, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing `%s`: %w", s, err)
	}
	if n < lowest || n > int(BlockLastData) {
		return 0, fmt.Errorf("`%d` not in `%d..%d`", n, lowest, BlockLastData)
	}
	return Block(n), nil
}

func malformed(line, reason string) error {
	return fmt.Errorf("`%s`: %s: %w", line, reason, MalformedCommandErr)
}

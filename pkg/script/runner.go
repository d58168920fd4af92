package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jenyangk/FS-Sim/pkg/check"
	"github.com/jenyangk/FS-Sim/pkg/fs"
	"github.com/jenyangk/FS-Sim/pkg/logger"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Runner executes scripts against Session. Listings go to Stdout; failures
// go to Stderr, one line each, and never stop the script.
type Runner struct {
	Session *fs.Session
	Stdout  io.Writer
	Stderr  io.Writer

	// Name identifies the script in `Command Error` lines.
	Name string
}

// Run executes every line of src. It only returns an error if src cannot be
// read or ctx is cancelled between lines.
func (r *Runner) Run(ctx context.Context, src io.Reader) error {
	ctx = logger.With(ctx, "script", r.Name)
	log := logger.Get(ctx)
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for line := 1; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running script `%s`: line `%d`: %w", r.Name, line, err)
		}

		cmd, ok, err := Parse(scanner.Text())
		if err != nil {
			log.Debug("skipping line", "line", line, "err", err)
			fmt.Fprintf(r.Stderr, "Command Error: %s, %d\n", r.Name, line)
			continue
		}
		if !ok {
			continue
		}
		r.Exec(cmd)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script `%s`: %w", r.Name, err)
	}
	return nil
}

// Exec runs one command, reporting any failure on Stderr.
func (r *Runner) Exec(cmd Command) {
	if err := r.exec(cmd); err != nil {
		fmt.Fprintln(r.Stderr, Message(cmd, r.Session.DiskName(), err))
	}
}

func (r *Runner) exec(cmd Command) error {
	s := r.Session
	switch cmd.Op {
	case OpMount:
		return s.Mount(cmd.Name)
	case OpCreate:
		return s.Create(cmd.Name, cmd.N)
	case OpDelete:
		return s.Delete(cmd.Name)
	case OpRead:
		return s.Read(cmd.Name, cmd.N)
	case OpWrite:
		return s.Write(cmd.Name, cmd.N)
	case OpBuffer:
		return s.SetBuffer(cmd.Data)
	case OpList:
		entries, err := s.List()
		if err != nil {
			return err
		}
		WriteListing(r.Stdout, entries)
		return nil
	case OpResize:
		return s.Resize(cmd.Name, cmd.N)
	case OpDefrag:
		return s.Defragment()
	case OpChangeDir:
		return s.ChangeDirectory(cmd.Name)
	default:
		return fmt.Errorf("op `%c`: %w", cmd.Op, MalformedCommandErr)
	}
}

// WriteListing prints entries one per line: directories with their entry
// count, files with their size in KB (one block is one KB).
func WriteListing(w io.Writer, entries []fs.Entry) {
	for _, entry := range entries {
		if entry.Kind == KindDir {
			fmt.Fprintf(w, "%-5s %3d\n", entry.Name, entry.Size)
		} else {
			fmt.Fprintf(w, "%-5s %3d KB\n", entry.Name, entry.Size)
		}
	}
}

// Message renders a failed command the way users of the command language
// expect to see it. disk is the mounted disk's name, if any.
func Message(cmd Command, disk string, err error) string {
	var inconsistent *check.InconsistentErr
	switch {
	case errors.Is(err, fs.NotMountedErr):
		return "Error: No file system is mounted"
	case errors.As(err, &inconsistent):
		return fmt.Sprintf(
			"Error: File system in %s is inconsistent (error code: %d)",
			cmd.Name,
			inconsistent.Rule,
		)
	case errors.Is(err, fs.DiskUnavailableErr):
		return fmt.Sprintf("Error: Cannot find disk %s", cmd.Name)
	case errors.Is(err, fs.InodeTableFullErr):
		return fmt.Sprintf(
			"Error: Superblock in disk %s is full, cannot create %s",
			disk,
			cmd.Name,
		)
	case errors.Is(err, fs.NameConflictErr), errors.Is(err, fs.ReservedNameErr):
		return fmt.Sprintf("Error: File or directory %s already exists", cmd.Name)
	case errors.Is(err, fs.InsufficientSpaceErr):
		return fmt.Sprintf("Error: Cannot allocate %d on %s", cmd.N, disk)
	case errors.Is(err, fs.CannotExpandErr):
		return fmt.Sprintf(
			"Error: File %s cannot expand to size %d",
			cmd.Name,
			cmd.N,
		)
	case errors.Is(err, fs.BlockOutOfRangeErr):
		return fmt.Sprintf("Error: %s does not have block %d", cmd.Name, cmd.N)
	case errors.Is(err, fs.NotFoundErr):
		switch cmd.Op {
		case OpDelete:
			return fmt.Sprintf(
				"Error: File or directory %s does not exist",
				cmd.Name,
			)
		case OpChangeDir:
			return fmt.Sprintf("Error: Directory %s does not exist", cmd.Name)
		default:
			return fmt.Sprintf("Error: File %s does not exist", cmd.Name)
		}
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

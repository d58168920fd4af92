package script

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jenyangk/FS-Sim/pkg/diskstore"
	"github.com/jenyangk/FS-Sim/pkg/fs"
)

func newRunner(t *testing.T, disks ...string) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	store := diskstore.NewMemStore()
	for _, disk := range disks {
		if err := diskstore.Mkfs(store, disk); err != nil {
			t.Fatalf("Mkfs(): unexpected err: %v", err)
		}
	}
	var stdout, stderr bytes.Buffer
	return &Runner{
		Session: fs.NewSession(store, nil),
		Stdout:  &stdout,
		Stderr:  &stderr,
		Name:    "test.txt",
	}, &stdout, &stderr
}

func TestRun(t *testing.T) {
	runner, stdout, stderr := newRunner(t, "disk0")
	script := strings.Join([]string{
		"M disk0",
		"C dir 0",
		"C file 3",
		"B hello",
		"W file 0",
		"Y dir",
		"C a 2",
		"L",
		"Y ..",
		"L",
		"E file 5",
		"D nope",
		"R file 9",
		"Y file",
		"C file 1",
		"X",
		"C toolongname 1",
		"C a 128",
		"E file 0",
		"O",
		"M missing",
		"",
		"L",
		"B overwritten",
		"R file 0",
	}, "\n") + "\n"

	if err := runner.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run(): unexpected err: %v", err)
	}

	wantedStdout := strings.Join([]string{
		".       3",
		"..      4",
		"a       2 KB",
		".       4",
		"..      4",
		"dir     3",
		"file    3 KB",
		".       4",
		"..      4",
		"dir     3",
		"file    5 KB",
	}, "\n") + "\n"
	if found := stdout.String(); found != wantedStdout {
		t.Fatalf("stdout: wanted:\n%s\nfound:\n%s", wantedStdout, found)
	}

	wantedStderr := strings.Join([]string{
		"Error: File or directory nope does not exist",
		"Error: file does not have block 9",
		"Error: Directory file does not exist",
		"Error: File or directory file already exists",
		"Command Error: test.txt, 16",
		"Command Error: test.txt, 17",
		"Command Error: test.txt, 18",
		"Command Error: test.txt, 19",
		"Error: Cannot find disk missing",
	}, "\n") + "\n"
	if found := stderr.String(); found != wantedStderr {
		t.Fatalf("stderr: wanted:\n%s\nfound:\n%s", wantedStderr, found)
	}

	buf := runner.Session.Buffer()
	if !bytes.HasPrefix(buf[:], []byte("hello\x00")) {
		t.Fatalf("buffer: wanted `hello`; found `%.12q`", buf[:])
	}
}

func TestRunMessages(t *testing.T) {
	for _, tc := range []struct {
		name   string
		script string
		wanted string
	}{
		{
			name:   "not-mounted",
			script: "L\nC a 1\n",
			wanted: "Error: No file system is mounted\n" +
				"Error: No file system is mounted\n",
		},
		{
			name:   "reserved-name",
			script: "M disk0\nC .. 0\n",
			wanted: "Error: File or directory .. already exists\n",
		},
		{
			name:   "no-space",
			script: "M disk0\nC a 100\nC b 100\n",
			wanted: "Error: Cannot allocate 100 on disk0\n",
		},
		{
			name:   "cannot-expand",
			script: "M disk0\nC a 100\nC b 27\nE a 101\n",
			wanted: "Error: File a cannot expand to size 101\n",
		},
		{
			name:   "read-missing",
			script: "M disk0\nC d 0\nR d 0\nW nope 0\n",
			wanted: "Error: File d does not exist\n" +
				"Error: File nope does not exist\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			runner, _, stderr := newRunner(t, "disk0")
			if err := runner.Run(
				context.Background(),
				strings.NewReader(tc.script),
			); err != nil {
				t.Fatalf("Run(): unexpected err: %v", err)
			}
			if found := stderr.String(); found != tc.wanted {
				t.Fatalf("stderr: wanted `%q`; found `%q`", tc.wanted, found)
			}
		})
	}
}

func TestRunInodeTableFull(t *testing.T) {
	runner, _, stderr := newRunner(t, "disk0")
	var script strings.Builder
	script.WriteString("M disk0\n")
	for i := 0; i < 126; i++ {
		fmt.Fprintf(&script, "C d%d 0\n", i)
	}
	script.WriteString("C extra 0\n")

	if err := runner.Run(
		context.Background(),
		strings.NewReader(script.String()),
	); err != nil {
		t.Fatalf("Run(): unexpected err: %v", err)
	}
	wanted := "Error: Superblock in disk disk0 is full, cannot create extra\n"
	if found := stderr.String(); found != wanted {
		t.Fatalf("stderr: wanted `%q`; found `%q`", wanted, found)
	}
}

func TestRunInconsistentDisk(t *testing.T) {
	store := diskstore.NewMemStore()
	if err := diskstore.Mkfs(store, "bad"); err != nil {
		t.Fatalf("Mkfs(): unexpected err: %v", err)
	}
	image, _ := store.Image("bad")
	image[0] = 0 // the superblock's own block must be marked used

	var stdout, stderr bytes.Buffer
	runner := Runner{
		Session: fs.NewSession(store, nil),
		Stdout:  &stdout,
		Stderr:  &stderr,
		Name:    "bad.txt",
	}
	if err := runner.Run(
		context.Background(),
		strings.NewReader("M bad\nL\n"),
	); err != nil {
		t.Fatalf("Run(): unexpected err: %v", err)
	}
	wanted := "Error: File system in bad is inconsistent (error code: 1)\n" +
		"Error: No file system is mounted\n"
	if found := stderr.String(); found != wanted {
		t.Fatalf("stderr: wanted `%q`; found `%q`", wanted, found)
	}
}

func TestRunCancelled(t *testing.T) {
	runner, _, _ := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, strings.NewReader("L\n")); err == nil {
		t.Fatal("Run(): wanted an error; found `nil`")
	}
}

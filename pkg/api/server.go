// Package api serves a file system session over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/jenyangk/FS-Sim/pkg/fs"
	"github.com/jenyangk/FS-Sim/pkg/script"
	pz "github.com/weberc2/httpeasy"
)

// maxScriptSize bounds request bodies for POST /scripts.
const maxScriptSize = 1 << 20

// Server shares one session between requests, one request at a time.
type Server struct {
	Session *fs.Session

	// Context is the parent of every script run, carrying the logger.
	Context context.Context

	lock sync.Mutex
}

type ScriptResult struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

type MountInfo struct {
	Disk    string    `json:"disk"`
	MountID uuid.UUID `json:"mountID"`
	Cwd     string    `json:"cwd"`
}

type e struct {
	Error string `json:"error"`
}

func (s *Server) Routes() []pz.Route {
	return []pz.Route{{
		Method:  "POST",
		Path:    "/scripts",
		Handler: s.RunScript,
	}, {
		Method:  "GET",
		Path:    "/entries",
		Handler: s.Entries,
	}, {
		Method:  "GET",
		Path:    "/mount",
		Handler: s.Mount,
	}}
}

// RunScript runs the request body as a command script and returns what it
// printed.
func (s *Server) RunScript(r pz.Request) pz.Response {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxScriptSize+1))
	if err != nil {
		return pz.BadRequest(pz.String("Reading script body"), e{err.Error()})
	}
	if len(data) > maxScriptSize {
		return pz.BadRequest(
			pz.Stringf("Script larger than `%d` bytes", maxScriptSize),
			e{"script too large"},
		)
	}

	ctx := s.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var stdout, stderr bytes.Buffer
	s.lock.Lock()
	defer s.lock.Unlock()
	runner := script.Runner{
		Session: s.Session,
		Stdout:  &stdout,
		Stderr:  &stderr,
		Name:    "request",
	}
	if err := runner.Run(ctx, bytes.NewReader(data)); err != nil {
		return pz.InternalServerError(e{err.Error()})
	}
	return pz.Ok(
		pz.JSON(&ScriptResult{Stdout: stdout.String(), Stderr: stderr.String()}),
		struct {
			Message string
			Bytes   int
		}{
			Message: "ran script",
			Bytes:   len(data),
		},
	)
}

// Entries lists the current directory.
func (s *Server) Entries(r pz.Request) pz.Response {
	s.lock.Lock()
	defer s.lock.Unlock()
	entries, err := s.Session.List()
	if err != nil {
		if errors.Is(err, fs.NotMountedErr) {
			return pz.Conflict(
				pz.String("No file system is mounted"),
				e{err.Error()},
			)
		}
		return pz.InternalServerError(e{err.Error()})
	}
	return pz.Ok(pz.JSON(entries))
}

// Mount describes the mounted disk.
func (s *Server) Mount(r pz.Request) pz.Response {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.Session.Mounted() {
		return pz.NotFound(
			pz.String("No file system is mounted"),
			e{fs.NotMountedErr.Error()},
		)
	}
	return pz.Ok(pz.JSON(&MountInfo{
		Disk:    s.Session.DiskName(),
		MountID: s.Session.MountID(),
		Cwd:     s.Session.Cwd(),
	}))
}

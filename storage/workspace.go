package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const copy_chunk_size = 8192

var ErrNotTracked = errors.New("path not tracked by workspace")

// Workspace owns every temporary file of one job. Each path it hands out is
// deleted exactly once, either through Remove or by Cleanup.
type Workspace struct {
	dir string

	mu      sync.Mutex
	tracked map[string]bool
	kept    map[string]bool
	closed  bool
}

func NewWorkspace(baseDir string) (*Workspace, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	dir, err := os.MkdirTemp(baseDir, "job-")
	if err != nil {
		return nil, fmt.Errorf("failed to create job directory: %w", err)
	}
	return &Workspace{
		dir:     dir,
		tracked: map[string]bool{},
		kept:    map[string]bool{},
	}, nil
}

func (ws *Workspace) Dir() string {
	return ws.dir
}

// Allocate reserves a fresh path with the given extension. Nothing is
// created on disk, but the path is deleted on cleanup if something was.
func (ws *Workspace) Allocate(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	path := filepath.Join(ws.dir, uuid.New().String()+ext)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.tracked[path] = true
	return path
}

// SaveStream copies r into a newly allocated file in fixed-size chunks.
func (ws *Workspace) SaveStream(r io.Reader, ext string) (string, error) {
	path := ws.Allocate(ext)
	dst, err := os.Create(path)
	if err != nil {
		ws.Remove(path)
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.CopyBuffer(dst, r, make([]byte, copy_chunk_size)); err != nil {
		dst.Close()
		ws.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return path, nil
}

// WriteFile stores data in a newly allocated file.
func (ws *Workspace) WriteFile(data []byte, ext string) (string, error) {
	path := ws.Allocate(ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		ws.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// Remove deletes a tracked path now and stops tracking it. Removing a path
// twice reports ErrNotTracked instead of touching the disk again.
func (ws *Workspace) Remove(path string) error {
	ws.mu.Lock()
	if !ws.tracked[path] {
		ws.mu.Unlock()
		return ErrNotTracked
	}
	delete(ws.tracked, path)
	delete(ws.kept, path)
	ws.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Replace renames src over dst. Both must be tracked; src stops being
// tracked because it no longer exists.
func (ws *Workspace) Replace(src, dst string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if !ws.tracked[src] || !ws.tracked[dst] {
		return ErrNotTracked
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	delete(ws.tracked, src)
	return nil
}

// Keep excludes a path from Release so it can outlive the job's
// intermediate files. Cleanup still deletes it.
func (ws *Workspace) Keep(path string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if !ws.tracked[path] {
		return ErrNotTracked
	}
	ws.kept[path] = true
	return nil
}

// Release deletes every tracked path that was not marked with Keep.
func (ws *Workspace) Release() {
	for _, path := range ws.Tracked() {
		ws.mu.Lock()
		kept := ws.kept[path]
		ws.mu.Unlock()
		if kept {
			continue
		}
		if err := ws.Remove(path); err != nil && !errors.Is(err, ErrNotTracked) {
			log.Printf("[WARN] workspace: %v", err)
		}
	}
}

// Cleanup deletes every tracked path and the job directory. Errors are
// logged and swallowed; calling it again is a no-op.
func (ws *Workspace) Cleanup() {
	ws.mu.Lock()
	if ws.closed {
		ws.mu.Unlock()
		return
	}
	ws.closed = true
	ws.mu.Unlock()

	for _, path := range ws.Tracked() {
		if err := ws.Remove(path); err != nil && !errors.Is(err, ErrNotTracked) {
			log.Printf("[WARN] workspace: %v", err)
		}
	}
	if err := os.RemoveAll(ws.dir); err != nil {
		log.Printf("[WARN] workspace: failed to delete %s: %v", ws.dir, err)
	}
}

func (ws *Workspace) Tracked() []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	paths := make([]string, 0, len(ws.tracked))
	for path := range ws.tracked {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

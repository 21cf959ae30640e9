package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	apperrors "speech-relay/internal/app/errors"
)

// ConvertedExt is the extension of converter output files
const ConvertedExt = ".wav"

// Workspace owns the scratch directory that request artifacts live in.
type Workspace struct {
	dir     string
	created bool
	keep    bool

	mu       sync.Mutex
	inFlight int
}

// Artifact is the pair of scratch paths owned by a single request.
// Release must be called exactly once, normally via defer.
type Artifact struct {
	ID         string
	InputPath  string
	OutputPath string

	ws   *Workspace
	once sync.Once
}

// NewWorkspace ensures dir exists. When keep is false and the directory
// did not exist beforehand, Close removes it.
func NewWorkspace(dir string, keep bool) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrScratchUnavailable, err.Error())
	}

	created := false
	if _, err := os.Stat(abs); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(abs, 0o750); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrScratchUnavailable, err.Error())
		}
		created = true
	} else if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrScratchUnavailable, err.Error())
	}

	return &Workspace{dir: abs, created: created, keep: keep}, nil
}

// Dir returns the absolute scratch directory
func (w *Workspace) Dir() string {
	return w.dir
}

// InFlight returns the number of artifacts acquired and not yet released
func (w *Workspace) InFlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Acquire reserves a fresh pair of paths for a request. Nothing is written yet.
func (w *Workspace) Acquire(filename string) *Artifact {
	id := uuid.NewString()

	w.mu.Lock()
	w.inFlight++
	w.mu.Unlock()

	return &Artifact{
		ID:         id,
		InputPath:  filepath.Join(w.dir, fmt.Sprintf("%s_%s", id, SanitizeFilename(filename))),
		OutputPath: filepath.Join(w.dir, id+ConvertedExt),
		ws:         w,
	}
}

// Close tears the workspace down according to its cleanup policy
func (w *Workspace) Close() error {
	if !w.created || w.keep {
		return nil
	}
	return os.RemoveAll(w.dir)
}

// Release removes both scratch files. Missing files are not an error.
func (a *Artifact) Release() error {
	var errs []error
	a.once.Do(func() {
		for _, p := range []string{a.InputPath, a.OutputPath} {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
		}
		a.ws.mu.Lock()
		a.ws.inFlight--
		a.ws.mu.Unlock()
	})
	return errors.Join(errs...)
}

// SanitizeFilename reduces a client-supplied name to a safe base name
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "/" || name == "." || name == ".." {
		return "upload"
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case r == '/', r == ':':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "upload"
	}
	return name
}

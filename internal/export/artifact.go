package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is the final output of a successful job: the container blob, the
// format extension, and the configured base filename. Produced exactly once
// per job and handed off immediately; the pipeline retains no reference.
type Artifact struct {
	JobID     string
	Data      []byte
	Extension string
	Filename  string
}

// FileName returns the artifact's full on-disk name.
func (a *Artifact) FileName() string {
	return a.Filename + a.Extension
}

// Saver is the save-as-file primitive the orchestrator hands finished
// artifacts to.
type Saver interface {
	Save(name string, data []byte) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(name string, data []byte) error

func (f SaverFunc) Save(name string, data []byte) error {
	return f(name, data)
}

// DirSaver writes artifacts into a directory. The write goes through a
// temporary file and a rename so a crash never leaves a truncated artifact
// under the final name.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("ensure output directory: %w", err)
	}

	target := filepath.Join(s.Dir, name)
	tmp, err := os.CreateTemp(s.Dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("finalize artifact: %w", err)
	}
	return nil
}

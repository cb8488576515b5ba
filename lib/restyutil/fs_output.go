package restyutil

import (
	"log/slog"
	devenv "olasagents-backend/dev/env"
	"os"
	"path/filepath"
)

// FilesystemOutput writes every instrumented exchange to its own file in a
// directory, named by message id.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears dir and returns an output writing into it, dir
// may start with <dev_state>.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	resolved, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.RemoveAll(resolved)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(resolved, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: resolved}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

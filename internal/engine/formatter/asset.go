package formatter

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"

	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/shared/util"
)

const WorkerFileName = "prettier-worker.mjs"

//go:embed worker/prettier-worker.mjs
var workerScript []byte

func WorkerScript() []byte {
	return append([]byte(nil), workerScript...)
}

// MaterializeWorker writes the embedded worker into dir unless an identical
// copy is already there, and returns its path.
func MaterializeWorker(dir string) (string, error) {
	path := filepath.Join(dir, WorkerFileName)
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, workerScript) {
		return path, nil
	}
	if err := util.WriteFileWithDirs(path, workerScript, 0o644); err != nil {
		return "", errors.Wrap(err, errors.CodeFormatter, "materialize worker")
	}
	return path, nil
}

// DefaultCommand is the node invocation used when no command is configured.
func DefaultCommand(scriptPath string) []string {
	return []string{"node", scriptPath}
}

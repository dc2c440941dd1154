package utils

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DirCheckResult represents the result of dir checks
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// WriteFileAtomic writes through write into a temp file next to path and
// renames it over path, so readers never see a half written file.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SaveTOMLFile saves a struct to a TOML file
func SaveTOMLFile(data any, filePath string) error {
	err := WriteFileAtomic(filePath, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(data)
	})
	if err != nil {
		log.Errorf("Failed to write %s: %v", filePath, err)
	}
	return err
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(configPath string) string {
	if configPath == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		return abs
	}
	return configPath
}

// GetExecutableDir returns the directory of the current executable.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus creates dirPath if needed and probes it for writes.
func CheckDirStatus(dirPath string) DirCheckResult {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		log.Warnf("Cannot create directory %s: %v", dirPath, err)
		return DirCheckResult{Error: err}
	}
	result := DirCheckResult{Exists: true}
	probe, err := os.CreateTemp(dirPath, ".write_test*")
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dirPath, err)
		result.Error = err
		return result
	}
	probe.Close()
	os.Remove(probe.Name())
	result.Writable = true
	return result
}

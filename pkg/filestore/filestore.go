// Package filestore maps object names to files in a flat directory.
//
// Each object is stored as {dir}/{name}.{ext}, where the extension comes
// from the codec. The directory has no index: membership is whatever
// matches the extension when it is listed.
package filestore

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/constants"
	"github.com/agentstation/nbctx/pkg/errors"
)

// Store reads and writes context files in one directory.
type Store struct {
	dir   string
	codec codec.Codec
}

// File is a context file found on disk.
type File struct {
	Name string // object name, the file stem
	Path string
	Data []byte
}

// New returns a store for dir. The directory must already exist.
func New(dir string, c codec.Codec) (*Store, error) {
	if c == nil {
		return nil, errors.NewConfigError("codec", "no codec configured", nil)
	}
	if dir == "" {
		return nil, errors.NewConfigError("directory", "no directory given", nil)
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError("directory", fmt.Sprintf("%s does not exist", dir), err)
		}
		return nil, errors.NewConfigError("directory", fmt.Sprintf("cannot access %s", dir), err)
	}
	if !info.IsDir() {
		return nil, errors.NewConfigError("directory", fmt.Sprintf("%s is not a directory", dir), nil)
	}
	return &Store{dir: dir, codec: c}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Extension returns the file extension without the dot.
func (s *Store) Extension() string { return s.codec.Extension() }

// Codec returns the codec files are rendered with.
func (s *Store) Codec() codec.Codec { return s.codec }

// Path returns the file path for name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+"."+s.codec.Extension())
}

// Name returns the object name for a file path.
func (s *Store) Name(path string) string {
	return strings.TrimSuffix(filepath.Base(path), "."+s.codec.Extension())
}

// Write renders value and writes it to the file for name, replacing any
// existing content.
func (s *Store) Write(name string, value codec.Value) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	data, err := s.codec.Encode(value)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}
	path := s.Path(name)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}

// ReadAll lists the directory and yields every file with the store's
// extension, in lexical order. Each call lists the directory again.
// Iteration stops after the first error.
func (s *Store) ReadAll() iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		paths, err := s.list()
		if err != nil {
			yield(File{}, err)
			return
		}
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				yield(File{Path: path, Name: s.Name(path)}, errors.WrapIO("read", path, err))
				return
			}
			if !yield(File{Name: s.Name(path), Path: path, Data: data}, nil) {
				return
			}
		}
	}
}

func (s *Store) list() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.WrapIO("list", s.dir, err)
	}
	suffix := "." + s.codec.Extension()
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, suffix) || name == suffix {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// ValidateName rejects names that cannot be stored as a single file in
// the directory.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.NewValidationError("name", name, "object name is empty")
	case name == "." || name == "..":
		return errors.NewValidationError("name", name, "object name is a relative path")
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator):
		return errors.NewValidationError("name", name, "object name contains a path separator")
	case strings.ContainsRune(name, 0):
		return errors.NewValidationError("name", name, "object name contains a NUL byte")
	}
	return nil
}

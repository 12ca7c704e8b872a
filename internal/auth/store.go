package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	sessionDirPerm  = 0o700
	sessionFilePerm = 0o600
)

// FileStore keeps the session in a YAML file readable only by the owner.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultSessionPath returns the session file location under the user config directory.
func DefaultSessionPath(app string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, app, "session.yaml"), nil
}

func (s *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, nil
	}

	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decoding session file %q: %w", s.Path, err)
	}

	if session.AccessToken == "" {
		return nil, nil
	}

	return &session, nil
}

func (s *FileStore) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), sessionDirPerm); err != nil {
		return err
	}

	data, err := yaml.Marshal(session)
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, sessionFilePerm)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

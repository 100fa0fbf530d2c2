package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	sessionFile = "session.json"
	themeFile   = "theme"
)

// Storage persists the session and theme preference under a state
// directory, one small file per value.
type Storage struct {
	dir string
}

// NewStorage returns a Storage rooted at dir, creating it if needed.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		return nil, errors.New("storage: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Storage{dir: dir}, nil
}

// DefaultStorage places the state directory under the user config dir,
// e.g. ~/.config/uptask.
func DefaultStorage() (*Storage, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStorage(filepath.Join(base, "uptask"))
}

// SaveSession writes the session to disk.
func (s *Storage) SaveSession(session Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return s.writeFile(sessionFile, data, 0o600)
}

// LoadSession reads the persisted session. A missing file yields a
// zero Session and no error.
func (s *Storage) LoadSession() (Session, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// ClearSession removes the persisted session if any.
func (s *Storage) ClearSession() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SaveTheme persists the theme preference.
func (s *Storage) SaveTheme(theme Theme) error {
	return s.writeFile(themeFile, []byte(theme), 0o600)
}

// LoadTheme reads the persisted theme. A missing file yields an empty
// theme and no error.
func (s *Storage) LoadTheme() (Theme, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, themeFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return Theme(strings.TrimSpace(string(data))), nil
}

// writeFile writes atomically via a temp file in the same directory.
func (s *Storage) writeFile(name string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}

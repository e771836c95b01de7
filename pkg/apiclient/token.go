package apiclient

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore 保存登录后的 Access Token
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// DefaultTokenPath ~/.presensi/token
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".presensi", "token")
	}
	return filepath.Join(home, ".presensi", "token")
}

// FileTokenStore 文件存储，跨命令行调用保持登录状态
type FileTokenStore struct {
	Path string
}

// NewFileTokenStore path 为空时使用 DefaultTokenPath
func NewFileTokenStore(path string) *FileTokenStore {
	if path == "" {
		path = DefaultTokenPath()
	}
	return &FileTokenStore{Path: path}
}

// Load 文件不存在时返回空 Token
func (s *FileTokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore 进程内存储
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save("")
}

package filestorage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yigit/school/internal/pkg/logger"
)

const (
	avatarSuffix = "_avatar"
	defaultExt   = ".bin"
)

// AvatarFileName is the one naming rule shared by the write and read paths: <studentID>_avatar<ext>
func AvatarFileName(studentID int64, ext string) string {
	return strconv.FormatInt(studentID, 10) + avatarSuffix + normalizeExt(ext)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if len(ext) < 2 || strings.ContainsAny(ext[1:], `./\`) {
		return defaultExt
	}
	return ext
}

func avatarPrefix(studentID int64) string {
	return strconv.FormatInt(studentID, 10) + avatarSuffix + "."
}

// LocalStorage handles saving avatar files to the local filesystem.
type LocalStorage struct {
	basePath string

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath if it does not exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		locks:    make(map[int64]*sync.Mutex),
	}, nil
}

// BasePath returns the storage root
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// studentLock returns the mutex guarding every avatar file of studentID
func (ls *LocalStorage) studentLock(studentID int64) *sync.Mutex {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	l, ok := ls.locks[studentID]
	if !ok {
		l = &sync.Mutex{}
		ls.locks[studentID] = l
	}
	return l
}

// Lock takes the lock guarding every avatar file of studentID and returns its release function.
func (ls *LocalStorage) Lock(studentID int64) func() {
	l := ls.studentLock(studentID)
	l.Lock()
	return l.Unlock
}

// Save writes data to a temporary file and renames it into place, so readers never see a partial
// avatar. Files of the same student with another extension are removed afterwards.
// The caller must hold Lock(studentID).
func (ls *LocalStorage) Save(studentID int64, ext string, data []byte) (*StoredFile, error) {
	fileName := AvatarFileName(studentID, ext)
	dstPath := filepath.Join(ls.basePath, fileName)

	if err := os.MkdirAll(ls.basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", ls.basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmpPath := filepath.Join(ls.basePath, "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", tmpPath).Msg("Failed to write avatar file")
		return nil, fmt.Errorf("failed to write avatar file: %w", err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move avatar file into place")
		return nil, fmt.Errorf("failed to move avatar file into place: %w", err)
	}

	stale, err := ls.matches(studentID)
	if err == nil {
		for _, p := range stale {
			if p != dstPath {
				_ = os.Remove(p)
			}
		}
	}

	logger.Info().Int64("studentID", studentID).Str("path", dstPath).Int("size", len(data)).Msg("Avatar file saved")
	return &StoredFile{
		Path:     dstPath,
		FileName: fileName,
		FileSize: int64(len(data)),
	}, nil
}

// matches lists every file named <studentID>_avatar.* in the storage root
func (ls *LocalStorage) matches(studentID int64) ([]string, error) {
	entries, err := os.ReadDir(ls.basePath)
	if err != nil {
		return nil, err
	}

	prefix := avatarPrefix(studentID)
	var paths []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasPrefix(entry.Name(), prefix) {
			paths = append(paths, filepath.Join(ls.basePath, entry.Name()))
		}
	}
	return paths, nil
}

// Find returns the path of the student's avatar file
func (ls *LocalStorage) Find(studentID int64) (string, error) {
	paths, err := ls.matches(studentID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to list storage directory: %w", err)
	}
	if len(paths) == 0 {
		return "", ErrFileNotFound
	}
	return paths[0], nil
}

// Read returns the student's avatar bytes and the path they were read from
func (ls *LocalStorage) Read(studentID int64) ([]byte, string, error) {
	l := ls.studentLock(studentID)
	l.Lock()
	defer l.Unlock()

	path, err := ls.Find(studentID)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrFileNotFound
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to read avatar file")
		return nil, "", fmt.Errorf("failed to read avatar file: %w", err)
	}
	return data, path, nil
}

// Remove deletes every avatar file of studentID. The caller must hold Lock(studentID).
func (ls *LocalStorage) Remove(studentID int64) error {
	paths, err := ls.matches(studentID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to list storage directory: %w", err)
	}
	for _, p := range paths {
		if err := ls.DeleteFile(p); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFile removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
// Avatar files must only be deleted under Lock of their student.
func (ls *LocalStorage) DeleteFile(path string) error {
	if path == "" {
		return nil
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", path).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", path).Msg("File deleted successfully")
	return nil
}

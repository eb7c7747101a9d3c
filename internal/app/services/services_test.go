package services

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/yigit/school/internal/app/repositories"
	"github.com/yigit/school/internal/pkg/filestorage"
)

// syncBuffer is a goroutine-safe writer that signals every completed line
type syncBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	lines chan struct{}
}

func newSyncBuffer() *syncBuffer {
	return &syncBuffer{lines: make(chan struct{}, 64)}
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	n, err := b.buf.Write(p)
	b.mu.Unlock()
	for _, c := range p {
		if c == '\n' {
			b.lines <- struct{}{}
		}
	}
	return n, err
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixture struct {
	ctx      context.Context
	repos    *repositories.Repositories
	storage  *filestorage.LocalStorage
	services *Services
	out      *syncBuffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	storage, err := filestorage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	repos := repositories.NewMemoryRepositories()
	out := newSyncBuffer()
	return &fixture{
		ctx:      context.Background(),
		repos:    repos,
		storage:  storage,
		services: NewServices(repos, storage, "8080", out),
		out:      out,
	}
}

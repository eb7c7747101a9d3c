package filestorage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestAvatarFileName(t *testing.T) {
	cases := []struct {
		ext  string
		want string
	}{
		{".jpg", "7_avatar.jpg"},
		{"PNG", "7_avatar.png"},
		{"", "7_avatar.bin"},
		{".", "7_avatar.bin"},
		{"../x", "7_avatar.bin"},
	}
	for _, tc := range cases {
		if got := AvatarFileName(7, tc.ext); got != tc.want {
			t.Errorf("AvatarFileName(7, %q) = %q, want %q", tc.ext, got, tc.want)
		}
	}
}

func TestSaveThenRead(t *testing.T) {
	ls, err := NewLocalStorage(filepath.Join(t.TempDir(), "nested", "avatars"))
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	content := []byte("avatar-bytes")
	stored, err := ls.Save(3, ".jpg", content)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if stored.FileName != "3_avatar.jpg" || stored.FileSize != int64(len(content)) {
		t.Fatalf("unexpected stored file: %+v", stored)
	}

	data, path, err := ls.Read(3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Fatalf("content mismatch: %q", data)
	}
	if path != stored.Path {
		t.Fatalf("read path %q, saved path %q", path, stored.Path)
	}
}

func TestSaveReplacesOtherExtension(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ls.Save(1, ".png", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if _, err := ls.Save(1, ".jpg", []byte("new")); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(ls.BasePath(), "1_avatar.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected old png to be removed, stat err = %v", err)
	}
	data, _, err := ls.Read(1)
	if err != nil || string(data) != "new" {
		t.Fatalf("Read = %q, %v", data, err)
	}
}

func TestReadDoesNotMatchOtherStudents(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ls.Save(11, ".jpg", []byte("eleven")); err != nil {
		t.Fatal(err)
	}

	if _, _, err := ls.Read(1); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestConcurrentSavesLeaveOneCompleteFile(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	payloads := [][]byte{
		bytes.Repeat([]byte("a"), 64<<10),
		bytes.Repeat([]byte("b"), 64<<10),
		bytes.Repeat([]byte("c"), 64<<10),
	}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p []byte) {
			defer wg.Done()
			unlock := ls.Lock(5)
			defer unlock()
			if _, err := ls.Save(5, ".jpg", p); err != nil {
				t.Errorf("Save: %v", err)
			}
		}(p)
	}
	wg.Wait()

	data, _, err := ls.Read(5)
	if err != nil {
		t.Fatal(err)
	}
	matched := false
	for _, p := range payloads {
		if bytes.Equal(data, p) {
			matched = true
		}
	}
	if !matched {
		t.Fatal("file content is an interleaving of several writes")
	}

	entries, err := os.ReadDir(ls.BasePath())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single file, found %d", len(entries))
	}
}

func TestDeleteFileMissingIsNoop(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := ls.DeleteFile(filepath.Join(ls.BasePath(), "ghost.jpg")); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if err := ls.DeleteFile(""); err != nil {
		t.Fatalf("DeleteFile empty: %v", err)
	}
}

func TestRemoveDeletesOnlyThatStudent(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []int64{2, 21} {
		if _, err := ls.Save(id, ".png", []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	unlock := ls.Lock(2)
	err = ls.Remove(2)
	unlock()
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := ls.Read(2); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound after Remove, got %v", err)
	}
	if _, _, err := ls.Read(21); err != nil {
		t.Fatalf("student 21 lost its file: %v", err)
	}

	unlock = ls.Lock(2)
	defer unlock()
	if err := ls.Remove(2); err != nil {
		t.Fatalf("Remove with nothing on disk: %v", err)
	}
}

package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/yigit/school/internal/app/models"
	"github.com/yigit/school/internal/app/repositories"
	"github.com/yigit/school/internal/pkg/apperrors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSaveAvatarRoundTrip(t *testing.T) {
	f := newFixture(t)
	st, _ := f.services.StudentService.CreateStudent(f.ctx, "Harry", 11)
	data := []byte("x.jpg")

	saved, err := f.services.AvatarService.SaveAvatar(f.ctx, data, "x.jpg", "image/jpeg", st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if saved.FileSize != int64(len(data)) || saved.MediaType != "image/jpeg" {
		t.Fatalf("saved = %+v", saved)
	}
	if filepath.Base(saved.FilePath) != "1_avatar.jpg" {
		t.Fatalf("file name = %q", filepath.Base(saved.FilePath))
	}

	onDisk, err := os.ReadFile(filepath.Join(f.storage.BasePath(), "1_avatar.jpg"))
	if err != nil || !bytes.Equal(onDisk, data) {
		t.Fatalf("file on disk = %q, %v", onDisk, err)
	}

	byStudent, err := f.services.AvatarService.GetAvatarByStudentID(f.ctx, st.ID)
	if err != nil || !bytes.Equal(byStudent.Data, data) {
		t.Fatalf("by student = %+v, %v", byStudent, err)
	}

	fromDisk, _, err := f.services.AvatarService.GetAvatarFromFileSystem(f.ctx, st.ID)
	if err != nil || !bytes.Equal(fromDisk, data) {
		t.Fatalf("from file system = %q, %v", fromDisk, err)
	}
}

func TestSaveAvatarMissingStudent(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.AvatarService.SaveAvatar(f.ctx, []byte("img"), "a.png", "image/png", 77)
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}

	entries, _ := os.ReadDir(f.storage.BasePath())
	if len(entries) != 0 {
		t.Fatalf("no file may be written for a missing student, found %d", len(entries))
	}
}

func TestSaveAvatarRejectsEmptyFile(t *testing.T) {
	f := newFixture(t)
	st, _ := f.services.StudentService.CreateStudent(f.ctx, "Ron", 11)

	if _, err := f.services.AvatarService.SaveAvatar(f.ctx, nil, "a.png", "image/png", st.ID); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestReuploadReplacesAvatar(t *testing.T) {
	f := newFixture(t)
	st, _ := f.services.StudentService.CreateStudent(f.ctx, "Hermione", 12)
	svc := f.services.AvatarService

	first, err := svc.SaveAvatar(f.ctx, []byte("first"), "a.jpg", "image/jpeg", st.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.SaveAvatar(f.ctx, pngBytes(t, 4, 4), "b.png", "image/png", st.ID)
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != second.ID {
		t.Fatalf("re-upload changed the avatar id: %d -> %d", first.ID, second.ID)
	}
	entries, _ := os.ReadDir(f.storage.BasePath())
	if len(entries) != 1 || entries[0].Name() != "1_avatar.png" {
		t.Fatalf("files after re-upload: %v", entries)
	}

	_, mediaType, err := svc.GetAvatarFromFileSystem(f.ctx, st.ID)
	if err != nil || mediaType != "image/png" {
		t.Fatalf("media type from disk = %q, %v", mediaType, err)
	}
}

func TestSaveAvatarSniffsContentType(t *testing.T) {
	f := newFixture(t)
	st, _ := f.services.StudentService.CreateStudent(f.ctx, "Ginny", 10)

	saved, err := f.services.AvatarService.SaveAvatar(f.ctx, pngBytes(t, 2, 2), "", "", st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if saved.MediaType != "image/png" || filepath.Ext(saved.FilePath) != ".png" {
		t.Fatalf("sniffed avatar = %+v", saved)
	}
}

func TestAvatarNotFound(t *testing.T) {
	f := newFixture(t)
	svc := f.services.AvatarService

	if _, err := svc.GetAvatarByID(f.ctx, 1); !errors.Is(err, apperrors.ErrAvatarNotFound) {
		t.Fatalf("by id: %v", err)
	}
	if _, err := svc.GetAvatarByStudentID(f.ctx, 1); !errors.Is(err, apperrors.ErrAvatarNotFound) {
		t.Fatalf("by student: %v", err)
	}
	if _, _, err := svc.GetAvatarFromFileSystem(f.ctx, 1); !errors.Is(err, apperrors.ErrAvatarNotFound) {
		t.Fatalf("from disk: %v", err)
	}
}

func TestGetAvatarsPage(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		st, _ := f.services.StudentService.CreateStudent(f.ctx, "s", 10)
		if _, err := f.services.AvatarService.SaveAvatar(f.ctx, []byte("data"), "a.jpg", "image/jpeg", st.ID); err != nil {
			t.Fatal(err)
		}
	}

	page, err := f.services.AvatarService.GetAvatarsPage(f.ctx, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || page.Page != 2 || page.Size != 2 || len(page.Items) != 1 || page.Items[0].ID != 3 {
		t.Fatalf("page = %+v", page)
	}

	page, _ = f.services.AvatarService.GetAvatarsPage(f.ctx, 0, 0)
	if page.Page != 1 || len(page.Items) != 3 {
		t.Fatalf("defaults not applied: %+v", page)
	}
}

func TestGetAvatarPreview(t *testing.T) {
	f := newFixture(t)
	st, _ := f.services.StudentService.CreateStudent(f.ctx, "Luna", 11)
	svc := f.services.AvatarService

	avatar, err := svc.SaveAvatar(f.ctx, pngBytes(t, 64, 32), "luna.png", "image/png", st.ID)
	if err != nil {
		t.Fatal(err)
	}

	preview, mediaType, err := svc.GetAvatarPreview(f.ctx, avatar.ID, 16, "jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if mediaType != "image/jpeg" {
		t.Fatalf("media type = %q", mediaType)
	}
	img, err := jpeg.Decode(bytes.NewReader(preview))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Fatalf("preview is %dx%d, want 16x8", b.Dx(), b.Dy())
	}

	if _, _, err := svc.GetAvatarPreview(f.ctx, avatar.ID, 16, "gif"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("unknown format: %v", err)
	}

	other, _ := f.services.StudentService.CreateStudent(f.ctx, "Neville", 11)
	text, _ := svc.SaveAvatar(f.ctx, []byte("not an image"), "n.txt", "text/plain", other.ID)
	if _, _, err := svc.GetAvatarPreview(f.ctx, text.ID, 16, ""); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("non-image avatar: %v", err)
	}
}

// failingAvatarRepo fails every Save after the file has been written
type failingAvatarRepo struct {
	repositories.AvatarRepository
}

func (failingAvatarRepo) Save(context.Context, *models.Avatar) (*models.Avatar, error) {
	return nil, errors.New("database unavailable")
}

func TestSaveAvatarRollsBackFile(t *testing.T) {
	f := newFixture(t)
	st, _ := f.services.StudentService.CreateStudent(f.ctx, "Percy", 15)

	svc := NewAvatarService(failingAvatarRepo{f.repos.AvatarRepository}, f.repos.StudentRepository, f.storage)
	if _, err := svc.SaveAvatar(f.ctx, []byte("new"), "p.jpg", "image/jpeg", st.ID); err == nil {
		t.Fatal("expected an error")
	}
	entries, _ := os.ReadDir(f.storage.BasePath())
	if len(entries) != 0 {
		t.Fatalf("orphaned file left behind: %v", entries)
	}
}

func TestSaveAvatarRestoresPreviousFile(t *testing.T) {
	f := newFixture(t)
	st, _ := f.services.StudentService.CreateStudent(f.ctx, "Fred", 15)
	if _, err := f.services.AvatarService.SaveAvatar(f.ctx, []byte("old"), "f.jpg", "image/jpeg", st.ID); err != nil {
		t.Fatal(err)
	}

	svc := NewAvatarService(failingAvatarRepo{f.repos.AvatarRepository}, f.repos.StudentRepository, f.storage)
	if _, err := svc.SaveAvatar(f.ctx, pngBytes(t, 2, 2), "f.png", "image/png", st.ID); err == nil {
		t.Fatal("expected an error")
	}

	data, _, err := f.services.AvatarService.GetAvatarFromFileSystem(f.ctx, st.ID)
	if err != nil || string(data) != "old" {
		t.Fatalf("previous file not restored: %q, %v", data, err)
	}
	entries, _ := os.ReadDir(f.storage.BasePath())
	if len(entries) != 1 || entries[0].Name() != "1_avatar.jpg" {
		t.Fatalf("files after rollback: %v", entries)
	}
}

// gatedAvatarRepo parks the first Save until release is closed; failFirst makes that Save fail
type gatedAvatarRepo struct {
	repositories.AvatarRepository
	failFirst bool
	once      sync.Once
	entered   chan struct{}
	release   chan struct{}
}

func newGatedAvatarRepo(inner repositories.AvatarRepository, failFirst bool) *gatedAvatarRepo {
	return &gatedAvatarRepo{
		AvatarRepository: inner,
		failFirst:        failFirst,
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
}

func (g *gatedAvatarRepo) Save(ctx context.Context, avatar *models.Avatar) (*models.Avatar, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
		if g.failFirst {
			return nil, errors.New("database unavailable")
		}
	}
	return g.AvatarRepository.Save(ctx, avatar)
}

// runBehindGate starts first, waits until it reaches the record write, then starts second and
// checks that second stays blocked until the gate opens. It returns the error of second.
func runBehindGate(t *testing.T, gate *gatedAvatarRepo, first, second func() error) error {
	t.Helper()

	firstErr := make(chan error, 1)
	go func() { firstErr <- first() }()
	<-gate.entered

	secondErr := make(chan error, 1)
	go func() { secondErr <- second() }()

	select {
	case err := <-secondErr:
		close(gate.release)
		<-firstErr
		t.Fatalf("second upload finished while the first one held the student (err=%v)", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(gate.release)
	<-firstErr
	return <-secondErr
}

func TestSaveAvatarConcurrentReuploadKeepsRecordAndFileInStep(t *testing.T) {
	f := newFixture(t)
	st, _ := f.services.StudentService.CreateStudent(f.ctx, "George", 15)
	gate := newGatedAvatarRepo(f.repos.AvatarRepository, false)
	svc := NewAvatarService(gate, f.repos.StudentRepository, f.storage)
	png := pngBytes(t, 2, 2)

	err := runBehindGate(t, gate,
		func() error {
			_, err := svc.SaveAvatar(f.ctx, []byte("first"), "a.jpg", "image/jpeg", st.ID)
			return err
		},
		func() error {
			_, err := svc.SaveAvatar(f.ctx, png, "b.png", "image/png", st.ID)
			return err
		})
	if err != nil {
		t.Fatal(err)
	}

	avatar, err := svc.GetAvatarByStudentID(f.ctx, st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(avatar.FilePath); err != nil {
		t.Fatalf("record points at %s: %v", avatar.FilePath, err)
	}
	if filepath.Base(avatar.FilePath) != "1_avatar.png" || avatar.MediaType != "image/png" {
		t.Fatalf("last upload did not win: %+v", avatar)
	}
	entries, _ := os.ReadDir(f.storage.BasePath())
	if len(entries) != 1 {
		t.Fatalf("files on disk: %v", entries)
	}
}

func TestSaveAvatarRollbackDoesNotRemoveConcurrentUpload(t *testing.T) {
	f := newFixture(t)
	st, _ := f.services.StudentService.CreateStudent(f.ctx, "Bill", 20)
	gate := newGatedAvatarRepo(f.repos.AvatarRepository, true)
	svc := NewAvatarService(gate, f.repos.StudentRepository, f.storage)

	err := runBehindGate(t, gate,
		func() error {
			_, err := svc.SaveAvatar(f.ctx, []byte("doomed"), "a.jpg", "image/jpeg", st.ID)
			return err
		},
		func() error {
			_, err := svc.SaveAvatar(f.ctx, []byte("kept"), "b.jpg", "image/jpeg", st.ID)
			return err
		})
	if err != nil {
		t.Fatal(err)
	}

	data, _, err := svc.GetAvatarFromFileSystem(f.ctx, st.ID)
	if err != nil || string(data) != "kept" {
		t.Fatalf("file after rollback and re-upload = %q, %v", data, err)
	}
	avatar, err := svc.GetAvatarByStudentID(f.ctx, st.ID)
	if err != nil || string(avatar.Data) != "kept" {
		t.Fatalf("record = %+v, %v", avatar, err)
	}
}

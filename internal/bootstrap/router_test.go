package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/school/internal/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, seed bool) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Port = "8080"
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverMemory
	cfg.Storage.AvatarsDir = t.TempDir()
	cfg.Storage.MaxUploadSize = 1 << 20
	cfg.Seed.Enabled = seed

	lgr := zerolog.Nop()
	deps, err := BuildDependencies(context.Background(), cfg, nil, lgr, io.Discard)
	if err != nil {
		t.Fatalf("BuildDependencies: %v", err)
	}
	return &testServer{t: t, router: SetupRouter(cfg, deps, lgr)}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// expect performs a request, asserts the status and decodes the envelope's data into out
func (s *testServer) expect(method, path string, body any, status int, out any) envelope {
	s.t.Helper()

	w := s.do(method, path, body)
	if w.Code != status {
		s.t.Fatalf("%s %s: status %d, want %d; body %s", method, path, w.Code, status, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: decoding %q: %v", method, path, w.Body.String(), err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("%s %s: decoding data %s: %v", method, path, env.Data, err)
		}
	}
	return env
}

type facultyBody struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type studentBody struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	FacultyID *int64 `json:"facultyId"`
}

func TestPing(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(http.MethodGet, "/ping", nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"store":"memory"`)) {
		t.Fatalf("ping = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("request id header missing")
	}
}

func TestSeededFaculties(t *testing.T) {
	s := newTestServer(t, true)
	var faculties []facultyBody
	s.expect(http.MethodGet, "/faculty", nil, http.StatusOK, &faculties)
	if len(faculties) != 4 {
		t.Fatalf("seeded %d faculties, want 4", len(faculties))
	}
}

func TestFacultyCRUD(t *testing.T) {
	s := newTestServer(t, false)

	var created facultyBody
	s.expect(http.MethodPost, "/faculty", map[string]string{"name": "Gryffindor", "color": "red"}, http.StatusCreated, &created)
	if created.ID != 1 || created.Name != "Gryffindor" {
		t.Fatalf("created = %+v", created)
	}

	var got facultyBody
	s.expect(http.MethodGet, "/faculty/1", nil, http.StatusOK, &got)
	if got != created {
		t.Fatalf("got %+v, want %+v", got, created)
	}

	var updated facultyBody
	s.expect(http.MethodPut, "/faculty/1", map[string]string{"name": "Gryffindor", "color": "scarlet"}, http.StatusOK, &updated)
	if updated.Color != "scarlet" || updated.ID != 1 {
		t.Fatalf("updated = %+v", updated)
	}

	var byColor []facultyBody
	s.expect(http.MethodGet, "/faculty/color/SCARLET", nil, http.StatusOK, &byColor)
	if len(byColor) != 1 {
		t.Fatalf("by color = %+v", byColor)
	}

	var found []facultyBody
	s.expect(http.MethodGet, "/faculty/search?searchTerm=ryff", nil, http.StatusOK, &found)
	if len(found) != 1 {
		t.Fatalf("search = %+v", found)
	}

	var longest struct {
		Name string `json:"name"`
	}
	s.expect(http.MethodGet, "/faculty/longest-name", nil, http.StatusOK, &longest)
	if longest.Name != "Gryffindor" {
		t.Fatalf("longest = %q", longest.Name)
	}

	s.expect(http.MethodDelete, "/faculty/1", nil, http.StatusOK, nil)
	env := s.expect(http.MethodGet, "/faculty/1", nil, http.StatusNotFound, nil)
	if env.Success || env.Error == nil || env.Error.Code != "RES_001" {
		t.Fatalf("error envelope = %+v", env)
	}
	if env.Error.Details["reason"] != "FACULTY_NOT_FOUND" {
		t.Fatalf("details = %v", env.Error.Details)
	}
}

func TestFacultyErrors(t *testing.T) {
	s := newTestServer(t, false)

	s.expect(http.MethodPut, "/faculty/9", map[string]string{"name": "x", "color": "y"}, http.StatusNotFound, nil)
	s.expect(http.MethodDelete, "/faculty/9", nil, http.StatusNotFound, nil)
	s.expect(http.MethodGet, "/faculty/abc", nil, http.StatusBadRequest, nil)
	s.expect(http.MethodGet, "/faculty/0", nil, http.StatusBadRequest, nil)
	s.expect(http.MethodGet, "/faculty/search", nil, http.StatusBadRequest, nil)
	s.expect(http.MethodPost, "/faculty", map[string]string{"name": "no color"}, http.StatusBadRequest, nil)
	s.expect(http.MethodPost, "/faculty", map[string]string{"name": "   ", "color": "red"}, http.StatusBadRequest, nil)

	var longest struct {
		Name string `json:"name"`
	}
	s.expect(http.MethodGet, "/faculty/longest-name", nil, http.StatusOK, &longest)
	if longest.Name != "" {
		t.Fatalf("longest name without faculties = %q", longest.Name)
	}
}

func TestStudentEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	var faculty facultyBody
	s.expect(http.MethodPost, "/faculty", map[string]string{"name": "Ravenclaw", "color": "blue"}, http.StatusCreated, &faculty)

	for i, age := range []int{11, 20, 25, 30, 31, 15} {
		s.expect(http.MethodPost, "/students", map[string]any{"name": fmt.Sprintf("A-student-%d", i), "age": age}, http.StatusCreated, nil)
	}

	var assigned studentBody
	s.expect(http.MethodPut, fmt.Sprintf("/students/1/faculty/%d", faculty.ID), nil, http.StatusOK, &assigned)
	if assigned.FacultyID == nil || *assigned.FacultyID != faculty.ID {
		t.Fatalf("assigned = %+v", assigned)
	}
	s.expect(http.MethodPut, "/students/99/faculty/1", nil, http.StatusNotFound, nil)
	s.expect(http.MethodPut, "/students/1/faculty/99", nil, http.StatusNotFound, nil)

	var facultyOf facultyBody
	s.expect(http.MethodGet, "/students/1/faculty", nil, http.StatusOK, &facultyOf)
	if facultyOf.ID != faculty.ID {
		t.Fatalf("faculty of student = %+v", facultyOf)
	}
	s.expect(http.MethodGet, "/students/2/faculty", nil, http.StatusNotFound, nil)

	var members []studentBody
	s.expect(http.MethodGet, fmt.Sprintf("/faculty/%d/students", faculty.ID), nil, http.StatusOK, &members)
	if len(members) != 1 || members[0].ID != 1 {
		t.Fatalf("members = %+v", members)
	}

	var inRange []studentBody
	s.expect(http.MethodGet, "/students/age/range?min=20&max=30", nil, http.StatusOK, &inRange)
	if len(inRange) != 3 {
		t.Fatalf("range = %+v", inRange)
	}
	s.expect(http.MethodGet, "/students/age/range?min=30&max=20", nil, http.StatusBadRequest, nil)
	s.expect(http.MethodGet, "/students/age/range?min=20", nil, http.StatusBadRequest, nil)

	var exact []studentBody
	s.expect(http.MethodGet, "/students/age/15", nil, http.StatusOK, &exact)
	if len(exact) != 1 {
		t.Fatalf("age 15 = %+v", exact)
	}

	var count struct {
		Count int64 `json:"count"`
	}
	s.expect(http.MethodGet, "/students/count", nil, http.StatusOK, &count)
	if count.Count != 6 {
		t.Fatalf("count = %d", count.Count)
	}

	var avg struct {
		Average float64 `json:"average"`
	}
	s.expect(http.MethodGet, "/students/average-age", nil, http.StatusOK, &avg)
	if avg.Average != 22 {
		t.Fatalf("average = %v", avg.Average)
	}

	var last []studentBody
	s.expect(http.MethodGet, "/students/last-five", nil, http.StatusOK, &last)
	if len(last) != 5 || last[0].ID != 6 || last[4].ID != 2 {
		t.Fatalf("last five = %+v", last)
	}

	var names []string
	s.expect(http.MethodGet, "/students/names-starting-with-a", nil, http.StatusOK, &names)
	if len(names) != 6 || names[0] != "A-STUDENT-0" {
		t.Fatalf("names = %v", names)
	}

	s.expect(http.MethodGet, "/students/print-parallel", nil, http.StatusOK, nil)
	s.expect(http.MethodGet, "/students/print-synchronized", nil, http.StatusOK, nil)

	var updated studentBody
	s.expect(http.MethodPut, "/students/1", map[string]any{"name": "Renamed", "age": 12}, http.StatusOK, &updated)
	if updated.Name != "Renamed" || updated.FacultyID == nil {
		t.Fatalf("updated = %+v", updated)
	}
	s.expect(http.MethodPut, "/students/99", map[string]any{"name": "x", "age": 1}, http.StatusNotFound, nil)
	s.expect(http.MethodPost, "/students", map[string]any{"name": "Neg", "age": -1}, http.StatusBadRequest, nil)

	s.expect(http.MethodDelete, "/students/1", nil, http.StatusOK, nil)
	s.expect(http.MethodDelete, "/students/1", nil, http.StatusNotFound, nil)
	s.expect(http.MethodGet, "/students/1", nil, http.StatusNotFound, nil)
}

func (s *testServer) upload(studentID, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	s.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("studentId", studentID); err != nil {
		s.t.Fatal(err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		s.t.Fatal(err)
	}
	_, _ = part.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/avatar/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestAvatarEndpoints(t *testing.T) {
	s := newTestServer(t, false)
	s.expect(http.MethodPost, "/students", map[string]any{"name": "Harry", "age": 11}, http.StatusCreated, nil)

	w := s.upload("1", "x.jpg", "image/jpeg", []byte("jpeg-bytes"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload = %d %s", w.Code, w.Body.String())
	}
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	var avatar struct {
		ID        int64  `json:"id"`
		StudentID int64  `json:"studentId"`
		FileSize  int64  `json:"fileSize"`
		MediaType string `json:"mediaType"`
	}
	_ = json.Unmarshal(env.Data, &avatar)
	if avatar.ID != 1 || avatar.StudentID != 1 || avatar.FileSize != 10 || avatar.MediaType != "image/jpeg" {
		t.Fatalf("avatar = %+v", avatar)
	}

	w = s.do(http.MethodGet, "/avatar/1", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/jpeg" || w.Body.String() != "jpeg-bytes" {
		t.Fatalf("avatar from db = %d %q %q", w.Code, w.Header().Get("Content-Type"), w.Body.String())
	}

	w = s.do(http.MethodGet, "/avatar/file/1", nil)
	if w.Code != http.StatusOK || w.Body.String() != "jpeg-bytes" {
		t.Fatalf("avatar from disk = %d %q", w.Code, w.Body.String())
	}

	var page struct {
		Items      []json.RawMessage `json:"items"`
		Pagination struct {
			TotalItems int64 `json:"totalItems"`
		} `json:"pagination"`
	}
	s.expect(http.MethodGet, "/avatar?page=1&size=10", nil, http.StatusOK, &page)
	if len(page.Items) != 1 || page.Pagination.TotalItems != 1 {
		t.Fatalf("page = %+v", page)
	}
	s.expect(http.MethodGet, "/avatar?page=4611686018427387905&size=10", nil, http.StatusOK, &page)
	if len(page.Items) != 0 || page.Pagination.TotalItems != 1 {
		t.Fatalf("oversized page = %+v", page)
	}

	if w := s.upload("42", "x.jpg", "image/jpeg", []byte("data")); w.Code != http.StatusNotFound {
		t.Fatalf("upload for missing student = %d", w.Code)
	}
	if w := s.upload("abc", "x.jpg", "image/jpeg", []byte("data")); w.Code != http.StatusBadRequest {
		t.Fatalf("upload with bad student id = %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/avatar/2", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing avatar = %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/avatar/file/2", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing avatar file = %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/avatar/1/preview", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("preview of a non-image = %d", w.Code)
	}
}

func TestInfoEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	var sum struct {
		Count int64 `json:"count"`
	}
	s.expect(http.MethodGet, "/sum-parallel", nil, http.StatusOK, &sum)
	if sum.Count != 500000500000 {
		t.Fatalf("sum = %d", sum.Count)
	}

	var port struct {
		Message string `json:"message"`
	}
	s.expect(http.MethodGet, "/port", nil, http.StatusOK, &port)
	if port.Message != "Application is running on port: 8080" {
		t.Fatalf("port = %q", port.Message)
	}
}

package repositories

import (
	"bytes"
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/yigit/school/internal/app/models"
	"github.com/yigit/school/internal/pkg/apperrors"
	"github.com/yigit/school/internal/pkg/helpers"
)

// MemoryStore is an arena holding every entity kind behind one lock. Ids come from per-kind
// counters that only grow, so a deleted id is never handed out again.
type MemoryStore struct {
	mu sync.RWMutex

	lastFacultyID int64
	lastStudentID int64
	lastAvatarID  int64

	faculties map[int64]*models.Faculty
	students  map[int64]*models.Student
	avatars   map[int64]*models.Avatar
}

// NewMemoryStore creates an empty arena
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		faculties: make(map[int64]*models.Faculty),
		students:  make(map[int64]*models.Student),
		avatars:   make(map[int64]*models.Avatar),
	}
}

// Faculties returns the faculty view of the arena
func (s *MemoryStore) Faculties() *MemoryFacultyRepository { return &MemoryFacultyRepository{s: s} }

// Students returns the student view of the arena
func (s *MemoryStore) Students() *MemoryStudentRepository { return &MemoryStudentRepository{s: s} }

// Avatars returns the avatar view of the arena
func (s *MemoryStore) Avatars() *MemoryAvatarRepository { return &MemoryAvatarRepository{s: s} }

func cloneFaculty(f *models.Faculty) *models.Faculty {
	c := *f
	return &c
}

func cloneStudent(st *models.Student) *models.Student {
	c := *st
	if st.FacultyID != nil {
		id := *st.FacultyID
		c.FacultyID = &id
	}
	return &c
}

func cloneAvatar(a *models.Avatar) *models.Avatar {
	c := *a
	c.Data = bytes.Clone(a.Data)
	return &c
}

// sortedValues returns copies of the map values that pass keep, in ascending id order
func sortedValues[T any](m map[int64]*T, keep func(*T) bool, clone func(*T) *T) []*T {
	out := []*T{}
	for _, id := range slices.Sorted(maps.Keys(m)) {
		if keep == nil || keep(m[id]) {
			out = append(out, clone(m[id]))
		}
	}
	return out
}

func pageOf[T any](all []*T, page, size int) ([]*T, int64) {
	start, end := helpers.CalculateSliceIndices(page, size, len(all))
	return all[start:end], int64(len(all))
}

// MemoryFacultyRepository implements FacultyRepository on a MemoryStore
type MemoryFacultyRepository struct {
	s *MemoryStore
}

func (r *MemoryFacultyRepository) Save(_ context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if faculty.ID == 0 {
		r.s.lastFacultyID++
		stored := cloneFaculty(faculty)
		stored.ID = r.s.lastFacultyID
		r.s.faculties[stored.ID] = stored
		return cloneFaculty(stored), nil
	}

	if _, ok := r.s.faculties[faculty.ID]; !ok {
		return nil, apperrors.ErrFacultyNotFound
	}
	stored := cloneFaculty(faculty)
	r.s.faculties[stored.ID] = stored
	return cloneFaculty(stored), nil
}

func (r *MemoryFacultyRepository) FindByID(_ context.Context, id int64) (*models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.faculties[id]
	if !ok {
		return nil, apperrors.ErrFacultyNotFound
	}
	return cloneFaculty(f), nil
}

func (r *MemoryFacultyRepository) FindAll(_ context.Context) ([]*models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.faculties, nil, cloneFaculty), nil
}

func (r *MemoryFacultyRepository) FindPage(ctx context.Context, page, size int) ([]*models.Faculty, int64, error) {
	all, _ := r.FindAll(ctx)
	items, total := pageOf(all, page, size)
	return items, total, nil
}

func (r *MemoryFacultyRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.faculties[id]
	return ok, nil
}

// DeleteByID removes the faculty and clears FacultyID on its students under the same lock
func (r *MemoryFacultyRepository) DeleteByID(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.faculties[id]; !ok {
		return nil
	}
	for _, st := range r.s.students {
		if st.FacultyID != nil && *st.FacultyID == id {
			st.FacultyID = nil
		}
	}
	delete(r.s.faculties, id)
	return nil
}

func (r *MemoryFacultyRepository) FindByColor(_ context.Context, color string) ([]*models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.faculties, func(f *models.Faculty) bool {
		return strings.EqualFold(f.Color, color)
	}, cloneFaculty), nil
}

func (r *MemoryFacultyRepository) SearchByNameOrColor(_ context.Context, term string) ([]*models.Faculty, error) {
	needle := strings.ToLower(term)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.faculties, func(f *models.Faculty) bool {
		return strings.Contains(strings.ToLower(f.Name), needle) ||
			strings.Contains(strings.ToLower(f.Color), needle)
	}, cloneFaculty), nil
}

// MemoryStudentRepository implements StudentRepository on a MemoryStore
type MemoryStudentRepository struct {
	s *MemoryStore
}

func (r *MemoryStudentRepository) Save(_ context.Context, student *models.Student) (*models.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if student.FacultyID != nil {
		if _, ok := r.s.faculties[*student.FacultyID]; !ok {
			return nil, apperrors.ErrFacultyNotFound
		}
	}

	stored := cloneStudent(student)
	if stored.ID == 0 {
		r.s.lastStudentID++
		stored.ID = r.s.lastStudentID
	} else if _, ok := r.s.students[stored.ID]; !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	r.s.students[stored.ID] = stored
	return cloneStudent(stored), nil
}

func (r *MemoryStudentRepository) FindByID(_ context.Context, id int64) (*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return cloneStudent(st), nil
}

func (r *MemoryStudentRepository) FindAll(_ context.Context) ([]*models.Student, error) {
	return r.filter(nil), nil
}

func (r *MemoryStudentRepository) FindPage(ctx context.Context, page, size int) ([]*models.Student, int64, error) {
	items, total := pageOf(r.filter(nil), page, size)
	return items, total, nil
}

func (r *MemoryStudentRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.students[id]
	return ok, nil
}

// DeleteByID removes the student together with its avatar record
func (r *MemoryStudentRepository) DeleteByID(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.students, id)
	for avatarID, a := range r.s.avatars {
		if a.StudentID == id {
			delete(r.s.avatars, avatarID)
		}
	}
	return nil
}

func (r *MemoryStudentRepository) FindByAge(_ context.Context, age int) ([]*models.Student, error) {
	return r.filter(func(st *models.Student) bool { return st.Age == age }), nil
}

func (r *MemoryStudentRepository) FindByAgeBetween(_ context.Context, minAge, maxAge int) ([]*models.Student, error) {
	return r.filter(func(st *models.Student) bool {
		return st.Age >= minAge && st.Age <= maxAge
	}), nil
}

func (r *MemoryStudentRepository) FindByFacultyID(_ context.Context, facultyID int64) ([]*models.Student, error) {
	return r.filter(func(st *models.Student) bool {
		return st.FacultyID != nil && *st.FacultyID == facultyID
	}), nil
}

func (r *MemoryStudentRepository) FindFacultyByStudentID(_ context.Context, studentID int64) (*models.Faculty, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.students[studentID]
	if !ok || st.FacultyID == nil {
		return nil, apperrors.ErrFacultyNotFound
	}
	f, ok := r.s.faculties[*st.FacultyID]
	if !ok {
		return nil, apperrors.ErrFacultyNotFound
	}
	return cloneFaculty(f), nil
}

func (r *MemoryStudentRepository) FindNamesStartingWith(_ context.Context, prefix string) ([]string, error) {
	lowered := strings.ToLower(prefix)

	names := []string{}
	for _, st := range r.filter(nil) {
		if strings.HasPrefix(strings.ToLower(st.Name), lowered) {
			names = append(names, st.Name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (r *MemoryStudentRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.students)), nil
}

func (r *MemoryStudentRepository) AverageAge(_ context.Context) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if len(r.s.students) == 0 {
		return 0, nil
	}
	var sum int64
	for _, st := range r.s.students {
		sum += int64(st.Age)
	}
	return float64(sum) / float64(len(r.s.students)), nil
}

func (r *MemoryStudentRepository) FindLastN(_ context.Context, n int) ([]*models.Student, error) {
	all := r.filter(nil)
	slices.SortFunc(all, func(a, b *models.Student) int { return cmp.Compare(b.ID, a.ID) })
	if n < 0 {
		n = 0
	}
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (r *MemoryStudentRepository) filter(keep func(*models.Student) bool) []*models.Student {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.students, keep, cloneStudent)
}

// MemoryAvatarRepository implements AvatarRepository on a MemoryStore
type MemoryAvatarRepository struct {
	s *MemoryStore
}

func (r *MemoryAvatarRepository) Save(_ context.Context, avatar *models.Avatar) (*models.Avatar, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.students[avatar.StudentID]; !ok {
		return nil, apperrors.ErrStudentNotFound
	}

	stored := cloneAvatar(avatar)
	stored.ID = 0
	for id, existing := range r.s.avatars {
		if existing.StudentID == avatar.StudentID {
			stored.ID = id
			break
		}
	}
	if stored.ID == 0 {
		r.s.lastAvatarID++
		stored.ID = r.s.lastAvatarID
	}
	r.s.avatars[stored.ID] = stored
	return cloneAvatar(stored), nil
}

func (r *MemoryAvatarRepository) FindByID(_ context.Context, id int64) (*models.Avatar, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.avatars[id]
	if !ok {
		return nil, apperrors.ErrAvatarNotFound
	}
	return cloneAvatar(a), nil
}

func (r *MemoryAvatarRepository) FindByStudentID(_ context.Context, studentID int64) (*models.Avatar, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := sortedValues(r.s.avatars, func(a *models.Avatar) bool { return a.StudentID == studentID }, cloneAvatar)
	if len(matches) == 0 {
		return nil, apperrors.ErrAvatarNotFound
	}
	return matches[0], nil
}

func (r *MemoryAvatarRepository) FindAll(_ context.Context) ([]*models.Avatar, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.avatars, nil, cloneAvatar), nil
}

func (r *MemoryAvatarRepository) FindPage(ctx context.Context, page, size int) ([]*models.Avatar, int64, error) {
	all, _ := r.FindAll(ctx)
	items, total := pageOf(all, page, size)
	return items, total, nil
}

func (r *MemoryAvatarRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.avatars[id]
	return ok, nil
}

func (r *MemoryAvatarRepository) DeleteByID(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.avatars, id)
	return nil
}

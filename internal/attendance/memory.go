package attendance

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store for dev/testing. It has no foreign
// key enforcement of its own; Service performs the existence checks.
type MemoryStore struct {
	mu          sync.RWMutex
	departments []Department
	students    []Student
	courses     []Course
	logs        []AttendanceLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) ListDepartments(context.Context) ([]Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Department{}, m.departments...), nil
}

func (m *MemoryStore) InsertDepartment(_ context.Context, d Department) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = int64(len(m.departments) + 1)
	m.departments = append(m.departments, d)
	return d.ID, nil
}

func (m *MemoryStore) DepartmentExists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return id > 0 && id <= int64(len(m.departments)), nil
}

func (m *MemoryStore) ListStudents(context.Context) ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Student{}, m.students...), nil
}

func (m *MemoryStore) InsertStudent(_ context.Context, s Student) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = int64(len(m.students) + 1)
	m.students = append(m.students, s)
	return s.ID, nil
}

func (m *MemoryStore) StudentExists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return id > 0 && id <= int64(len(m.students)), nil
}

func (m *MemoryStore) ListCourses(context.Context) ([]Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Course{}, m.courses...), nil
}

func (m *MemoryStore) InsertCourse(_ context.Context, c Course) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = int64(len(m.courses) + 1)
	m.courses = append(m.courses, c)
	return c.ID, nil
}

func (m *MemoryStore) CourseExists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return id > 0 && id <= int64(len(m.courses)), nil
}

func (m *MemoryStore) ListAttendanceLogs(context.Context) ([]AttendanceLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]AttendanceLog{}, m.logs...), nil
}

func (m *MemoryStore) InsertAttendanceLog(_ context.Context, a AttendanceLog) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, a)
	return a.ID, nil
}

package attendance

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Store is the persistence the service needs; *Repository implements it.
type Store interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	InsertDepartment(ctx context.Context, d Department) (int64, error)
	DepartmentExists(ctx context.Context, id int64) (bool, error)

	ListStudents(ctx context.Context) ([]Student, error)
	InsertStudent(ctx context.Context, s Student) (int64, error)
	StudentExists(ctx context.Context, id int64) (bool, error)

	ListCourses(ctx context.Context) ([]Course, error)
	InsertCourse(ctx context.Context, c Course) (int64, error)
	CourseExists(ctx context.Context, id int64) (bool, error)

	ListAttendanceLogs(ctx context.Context) ([]AttendanceLog, error)
	InsertAttendanceLog(ctx context.Context, a AttendanceLog) (int64, error)
}

// Service validates create payloads, checks references and stamps the
// creator before handing rows to the store.
type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{store: store, validate: v, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) check(in any, caller string) error {
	if caller == "" {
		return ErrNoCaller
	}
	if err := s.validate.Struct(in); err != nil {
		return FromBindError(err)
	}
	return nil
}

func (s *Service) requireRef(ctx context.Context, field string, id int64, exists func(context.Context, int64) (bool, error)) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ReferenceError{Field: field, ID: id}
	}
	return nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, in DepartmentInput, caller string) (int64, error) {
	if err := s.check(in, caller); err != nil {
		return 0, err
	}
	return s.store.InsertDepartment(ctx, Department{
		DepartmentName: in.DepartmentName,
		SubmittedBy:    caller,
		UpdatedAt:      s.now(),
	})
}

func (s *Service) ListStudents(ctx context.Context) ([]Student, error) {
	return s.store.ListStudents(ctx)
}

// CreateStudent accepts a student without a department.
func (s *Service) CreateStudent(ctx context.Context, in StudentInput, caller string) (int64, error) {
	if err := s.check(in, caller); err != nil {
		return 0, err
	}
	if in.DepartmentID != nil {
		if err := s.requireRef(ctx, "department_id", *in.DepartmentID, s.store.DepartmentExists); err != nil {
			return 0, err
		}
	}
	return s.store.InsertStudent(ctx, Student{
		FullName:     in.FullName,
		DepartmentID: in.DepartmentID,
		Class:        in.Class,
		SubmittedBy:  caller,
		UpdatedAt:    s.now(),
	})
}

func (s *Service) ListCourses(ctx context.Context) ([]Course, error) {
	return s.store.ListCourses(ctx)
}

func (s *Service) CreateCourse(ctx context.Context, in CourseInput, caller string) (int64, error) {
	if err := s.check(in, caller); err != nil {
		return 0, err
	}
	if err := s.requireRef(ctx, "department_id", *in.DepartmentID, s.store.DepartmentExists); err != nil {
		return 0, err
	}
	return s.store.InsertCourse(ctx, Course{
		CourseName:   in.CourseName,
		DepartmentID: *in.DepartmentID,
		Semester:     in.Semester,
		Class:        in.Class,
		LectureHours: *in.LectureHours,
		SubmittedBy:  caller,
		UpdatedAt:    s.now(),
	})
}

func (s *Service) ListAttendanceLogs(ctx context.Context) ([]AttendanceLog, error) {
	return s.store.ListAttendanceLogs(ctx)
}

func (s *Service) RecordAttendance(ctx context.Context, in AttendanceInput, caller string) (int64, error) {
	if err := s.check(in, caller); err != nil {
		return 0, err
	}
	if err := s.requireRef(ctx, "student_id", *in.StudentID, s.store.StudentExists); err != nil {
		return 0, err
	}
	if err := s.requireRef(ctx, "course_id", *in.CourseID, s.store.CourseExists); err != nil {
		return 0, err
	}
	return s.store.InsertAttendanceLog(ctx, AttendanceLog{
		StudentID:   *in.StudentID,
		CourseID:    *in.CourseID,
		Present:     *in.Present,
		SubmittedBy: caller,
		UpdatedAt:   s.now(),
	})
}

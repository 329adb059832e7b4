package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore wraps MemoryStore and fails department calls with err.
type failingStore struct {
	*MemoryStore
	err error
}

func (f failingStore) ListDepartments(context.Context) ([]Department, error) {
	return nil, f.err
}

func (f failingStore) InsertDepartment(context.Context, Department) (int64, error) {
	return 0, f.err
}

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *MemoryStore) {
	st := NewMemoryStore()
	svc := NewService(st)
	svc.now = func() time.Time { return fixedNow }
	return svc, st
}

func TestCreateDepartmentStampsCaller(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	id, err := svc.CreateDepartment(ctx, DepartmentInput{DepartmentName: "CS"}, "1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	list, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CS", list[0].DepartmentName)
	assert.Equal(t, "1", list[0].SubmittedBy)
	assert.Equal(t, fixedNow, list[0].UpdatedAt)
	assert.Len(t, st.departments, 1)
}

func TestCreateRequiresCaller(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CreateDepartment(context.Background(), DepartmentInput{DepartmentName: "CS"}, "")
	assert.ErrorIs(t, err, ErrNoCaller)
}

func TestMissingFields(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()
	_, err := svc.CreateDepartment(ctx, DepartmentInput{DepartmentName: "CS"}, "1")
	require.NoError(t, err)

	cases := []struct {
		name  string
		call  func() error
		field string
	}{
		{"department name", func() error { _, err := svc.CreateDepartment(ctx, DepartmentInput{}, "1"); return err }, "department_name"},
		{"student full name", func() error {
			_, err := svc.CreateStudent(ctx, StudentInput{Class: "A"}, "1")
			return err
		}, "full_name"},
		{"student class", func() error {
			_, err := svc.CreateStudent(ctx, StudentInput{FullName: "Ada"}, "1")
			return err
		}, "class"},
		{"course hours", func() error {
			_, err := svc.CreateCourse(ctx, CourseInput{CourseName: "Go", DepartmentID: ptr[int64](1), Semester: "1", Class: "A"}, "1")
			return err
		}, "lecture_hours"},
		{"attendance present", func() error {
			_, err := svc.RecordAttendance(ctx, AttendanceInput{StudentID: ptr[int64](1), CourseID: ptr[int64](1)}, "1")
			return err
		}, "present"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, MissingField, ve.Kind)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
	assert.Len(t, st.students, 0)
	assert.Len(t, st.courses, 0)
}

func TestNegativeLectureHoursIsInvalid(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.CreateDepartment(ctx, DepartmentInput{DepartmentName: "CS"}, "1")
	require.NoError(t, err)

	_, err = svc.CreateCourse(ctx, CourseInput{CourseName: "Go", DepartmentID: ptr[int64](1), Semester: "1", Class: "A", LectureHours: ptr(-3)}, "1")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, InvalidValue, ve.Kind)
	assert.Equal(t, "lecture_hours", ve.Field)
}

func TestUnknownReferences(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	_, err := svc.CreateStudent(ctx, StudentInput{FullName: "Ada", Class: "A", DepartmentID: ptr[int64](9)}, "1")
	var re *ReferenceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "department_id", re.Field)
	assert.EqualValues(t, 9, re.ID)

	_, err = svc.CreateCourse(ctx, CourseInput{CourseName: "Go", DepartmentID: ptr[int64](1), Semester: "1", Class: "A", LectureHours: ptr(30)}, "1")
	require.ErrorAs(t, err, &re)

	_, err = svc.RecordAttendance(ctx, AttendanceInput{StudentID: ptr[int64](1), CourseID: ptr[int64](1), Present: ptr(true)}, "1")
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "student_id", re.Field)

	assert.Empty(t, st.students)
	assert.Empty(t, st.courses)
	assert.Empty(t, st.logs)
}

func TestFullFlowAndAbsentRecord(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	dept, err := svc.CreateDepartment(ctx, DepartmentInput{DepartmentName: "CS"}, "1")
	require.NoError(t, err)
	stu, err := svc.CreateStudent(ctx, StudentInput{FullName: "Ada", Class: "A", DepartmentID: &dept}, "2")
	require.NoError(t, err)
	_, err = svc.CreateStudent(ctx, StudentInput{FullName: "Bob", Class: "B"}, "2")
	require.NoError(t, err)
	course, err := svc.CreateCourse(ctx, CourseInput{CourseName: "Go", DepartmentID: &dept, Semester: "1", Class: "A", LectureHours: ptr(0)}, "1")
	require.NoError(t, err)
	_, err = svc.RecordAttendance(ctx, AttendanceInput{StudentID: &stu, CourseID: &course, Present: ptr(false)}, "3")
	require.NoError(t, err)

	students, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, dept, *students[0].DepartmentID)
	assert.Nil(t, students[1].DepartmentID)

	courses, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 0, courses[0].LectureHours)

	logs, err := svc.ListAttendanceLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Present)
	assert.Equal(t, "3", logs[0].SubmittedBy)
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(failingStore{MemoryStore: NewMemoryStore(), err: boom})

	_, err := svc.CreateDepartment(context.Background(), DepartmentInput{DepartmentName: "CS"}, "1")
	assert.ErrorIs(t, err, boom)
	_, err = svc.ListDepartments(context.Background())
	assert.ErrorIs(t, err, boom)
}

package attendance

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository persists departments, students, courses and attendance logs in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// -------- Departments --------

func (r *Repository) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, department_name, submitted_by, updated_at
		FROM departments ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Department{}
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.DepartmentName, &d.SubmittedBy, &d.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r *Repository) InsertDepartment(ctx context.Context, d Department) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO departments (department_name, submitted_by, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, d.DepartmentName, d.SubmittedBy, d.UpdatedAt)
}

func (r *Repository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "departments", id)
}

// -------- Students --------

func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, department_id, class, submitted_by, updated_at
		FROM students ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Student{}
	for rows.Next() {
		var s Student
		var dept sql.NullInt64
		if err := rows.Scan(&s.ID, &s.FullName, &dept, &s.Class, &s.SubmittedBy, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if dept.Valid {
			s.DepartmentID = &dept.Int64
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *Repository) InsertStudent(ctx context.Context, s Student) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO students (full_name, department_id, class, submitted_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, s.FullName, s.DepartmentID, s.Class, s.SubmittedBy, s.UpdatedAt)
}

func (r *Repository) StudentExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "students", id)
}

// -------- Courses --------

func (r *Repository) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, course_name, department_id, semester, class, lecture_hours, submitted_by, updated_at
		FROM courses ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.CourseName, &c.DepartmentID, &c.Semester, &c.Class, &c.LectureHours, &c.SubmittedBy, &c.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *Repository) InsertCourse(ctx context.Context, c Course) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO courses (course_name, department_id, semester, class, lecture_hours, submitted_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.CourseName, c.DepartmentID, c.Semester, c.Class, c.LectureHours, c.SubmittedBy, c.UpdatedAt)
}

func (r *Repository) CourseExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "courses", id)
}

// -------- Attendance logs --------

func (r *Repository) ListAttendanceLogs(ctx context.Context) ([]AttendanceLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, course_id, present, submitted_by, updated_at
		FROM attendance_logs ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []AttendanceLog{}
	for rows.Next() {
		var a AttendanceLog
		if err := rows.Scan(&a.ID, &a.StudentID, &a.CourseID, &a.Present, &a.SubmittedBy, &a.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *Repository) InsertAttendanceLog(ctx context.Context, a AttendanceLog) (int64, error) {
	return r.insert(ctx, `
		INSERT INTO attendance_logs (student_id, course_id, present, submitted_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, a.StudentID, a.CourseID, a.Present, a.SubmittedBy, a.UpdatedAt)
}

// -------- helpers --------

func (r *Repository) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fromStoreError(err)
	}
	return id, nil
}

// exists is only called with the fixed table names above.
func (r *Repository) exists(ctx context.Context, table string, id int64) (bool, error) {
	var ok bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ok)
	return ok, err
}

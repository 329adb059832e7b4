package attendance

import "time"

// Department groups students and courses.
type Department struct {
	ID             int64     `json:"id"`
	DepartmentName string    `json:"department_name"`
	SubmittedBy    string    `json:"submitted_by"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Student is an enrolled learner; DepartmentID may be unset.
type Student struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	DepartmentID *int64    `json:"department_id"`
	Class        string    `json:"class"`
	SubmittedBy  string    `json:"submitted_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Course struct {
	ID           int64     `json:"id"`
	CourseName   string    `json:"course_name"`
	DepartmentID int64     `json:"department_id"`
	Semester     string    `json:"semester"`
	Class        string    `json:"class"`
	LectureHours int       `json:"lecture_hours"`
	SubmittedBy  string    `json:"submitted_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AttendanceLog records whether a student attended a course session.
type AttendanceLog struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"student_id"`
	CourseID    int64     `json:"course_id"`
	Present     bool      `json:"present"`
	SubmittedBy string    `json:"submitted_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Create payloads. Pointer fields distinguish "absent" from zero values,
// and no payload carries submitted_by.

type DepartmentInput struct {
	DepartmentName string `json:"department_name" validate:"required"`
}

type StudentInput struct {
	FullName     string `json:"full_name" validate:"required"`
	DepartmentID *int64 `json:"department_id"`
	Class        string `json:"class" validate:"required"`
}

type CourseInput struct {
	CourseName   string `json:"course_name" validate:"required"`
	DepartmentID *int64 `json:"department_id" validate:"required"`
	Semester     string `json:"semester" validate:"required"`
	Class        string `json:"class" validate:"required"`
	LectureHours *int   `json:"lecture_hours" validate:"required,min=0"`
}

type AttendanceInput struct {
	StudentID *int64 `json:"student_id" validate:"required"`
	CourseID  *int64 `json:"course_id" validate:"required"`
	Present   *bool  `json:"present" validate:"required"`
}

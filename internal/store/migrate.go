package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// schema is idempotent; every statement can run against an existing database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           BIGSERIAL PRIMARY KEY,
		type         TEXT NOT NULL DEFAULT '',
		full_name    TEXT NOT NULL DEFAULT '',
		username     TEXT NOT NULL UNIQUE,
		email        TEXT NOT NULL DEFAULT '',
		password     TEXT NOT NULL,
		submitted_by TEXT NOT NULL DEFAULT '',
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS departments (
		id              BIGSERIAL PRIMARY KEY,
		department_name TEXT NOT NULL,
		submitted_by    TEXT NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id            BIGSERIAL PRIMARY KEY,
		full_name     TEXT NOT NULL,
		department_id BIGINT REFERENCES departments(id),
		class         TEXT NOT NULL,
		submitted_by  TEXT NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id            BIGSERIAL PRIMARY KEY,
		course_name   TEXT NOT NULL,
		department_id BIGINT NOT NULL REFERENCES departments(id),
		semester      TEXT NOT NULL,
		class         TEXT NOT NULL,
		lecture_hours INTEGER NOT NULL,
		submitted_by  TEXT NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_logs (
		id           BIGSERIAL PRIMARY KEY,
		student_id   BIGINT NOT NULL REFERENCES students(id),
		course_id    BIGINT NOT NULL REFERENCES courses(id),
		present      BOOLEAN NOT NULL,
		submitted_by TEXT NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_department ON students(department_id)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_department ON courses(department_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance_logs(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_course ON attendance_logs(course_id)`,
}

// Migrate creates any missing tables and indexes.
func Migrate(ctx context.Context, db *sql.DB) error {
	log.Println("running database migrations")
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	log.Println("database migrations completed")
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"cppquiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// StudentDirectory resolves registration numbers against the students table.
type StudentDirectory struct {
	pool *pgxpool.Pool
}

func NewStudentDirectory(pool *pgxpool.Pool) *StudentDirectory {
	return &StudentDirectory{pool: pool}
}

func (d *StudentDirectory) StudentName(ctx context.Context, regNumber string) (string, error) {
	var name string
	err := d.pool.QueryRow(ctx, `SELECT name FROM students WHERE reg_number=$1`, regNumber).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrStudentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup student: %w", err)
	}
	return name, nil
}

// AddStudent upserts a roster row.
func (d *StudentDirectory) AddStudent(ctx context.Context, student domain.Student) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO students (reg_number, name) VALUES ($1, $2)
		 ON CONFLICT (reg_number) DO UPDATE SET name=EXCLUDED.name`,
		student.RegNumber, student.Name)
	if err != nil {
		return fmt.Errorf("add student: %w", err)
	}
	return nil
}

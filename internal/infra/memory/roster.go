package memory

import (
	"context"
	"sync"

	"cppquiz-service/internal/domain"
)

// StudentDirectory is an in-memory roster keyed by registration number.
type StudentDirectory struct {
	mu       sync.RWMutex
	students map[string]domain.Student
}

func NewStudentDirectory(students []domain.Student) *StudentDirectory {
	byReg := make(map[string]domain.Student, len(students))
	for _, s := range students {
		byReg[s.RegNumber] = s
	}
	return &StudentDirectory{students: byReg}
}

func (d *StudentDirectory) StudentName(_ context.Context, regNumber string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	student, ok := d.students[regNumber]
	if !ok {
		return "", domain.ErrStudentNotFound
	}
	return student.Name, nil
}

// Add registers a student; it reports false if the registration number is taken.
func (d *StudentDirectory) Add(student domain.Student) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.students[student.RegNumber]; ok {
		return false
	}
	d.students[student.RegNumber] = student
	return true
}

// Remove deletes a roster entry.
func (d *StudentDirectory) Remove(regNumber string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.students[regNumber]; !ok {
		return false
	}
	delete(d.students, regNumber)
	return true
}

package domain

import "errors"

var (
	// ErrInvalidTransition is returned when a session method is called from a
	// phase that does not permit it. The session state is left unchanged.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrNoQuestions is returned when a session is started without questions.
	ErrNoQuestions = errors.New("no questions assigned to session")
	// ErrNoBonusQuestion is returned when a session is started without a bonus question.
	ErrNoBonusQuestion = errors.New("no bonus question assigned to session")
	// ErrSessionFinished indicates a call arrived after the session reached its
	// terminal phase.
	ErrSessionFinished = errors.New("session already finished")
	// ErrSessionNotFound is returned when no active session exists for a student.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrStudentNotFound is returned when a registration number is not on the roster.
	ErrStudentNotFound = errors.New("student not found")
)

package quiz

import (
	"context"
	"log"
	"time"

	"cppquiz-service/internal/domain"
)

// QuestionBank supplies the question pool for new sessions.
type QuestionBank interface {
	RandomQuestions(ctx context.Context, settings domain.Settings) ([]domain.Question, error)
	RandomBonusQuestion(ctx context.Context) (domain.Question, error)
}

// StudentDirectory resolves roster entries for display and result labeling.
type StudentDirectory interface {
	StudentName(ctx context.Context, regNumber string) (string, error)
}

// ResultStore persists finished results and serves them back for the
// leaderboard and analytics surfaces.
type ResultStore interface {
	SaveResult(ctx context.Context, result domain.Result) error
	Results(ctx context.Context) ([]domain.Result, error)
	StudentResults(ctx context.Context, regNumber string) ([]domain.Result, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	ClearResults(ctx context.Context) error
}

// SessionRegistry tracks the active session per student (in-memory, Redis, etc).
// Delete removes the entry only when it still holds the given session, so a
// stale attempt's cleanup never evicts the attempt that replaced it.
type SessionRegistry interface {
	Put(regNumber string, session *Session)
	Get(regNumber string) (*Session, bool)
	Delete(regNumber string, session *Session)
}

// Service contains the quiz use cases: assembling and running sessions,
// persisting their results, and serving the reporting reads.
type Service struct {
	bank     QuestionBank
	roster   StudentDirectory
	results  ResultStore
	sessions SessionRegistry
	settings domain.Settings
	tick     time.Duration
	now      func() time.Time
}

// NewService wires the quiz use cases over the collaborator interfaces.
func NewService(bank QuestionBank, roster StudentDirectory, results ResultStore, sessions SessionRegistry, settings domain.Settings) *Service {
	return &Service{
		bank:     bank,
		roster:   roster,
		results:  results,
		sessions: sessions,
		settings: settings,
		tick:     time.Second,
		now:      time.Now,
	}
}

// NewServiceWithClock is test-only for deterministic timestamps and fast timers.
func NewServiceWithClock(bank QuestionBank, roster StudentDirectory, results ResultStore, sessions SessionRegistry, settings domain.Settings, now func() time.Time, tick time.Duration) *Service {
	svc := NewService(bank, roster, results, sessions, settings)
	svc.now = now
	svc.tick = tick
	return svc
}

// StartSession assembles a fresh quiz instance for the student and starts it.
// A student logging in again replaces any unfinished prior attempt (single
// active session per registration number). Missing question data prevents the
// start entirely.
func (svc *Service) StartSession(ctx context.Context, regNumber string) (*Session, error) {
	name, err := svc.roster.StudentName(ctx, regNumber)
	if err != nil {
		return nil, err
	}

	questions, err := svc.bank.RandomQuestions(ctx, svc.settings)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	bonus, err := svc.bank.RandomBonusQuestion(ctx)
	if err != nil {
		return nil, err
	}

	session := NewSessionWithClock(regNumber, name, questions, bonus, svc.now, svc.tick)
	if err := session.Start(); err != nil {
		return nil, err
	}

	// Logging in from a second device replaces the unfinished prior attempt.
	prior, hadPrior := svc.sessions.Get(regNumber)
	svc.sessions.Put(regNumber, session)
	if hadPrior {
		prior.Abandon()
	}

	go svc.awaitFinish(session)
	return session, nil
}

// Session returns the active session for a student.
func (svc *Service) Session(regNumber string) (*Session, bool) {
	return svc.sessions.Get(regNumber)
}

// EndSession drops an abandoned session without recording a result.
func (svc *Service) EndSession(regNumber string) error {
	session, ok := svc.sessions.Get(regNumber)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Abandon()
	svc.sessions.Delete(regNumber, session)
	return nil
}

// awaitFinish persists the result once the session reaches its terminal
// phase. Persistence is fire-and-forget-with-logging: a storage failure never
// invalidates the computed result.
func (svc *Service) awaitFinish(session *Session) {
	<-session.Done()
	defer svc.sessions.Delete(session.RegNumber(), session)

	result, ok := session.Result()
	if !ok {
		// Abandoned before finishing; nothing to persist.
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.results.SaveResult(ctx, result); err != nil {
		log.Printf("failed to persist result for %s: %v", result.RegNumber, err)
	}
}

// Results returns all persisted results, newest first.
func (svc *Service) Results(ctx context.Context) ([]domain.Result, error) {
	return svc.results.Results(ctx)
}

// StudentResults returns a student's persisted results, newest first.
func (svc *Service) StudentResults(ctx context.Context, regNumber string) ([]domain.Result, error) {
	return svc.results.StudentResults(ctx, regNumber)
}

// Leaderboard returns the top attempts by total score.
func (svc *Service) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return svc.results.Leaderboard(ctx, limit)
}

// ClearResults wipes the persisted results (admin reset).
func (svc *Service) ClearResults(ctx context.Context) error {
	return svc.results.ClearResults(ctx)
}

package quiz

import (
	"sync"
	"time"

	"cppquiz-service/internal/domain"
)

// EventType identifies session events delivered to subscribers.
type EventType string

const (
	// EventPhase signals a phase change with no other payload.
	EventPhase EventType = "phase"
	// EventQuestion signals a new question on screen.
	EventQuestion EventType = "question"
	// EventAnswer signals a recorded answer.
	EventAnswer EventType = "answer"
	// EventPenalty signals an updated penalty counter.
	EventPenalty EventType = "penalty"
	// EventTick carries the remaining seconds for the question on screen.
	EventTick EventType = "tick"
	// EventFinished carries the final result.
	EventFinished EventType = "finished"
)

// Event is delivered to session subscribers. Phase is always the session's
// phase at the time of emission.
type Event struct {
	Type      EventType        `json:"type"`
	Phase     domain.Phase     `json:"phase"`
	Question  *domain.Question `json:"question,omitempty"`
	Answer    *domain.Answer   `json:"answer,omitempty"`
	Penalties int              `json:"penalties,omitempty"`
	Remaining int              `json:"remaining,omitempty"`
	Result    *domain.Result   `json:"result,omitempty"`
}

// Session drives one student through one quiz attempt: sequential timed
// questions, an optional bonus round, penalty accounting, and a single
// immutable result at the end. It is single-use; a fresh Session must be
// constructed per attempt.
//
// All transitions are serialized by the session mutex. The anticipated race
// between a user answer and a timer expiration for the same question is
// settled by a per-question answered guard plus a turn counter: whichever
// event is processed first wins, the other is a silent no-op.
type Session struct {
	regNumber string
	name      string
	questions []domain.Question
	bonus     domain.Question

	mu          sync.Mutex
	phase       domain.Phase
	idx         int
	turn        int
	answered    bool
	answers     []domain.Answer
	penalties   int
	tookBonus   bool
	result      *domain.Result
	now         func() time.Time
	countdown   *Countdown
	done        chan struct{}
	subscribers map[chan Event]struct{}
}

// NewSession builds a session for one attempt. The question sequence and
// bonus question are validated at Start, not here.
func NewSession(regNumber, name string, questions []domain.Question, bonus domain.Question) *Session {
	return NewSessionWithClock(regNumber, name, questions, bonus, time.Now, time.Second)
}

// NewSessionWithClock is for tests that need deterministic timestamps or a
// faster countdown.
func NewSessionWithClock(regNumber, name string, questions []domain.Question, bonus domain.Question, now func() time.Time, tick time.Duration) *Session {
	return &Session{
		regNumber:   regNumber,
		name:        name,
		questions:   questions,
		bonus:       bonus,
		phase:       domain.PhaseNotStarted,
		now:         now,
		countdown:   NewCountdownWithInterval(tick),
		done:        make(chan struct{}),
		subscribers: make(map[chan Event]struct{}),
	}
}

// RegNumber returns the student's registration number.
func (s *Session) RegNumber() string { return s.regNumber }

// StudentName returns the resolved display name.
func (s *Session) StudentName() string { return s.name }

// Phase returns the current phase.
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Penalties returns the current penalty episode count.
func (s *Session) Penalties() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.penalties
}

// Answers returns a copy of the answer log.
func (s *Session) Answers() []domain.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// QuestionCount returns the length of the regular question sequence.
func (s *Session) QuestionCount() int { return len(s.questions) }

// CurrentQuestion returns the question on screen, if an active timed phase.
func (s *Session) CurrentQuestion() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.currentQuestionLocked()
	if q == nil {
		return domain.Question{}, false
	}
	return *q, true
}

// Result returns the final result once the session has finished.
func (s *Session) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.Result{}, false
	}
	return *s.result, true
}

// Done is closed when the session reaches its terminal phase (or is abandoned).
func (s *Session) Done() <-chan struct{} { return s.done }

// Start validates the assigned pool and moves the session to the first
// question. The session stays NotStarted when validation fails.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseNotStarted {
		return domain.ErrInvalidTransition
	}
	if len(s.questions) == 0 {
		return domain.ErrNoQuestions
	}
	for _, q := range s.questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	if len(s.bonus.Options) == 0 {
		return domain.ErrNoBonusQuestion
	}
	if err := s.bonus.Validate(); err != nil {
		return err
	}

	s.answers = s.answers[:0]
	s.penalties = 0
	s.idx = 0
	s.phase = domain.PhaseInProgress
	s.presentLocked()
	return nil
}

// SubmitAnswer resolves the question on screen with the selected option
// index. A duplicate submission for an already-resolved question is a silent
// no-op; a submission outside an active timed phase is an invalid transition.
func (s *Session) SubmitAnswer(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked(&option)
}

// TimeExpire resolves the question on screen as unanswered. It is a no-op if
// the question was already resolved.
func (s *Session) TimeExpire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.resolveLocked(nil)
}

// expireTurn is invoked by the countdown goroutine. The turn guard discards
// ghost expirations from a countdown armed for an earlier question.
func (s *Session) expireTurn(turn int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turn != s.turn {
		return
	}
	_ = s.resolveLocked(nil)
}

func (s *Session) tickTurn(turn, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turn != s.turn || s.answered {
		return
	}
	s.broadcastLocked(Event{Type: EventTick, Phase: s.phase, Remaining: remaining})
}

// ChooseBonus records the student's decision at the bonus offer. Accepting
// presents the bonus question with a fresh timer; declining finishes the
// session with no bonus answer.
func (s *Session) ChooseBonus(accept bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseBonusOffer {
		return domain.ErrInvalidTransition
	}
	if !accept {
		s.finishLocked()
		return nil
	}
	s.tookBonus = true
	s.phase = domain.PhaseBonusQuestion
	s.presentLocked()
	return nil
}

// RecordPenalty increments the penalty counter. Penalties only apply while a
// timed question is on screen; during the bonus offer, before the start, or
// after the finish the call is rejected.
func (s *Session) RecordPenalty() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseInProgress && s.phase != domain.PhaseBonusQuestion {
		return domain.ErrInvalidTransition
	}
	s.penalties++
	s.broadcastLocked(Event{Type: EventPenalty, Phase: s.phase, Penalties: s.penalties})
	return nil
}

// Abandon discards an unfinished session without producing a result.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.PhaseFinished {
		return
	}
	s.phase = domain.PhaseFinished
	s.countdown.Stop()
	close(s.done)
}

// Subscribe returns a channel receiving session events, starting with a
// snapshot of the current phase. The caller must invoke cancel to avoid leaks.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := Event{Type: EventPhase, Phase: s.phase}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) currentQuestionLocked() *domain.Question {
	switch s.phase {
	case domain.PhaseInProgress:
		return &s.questions[s.idx]
	case domain.PhaseBonusQuestion:
		return &s.bonus
	}
	return nil
}

// presentLocked puts the current question on screen: bumps the turn counter,
// re-arms the countdown, and notifies subscribers.
func (s *Session) presentLocked() {
	q := s.currentQuestionLocked()
	s.turn++
	s.answered = false

	turn := s.turn
	s.countdown.Arm(q.TimeLimit,
		func(remaining int) { s.tickTurn(turn, remaining) },
		func() { s.expireTurn(turn) },
	)

	question := *q
	s.broadcastLocked(Event{
		Type:      EventQuestion,
		Phase:     s.phase,
		Question:  &question,
		Remaining: q.TimeLimit,
	})
}

func (s *Session) resolveLocked(selected *int) error {
	if s.phase != domain.PhaseInProgress && s.phase != domain.PhaseBonusQuestion {
		if s.phase == domain.PhaseFinished {
			return domain.ErrSessionFinished
		}
		return domain.ErrInvalidTransition
	}
	if s.answered {
		// Timer and user action raced; first to arrive already won.
		return nil
	}
	s.answered = true
	s.countdown.Stop()

	q := s.currentQuestionLocked()
	correct := selected != nil && *selected == q.CorrectIndex
	answer := domain.Answer{
		QuestionID: q.ID,
		Selected:   selected,
		Correct:    correct,
		Bonus:      s.phase == domain.PhaseBonusQuestion,
	}
	s.answers = append(s.answers, answer)
	s.broadcastLocked(Event{Type: EventAnswer, Phase: s.phase, Answer: &answer})

	s.advanceLocked()
	return nil
}

func (s *Session) advanceLocked() {
	switch s.phase {
	case domain.PhaseInProgress:
		if s.idx < len(s.questions)-1 {
			s.idx++
			s.presentLocked()
			return
		}
		s.phase = domain.PhaseBonusOffer
		s.broadcastLocked(Event{Type: EventPhase, Phase: s.phase})
	case domain.PhaseBonusQuestion:
		s.finishLocked()
	}
}

func (s *Session) finishLocked() {
	s.phase = domain.PhaseFinished
	s.countdown.Stop()

	summary := Score(s.answers, s.penalties)
	answers := make([]domain.Answer, len(s.answers))
	copy(answers, s.answers)

	pool := s.questions
	if s.tookBonus {
		pool = append(append([]domain.Question{}, s.questions...), s.bonus)
	}

	s.result = &domain.Result{
		RegNumber:        s.regNumber,
		Name:             s.name,
		RegularScore:     summary.RegularScore,
		BonusScore:       summary.BonusScore,
		RawScore:         summary.RawScore,
		TotalScore:       summary.TotalScore,
		PenaltyCount:     s.penalties,
		TookBonus:        summary.BonusTaken,
		Answers:          answers,
		DifficultyScores: difficultyScores(pool, answers),
		Timestamp:        s.now(),
	}

	result := *s.result
	s.broadcastLocked(Event{Type: EventFinished, Phase: s.phase, Result: &result})
	close(s.done)
}

func (s *Session) broadcastLocked(ev Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest buffered event so slow subscribers never block
			// a transition.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

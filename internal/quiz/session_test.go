package quiz

import (
	"testing"
	"time"

	"cppquiz-service/internal/domain"
)

func testQuestions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:           string(rune('a' + i)),
			Text:         "pick the first option",
			Options:      []string{"right", "wrong", "also wrong"},
			CorrectIndex: 0,
			Difficulty:   domain.Easy,
			TimeLimit:    30,
		}
	}
	return qs
}

func testBonus() domain.Question {
	return domain.Question{
		ID:           "bonus",
		Text:         "high stakes",
		Options:      []string{"wrong", "right"},
		CorrectIndex: 1,
		Difficulty:   domain.Hard,
		TimeLimit:    60,
		Bonus:        true,
	}
}

// newTestSession uses a long tick so the countdown never fires on its own
// during synchronous tests.
func newTestSession(n int) *Session {
	return NewSessionWithClock("RA001", "Alice", testQuestions(n), testBonus(), time.Now, time.Hour)
}

func TestStartValidatesQuestionData(t *testing.T) {
	s := NewSessionWithClock("RA001", "Alice", nil, testBonus(), time.Now, time.Hour)
	if err := s.Start(); err != domain.ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if s.Phase() != domain.PhaseNotStarted {
		t.Fatalf("session left NotStarted after failed start: %s", s.Phase())
	}

	s = NewSessionWithClock("RA001", "Alice", testQuestions(2), domain.Question{}, time.Now, time.Hour)
	if err := s.Start(); err != domain.ErrNoBonusQuestion {
		t.Fatalf("expected ErrNoBonusQuestion, got %v", err)
	}
	if s.Phase() != domain.PhaseNotStarted {
		t.Fatalf("session left NotStarted after failed start: %s", s.Phase())
	}
}

func TestFullRunWithBonus(t *testing.T) {
	s := newTestSession(3)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Phase() != domain.PhaseInProgress {
		t.Fatalf("expected InProgress, got %s", s.Phase())
	}

	for i := 0; i < 3; i++ {
		if err := s.SubmitAnswer(0); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if s.Phase() != domain.PhaseBonusOffer {
		t.Fatalf("expected BonusOffer after last question, got %s", s.Phase())
	}

	if err := s.ChooseBonus(true); err != nil {
		t.Fatalf("choose bonus: %v", err)
	}
	if s.Phase() != domain.PhaseBonusQuestion {
		t.Fatalf("expected BonusQuestion, got %s", s.Phase())
	}
	if err := s.SubmitAnswer(1); err != nil {
		t.Fatalf("submit bonus: %v", err)
	}

	if s.Phase() != domain.PhaseFinished {
		t.Fatalf("expected Finished, got %s", s.Phase())
	}
	result, ok := s.Result()
	if !ok {
		t.Fatalf("expected result after finish")
	}
	if len(result.Answers) != 4 {
		t.Fatalf("answer log length = %d, want questions+bonus = 4", len(result.Answers))
	}
	if !result.TookBonus {
		t.Fatalf("expected TookBonus")
	}
	if result.RegularScore != 3 || result.BonusScore != 10 || result.TotalScore != 13 {
		t.Fatalf("unexpected scores: %+v", result)
	}

	select {
	case <-s.Done():
	default:
		t.Fatalf("Done not closed after finish")
	}
}

func TestDeclineBonusFinishesWithoutBonusAnswer(t *testing.T) {
	s := newTestSession(2)
	_ = s.Start()
	_ = s.SubmitAnswer(0)
	_ = s.SubmitAnswer(2)

	if err := s.ChooseBonus(false); err != nil {
		t.Fatalf("decline bonus: %v", err)
	}
	result, ok := s.Result()
	if !ok {
		t.Fatalf("expected result")
	}
	if len(result.Answers) != 2 {
		t.Fatalf("answer log length = %d, want 2", len(result.Answers))
	}
	if result.TookBonus || result.BonusScore != 0 {
		t.Fatalf("expected no bonus component, got %+v", result)
	}
	if result.RegularScore != 1 || result.TotalScore != 1 {
		t.Fatalf("unexpected scores: %+v", result)
	}
}

func TestTimeoutRecordsNullAnswer(t *testing.T) {
	s := newTestSession(2)
	_ = s.Start()

	s.TimeExpire()

	answers := s.Answers()
	if len(answers) != 1 {
		t.Fatalf("expected one answer after timeout, got %d", len(answers))
	}
	if answers[0].Selected != nil {
		t.Fatalf("timeout answer should have nil selection")
	}
	if answers[0].Correct {
		t.Fatalf("timeout answer should be incorrect")
	}
	if s.Phase() != domain.PhaseInProgress {
		t.Fatalf("expected advance to next question, got %s", s.Phase())
	}
}

func TestSubmitThenExpireIsIdempotent(t *testing.T) {
	s := newTestSession(2)
	_ = s.Start()

	if err := s.SubmitAnswer(0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// A late expire for question 0 must not resolve question 1. The turn
	// guard catches stale countdown callbacks.
	s.expireTurn(1)

	answers := s.Answers()
	if len(answers) != 1 {
		t.Fatalf("stale expire changed the log: %d answers", len(answers))
	}
	if !answers[0].Correct {
		t.Fatalf("recorded answer was overwritten")
	}
}

func TestExpireThenSubmitIsIgnored(t *testing.T) {
	s := NewSessionWithClock("RA001", "Alice", testQuestions(1), testBonus(), time.Now, time.Hour)
	_ = s.Start()

	s.TimeExpire()
	if s.Phase() != domain.PhaseBonusOffer {
		t.Fatalf("expected BonusOffer, got %s", s.Phase())
	}
	// The user's click arrives after the timeout already resolved the
	// question; outside an active phase it is an invalid transition.
	if err := s.SubmitAnswer(0); err != domain.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if n := len(s.Answers()); n != 1 {
		t.Fatalf("late submit changed the log: %d answers", n)
	}
}

func TestPenaltyPhaseGuards(t *testing.T) {
	s := newTestSession(1)

	if err := s.RecordPenalty(); err != domain.ErrInvalidTransition {
		t.Fatalf("penalty before start: got %v", err)
	}

	_ = s.Start()
	if err := s.RecordPenalty(); err != nil {
		t.Fatalf("penalty during question: %v", err)
	}

	_ = s.SubmitAnswer(0) // -> BonusOffer
	if err := s.RecordPenalty(); err != domain.ErrInvalidTransition {
		t.Fatalf("penalty during bonus offer: got %v", err)
	}

	_ = s.ChooseBonus(true)
	if err := s.RecordPenalty(); err != nil {
		t.Fatalf("penalty during bonus question: %v", err)
	}

	_ = s.SubmitAnswer(1) // -> Finished
	if err := s.RecordPenalty(); err != domain.ErrInvalidTransition {
		t.Fatalf("penalty after finish: got %v", err)
	}

	if s.Penalties() != 2 {
		t.Fatalf("expected 2 penalties, got %d", s.Penalties())
	}
}

func TestInvalidTransitions(t *testing.T) {
	s := newTestSession(2)

	if err := s.SubmitAnswer(0); err != domain.ErrInvalidTransition {
		t.Fatalf("submit before start: got %v", err)
	}
	if err := s.ChooseBonus(true); err != domain.ErrInvalidTransition {
		t.Fatalf("choose bonus before start: got %v", err)
	}

	_ = s.Start()
	if err := s.ChooseBonus(true); err != domain.ErrInvalidTransition {
		t.Fatalf("choose bonus mid-quiz: got %v", err)
	}
	if err := s.Start(); err != domain.ErrInvalidTransition {
		t.Fatalf("second start: got %v", err)
	}
	if s.Phase() != domain.PhaseInProgress {
		t.Fatalf("invalid transitions changed state: %s", s.Phase())
	}

	_ = s.SubmitAnswer(0)
	_ = s.SubmitAnswer(0)
	_ = s.ChooseBonus(false)
	if err := s.SubmitAnswer(0); err != domain.ErrSessionFinished {
		t.Fatalf("submit after finish: got %v", err)
	}
}

func TestTimerExpiryDrivesWholeQuiz(t *testing.T) {
	qs := testQuestions(2)
	for i := range qs {
		qs[i].TimeLimit = 2
	}
	bonus := testBonus()
	bonus.TimeLimit = 2
	s := NewSessionWithClock("RA001", "Alice", qs, bonus, time.Now, time.Millisecond)
	_ = s.Start()

	deadline := time.After(2 * time.Second)
	for s.Phase() != domain.PhaseBonusOffer {
		select {
		case <-deadline:
			t.Fatalf("timers did not advance the quiz, phase=%s", s.Phase())
		case <-time.After(time.Millisecond):
		}
	}

	if n := len(s.Answers()); n != 2 {
		t.Fatalf("expected 2 timeout answers, got %d", n)
	}
	for _, a := range s.Answers() {
		if a.Selected != nil || a.Correct {
			t.Fatalf("expected timeout answers, got %+v", a)
		}
	}

	_ = s.ChooseBonus(true)
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("bonus timer never expired")
	}

	result, _ := s.Result()
	if result.BonusScore != -8 {
		t.Fatalf("bonus timeout should forfeit 8 points, got %d", result.BonusScore)
	}
	if result.TotalScore != 0 {
		t.Fatalf("total must clamp at zero, got %d", result.TotalScore)
	}
}

func TestSubscribeSeesLifecycleEvents(t *testing.T) {
	s := newTestSession(1)
	events, cancel := s.Subscribe()
	defer cancel()

	if ev := <-events; ev.Type != EventPhase || ev.Phase != domain.PhaseNotStarted {
		t.Fatalf("expected initial phase snapshot, got %+v", ev)
	}

	_ = s.Start()
	if ev := <-events; ev.Type != EventQuestion || ev.Question == nil {
		t.Fatalf("expected question event, got %+v", ev)
	}

	_ = s.RecordPenalty()
	if ev := <-events; ev.Type != EventPenalty || ev.Penalties != 1 {
		t.Fatalf("expected penalty event, got %+v", ev)
	}

	_ = s.SubmitAnswer(0)
	if ev := <-events; ev.Type != EventAnswer || ev.Answer == nil {
		t.Fatalf("expected answer event, got %+v", ev)
	}
	if ev := <-events; ev.Type != EventPhase || ev.Phase != domain.PhaseBonusOffer {
		t.Fatalf("expected bonus offer phase event, got %+v", ev)
	}

	_ = s.ChooseBonus(false)
	if ev := <-events; ev.Type != EventFinished || ev.Result == nil {
		t.Fatalf("expected finished event with result, got %+v", ev)
	}
}

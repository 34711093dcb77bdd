// ABOUTME: In-memory profile and dashboard state for the logged-in user.
// ABOUTME: Mutations update memory first, then write through to the store.
package session

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ugmotion/ugmotion/internal/fitness"
	"github.com/ugmotion/ugmotion/internal/models"
	"github.com/ugmotion/ugmotion/internal/routine"
	"github.com/ugmotion/ugmotion/internal/storage"
)

var (
	// ErrClosed is returned by mutations and Reconcile on a closed session.
	// Reads keep returning the last cached state.
	ErrClosed = errors.New("session closed")
	// ErrNoSuchDay is returned when a plan day name does not match any day.
	ErrNoSuchDay = errors.New("no such plan day")
	// ErrNoSuchActivity is returned for an out-of-range activity index.
	ErrNoSuchActivity = errors.New("no such activity")
	// ErrInvalidAmount is returned for non-finite intake amounts or negative targets.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Store is the subset of the repository the session reads and writes.
type Store interface {
	Today() string

	GetUser(id int64) (*models.User, error)
	NameTaken(name string, exceptID int64) (bool, error)
	UpdateProfile(id int64, p models.ProfileUpdate) error

	TodayTotals(userID int64) (models.Totals, error)
	AddIntake(userID int64, n models.Nutrient, amount float64) error
	GetDailyGoals(userID int64) (*models.DailyGoals, error)
	SaveDailyGoals(userID int64, u models.GoalsUpdate) error
	ClearDailyTarget(userID int64, n models.Nutrient) error

	GetWeeklyPlan(userID int64) ([]models.DayPlan, error)
	ReplaceWeeklyPlan(userID int64, plan []models.DayPlan) error
	SaveWorkoutLog(userID int64, l models.WorkoutLog) (int64, error)
}

// Session caches one user's profile, today's intake and targets, and the weekly plan.
type Session struct {
	mu       sync.Mutex
	store    Store
	userID   int64
	logger   *log.Logger
	user     *models.User
	totals   models.Totals
	targets  map[models.Nutrient]*float64
	plan     []models.DayPlan
	day      string
	diverged bool
	closed   bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used to report failed writes.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Open hydrates a session for userID from the store.
func Open(store Store, userID int64, opts ...Option) (*Session, error) {
	s := &Session{
		store:  store,
		userID: userID,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return s, nil
}

// load replaces all cached state with what the store holds.
// Targets without a stored value fall back to the nutrient defaults.
func (s *Session) load() error {
	day := s.store.Today()
	user, err := s.store.GetUser(s.userID)
	if err != nil {
		return err
	}
	totals, err := s.store.TodayTotals(s.userID)
	if err != nil {
		return err
	}
	goals, err := s.store.GetDailyGoals(s.userID)
	if err != nil {
		return err
	}
	plan, err := s.store.GetWeeklyPlan(s.userID)
	if err != nil {
		return err
	}

	targets := make(map[models.Nutrient]*float64, len(models.AllNutrients))
	for _, n := range models.AllNutrients {
		if t := goals.Target(n); t != nil {
			v := *t
			targets[n] = &v
		} else {
			v := n.DefaultTarget()
			targets[n] = &v
		}
	}

	s.user = user
	s.totals = totals
	s.targets = targets
	s.plan = plan
	s.day = day
	return nil
}

// rollover reloads the cache when the store's calendar day has moved on since
// the last load, so totals and targets always belong to the current day.
func (s *Session) rollover() error {
	if s.store.Today() == s.day {
		return nil
	}
	s.logger.Info("day changed, reloading session", "from", s.day, "user", s.userID)
	if err := s.load(); err != nil {
		return fmt.Errorf("reload for new day: %w", err)
	}
	s.diverged = false
	return nil
}

// refresh is rollover for reads, which have no error to return.
func (s *Session) refresh() {
	if s.closed {
		return
	}
	if err := s.rollover(); err != nil {
		s.diverged = true
		s.logger.Error("reload failed, showing cached state", "user", s.userID, "err", err)
	}
}

// Close releases the session. The store is owned by the caller and stays open.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// UserID returns the id of the session's user.
func (s *Session) UserID() int64 {
	return s.userID
}

// Diverged reports whether a write failed since the last load.
func (s *Session) Diverged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diverged
}

// Reconcile discards cached state and re-reads it from the store.
func (s *Session) Reconcile() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.load(); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	s.diverged = false
	return nil
}

// writeFailed marks the cache as ahead of storage and logs the failure.
func (s *Session) writeFailed(op string, err error) error {
	s.diverged = true
	s.logger.Error("write failed, session diverged from storage", "op", op, "user", s.userID, "err", err)
	return fmt.Errorf("%s: %w", op, err)
}

// Add records an intake amount. Negative amounts are allowed as corrections.
func (s *Session) Add(n models.Nutrient, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	if !n.Valid() {
		return fmt.Errorf("add: unknown nutrient %q", n)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("add %s: %w", n, ErrInvalidAmount)
	}

	s.totals.Set(n, s.totals.Get(n)+amount)
	if err := s.store.AddIntake(s.userID, n, amount); err != nil {
		return s.writeFailed("add "+string(n), err)
	}
	return nil
}

// SetTarget saves today's target for a nutrient.
func (s *Session) SetTarget(n models.Nutrient, target float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	if !n.Valid() {
		return fmt.Errorf("set target: unknown nutrient %q", n)
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 {
		return fmt.Errorf("set %s target: %w", n, ErrInvalidAmount)
	}

	v := target
	s.targets[n] = &v
	if err := s.store.SaveDailyGoals(s.userID, models.GoalsUpdateFor(n, target)); err != nil {
		return s.writeFailed("set "+string(n)+" target", err)
	}
	return nil
}

// Clear zeroes today's total with a compensating entry and unsets the target.
func (s *Session) Clear(n models.Nutrient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	if !n.Valid() {
		return fmt.Errorf("clear: unknown nutrient %q", n)
	}

	current := s.totals.Get(n)
	s.totals.Set(n, 0)
	s.targets[n] = nil

	if current != 0 {
		if err := s.store.AddIntake(s.userID, n, -current); err != nil {
			return s.writeFailed("clear "+string(n), err)
		}
	}
	if err := s.store.ClearDailyTarget(s.userID, n); err != nil {
		return s.writeFailed("clear "+string(n)+" target", err)
	}
	return nil
}

// UpdateProfile saves the profile. A name held by another user is rejected
// before anything changes.
func (s *Session) UpdateProfile(p models.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("update profile: %w: name is required", storage.ErrInvalid)
	}
	taken, err := s.store.NameTaken(p.Name, s.userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if taken {
		return fmt.Errorf("update profile: name %q: %w", p.Name, storage.ErrConflict)
	}
	return s.saveProfile(p)
}

// SetProfileImage replaces or removes the profile image URI.
func (s *Session) SetProfileImage(uri *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	p := s.user.ProfileUpdate()
	if uri != nil {
		v := *uri
		uri = &v
	}
	p.ProfileImageURI = uri
	return s.saveProfile(p)
}

// SetEquipment replaces the user's equipment selection.
func (s *Session) SetEquipment(eq []models.Equipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	return s.setEquipment(eq)
}

func (s *Session) setEquipment(eq []models.Equipment) error {
	for _, e := range eq {
		if _, err := models.ParseEquipment(string(e)); err != nil {
			return fmt.Errorf("set equipment: %w", err)
		}
	}
	p := s.user.ProfileUpdate()
	p.Equipment = append([]models.Equipment{}, eq...)
	return s.saveProfile(p)
}

func (s *Session) saveProfile(p models.ProfileUpdate) error {
	s.user.Apply(p)
	if err := s.store.UpdateProfile(s.userID, p); err != nil {
		return s.writeFailed("update profile", err)
	}
	return nil
}

// ReplacePlan rewrites the whole weekly plan.
func (s *Session) ReplacePlan(plan []models.DayPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	return s.replacePlan(plan)
}

// replacePlan stores the week and then re-reads it so activities carry their new ids.
func (s *Session) replacePlan(plan []models.DayPlan) error {
	s.plan = models.ClonePlan(plan)
	if err := s.store.ReplaceWeeklyPlan(s.userID, plan); err != nil {
		return s.writeFailed("replace plan", err)
	}
	fresh, err := s.store.GetWeeklyPlan(s.userID)
	if err != nil {
		return s.writeFailed("reload plan", err)
	}
	s.plan = fresh
	return nil
}

// CreatePlan seeds a seven-day plan for the split and saves the equipment selection.
func (s *Session) CreatePlan(split routine.Split, equipment []models.Equipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	if err := routine.Validate(split, equipment); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	week, err := routine.Week(split)
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	if err := s.setEquipment(equipment); err != nil {
		return err
	}
	return s.replacePlan(week)
}

// AddActivity appends an activity to a day and rewrites the week.
func (s *Session) AddActivity(day string, a models.RoutineActivity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	plan := models.ClonePlan(s.plan)
	i, err := findDay(plan, day)
	if err != nil {
		return err
	}
	a.ID, a.PlanDayID = 0, 0
	plan[i].Activities = append(plan[i].Activities, a)
	return s.replacePlan(plan)
}

// EditActivity replaces the activity at index within a day and rewrites the week.
func (s *Session) EditActivity(day string, index int, a models.RoutineActivity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	plan := models.ClonePlan(s.plan)
	i, err := findDay(plan, day)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(plan[i].Activities) {
		return fmt.Errorf("edit %s #%d: %w", day, index+1, ErrNoSuchActivity)
	}
	plan[i].Activities[index] = a
	return s.replacePlan(plan)
}

// DeleteActivity removes the activity at index within a day and rewrites the week.
func (s *Session) DeleteActivity(day string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.rollover(); err != nil {
		return err
	}
	plan := models.ClonePlan(s.plan)
	i, err := findDay(plan, day)
	if err != nil {
		return err
	}
	acts := plan[i].Activities
	if index < 0 || index >= len(acts) {
		return fmt.Errorf("delete %s #%d: %w", day, index+1, ErrNoSuchActivity)
	}
	plan[i].Activities = append(acts[:index:index], acts[index+1:]...)
	return s.replacePlan(plan)
}

// LogSet records a performed set for the activity at index within a day, dated today.
func (s *Session) LogSet(day string, index int, weight float64, reps int, completed bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if err := s.rollover(); err != nil {
		return 0, err
	}
	i, err := findDay(s.plan, day)
	if err != nil {
		return 0, err
	}
	acts := s.plan[i].Activities
	if index < 0 || index >= len(acts) || acts[index].ID == 0 {
		return 0, fmt.Errorf("log %s #%d: %w", day, index+1, ErrNoSuchActivity)
	}
	activityID := acts[index].ID
	id, err := s.store.SaveWorkoutLog(s.userID, models.WorkoutLog{
		RoutineActivityID: &activityID,
		Weight:            weight,
		Reps:              reps,
		Completed:         completed,
	})
	if err != nil {
		s.logger.Error("write failed", "op", "log set", "user", s.userID, "err", err)
		return 0, fmt.Errorf("log set: %w", err)
	}
	return id, nil
}

func findDay(plan []models.DayPlan, day string) (int, error) {
	for i, d := range plan {
		if strings.EqualFold(d.Day, strings.TrimSpace(day)) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%q: %w", day, ErrNoSuchDay)
}

// User returns a copy of the cached user.
func (s *Session) User() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *s.user
	u.Equipment = append([]models.Equipment{}, s.user.Equipment...)
	return u
}

// Equipment returns the cached equipment selection.
func (s *Session) Equipment() []models.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Equipment{}, s.user.Equipment...)
}

// WeeklyPlan returns a deep copy of the cached plan.
func (s *Session) WeeklyPlan() []models.DayPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ClonePlan(s.plan)
}

// Progress pairs today's total with its target.
type Progress struct {
	Nutrient models.Nutrient `json:"nutrient"`
	Current  float64         `json:"current"`
	Target   *float64        `json:"target,omitempty"`
}

// Fill is the ring fill percentage.
func (p Progress) Fill() float64 {
	return fitness.FillPercentOf(p.Current, p.Target)
}

// Remaining is what is left to reach the target, false when no target is set.
func (p Progress) Remaining() (float64, bool) {
	return fitness.Remaining(p.Current, p.Target)
}

// Intake returns today's progress for one nutrient.
func (s *Session) Intake(n models.Nutrient) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()
	return s.progress(n)
}

func (s *Session) progress(n models.Nutrient) Progress {
	p := Progress{Nutrient: n, Current: s.totals.Get(n)}
	if t := s.targets[n]; t != nil {
		v := *t
		p.Target = &v
	}
	return p
}

// NutrientStatus is one dashboard ring.
type NutrientStatus struct {
	Progress
	Unit    string   `json:"unit"`
	Percent float64  `json:"percent"`
	Left    *float64 `json:"remaining,omitempty"`
}

// Dashboard is the derived view of today's intake.
type Dashboard struct {
	User      string           `json:"user"`
	Nutrients []NutrientStatus `json:"nutrients"`
	Diverged  bool             `json:"diverged,omitempty"`
}

// Dashboard computes ring fills and remaining amounts for every nutrient.
func (s *Session) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()

	d := Dashboard{User: s.user.Name, Diverged: s.diverged}
	for _, n := range models.AllNutrients {
		p := s.progress(n)
		st := NutrientStatus{Progress: p, Unit: n.Unit(), Percent: p.Fill()}
		if r, ok := p.Remaining(); ok {
			st.Left = &r
		}
		d.Nutrients = append(d.Nutrients, st)
	}
	return d
}

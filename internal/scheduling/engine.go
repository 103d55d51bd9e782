package scheduling

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicdesk/receptionist/internal/doctors"
	"github.com/clinicdesk/receptionist/internal/observability/metrics"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

var schedulingTracer = otel.Tracer("receptionist.internal.scheduling")

// maxScoredCandidates bounds how many earliest free slots are offered to the
// scorer for re-ranking.
const maxScoredCandidates = 10

// EventRecorder receives fire-and-forget notifications after a state change
// commits. Implementations must swallow and log their own delivery failures;
// the engine never blocks on them.
type EventRecorder interface {
	AppointmentBooked(ctx context.Context, appt Appointment)
	AppointmentCancelled(ctx context.Context, appt Appointment)
}

type noopEvents struct{}

func (noopEvents) AppointmentBooked(context.Context, Appointment)    {}
func (noopEvents) AppointmentCancelled(context.Context, Appointment) {}

// Engine orchestrates booking, cancellation and gap search over the store,
// the slot calendar and the doctor directory. Concurrency control lives in
// the store's uniqueness constraints; the engine holds no locks.
type Engine struct {
	store        Store
	doctors      doctors.Repository
	calendar     *Calendar
	scorer       SlotScorer
	events       EventRecorder
	metrics      *metrics.SchedulingMetrics
	logger       *logging.Logger
	lifecycle    Lifecycle
	horizon      time.Duration
	tolerance    time.Duration
	storeTimeout time.Duration
	now          func() time.Time
}

// NewEngine constructs an engine with defaults: 7-day horizon, 2-hour scorer
// tolerance, noop scorer and events, wall clock time.
func NewEngine(store Store, directory doctors.Repository, calendar *Calendar, logger *logging.Logger) *Engine {
	if store == nil {
		panic("scheduling: store required")
	}
	if directory == nil {
		panic("scheduling: doctor directory required")
	}
	if calendar == nil {
		panic("scheduling: calendar required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		store:        store,
		doctors:      directory,
		calendar:     calendar,
		scorer:       NoopScorer{},
		events:       noopEvents{},
		logger:       logger,
		horizon:      7 * 24 * time.Hour,
		tolerance:    2 * time.Hour,
		storeTimeout: 5 * time.Second,
		now:          time.Now,
	}
}

func (e *Engine) WithScorer(s SlotScorer) *Engine {
	if s != nil {
		e.scorer = s
	}
	return e
}

func (e *Engine) WithEvents(r EventRecorder) *Engine {
	if r != nil {
		e.events = r
	}
	return e
}

func (e *Engine) WithMetrics(m *metrics.SchedulingMetrics) *Engine {
	e.metrics = m
	return e
}

func (e *Engine) WithHorizonDays(days int) *Engine {
	if days > 0 {
		e.horizon = time.Duration(days) * 24 * time.Hour
	}
	return e
}

func (e *Engine) WithTolerance(d time.Duration) *Engine {
	if d >= 0 {
		e.tolerance = d
	}
	return e
}

// WithStoreTimeout wraps the store so every call carries a bounded deadline.
// On expiry the caller sees an infrastructure error, never a domain code.
func (e *Engine) WithStoreTimeout(d time.Duration) *Engine {
	if d > 0 {
		e.storeTimeout = d
		e.store = StoreWithTimeout(e.store, d)
	}
	return e
}

// WithClock overrides the wall clock, for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	if now != nil {
		e.now = now
	}
	return e
}

// Calendar exposes the slot calendar so callers can build slot-aligned times
// in the facility time zone.
func (e *Engine) Calendar() *Calendar {
	return e.calendar
}

// BookRequest carries a validated-identity booking attempt. The caller has
// already authenticated UserEmail; the engine re-validates everything else.
type BookRequest struct {
	UserEmail  string
	DoctorName string
	Disease    string
	Time       time.Time
}

// Book validates and persists a new appointment. Checks run in a fixed
// order, first failure wins: PAST_DATE, DOCTOR_NOT_FOUND, INVALID_SLOT,
// USER_CONFLICT, then the insert itself where the store's uniqueness
// constraint is the final arbiter (SLOT_BOOKED).
func (e *Engine) Book(ctx context.Context, req BookRequest) (appt *Appointment, err error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("receptionist.doctor", req.DoctorName),
		attribute.String("receptionist.slot", req.Time.Format(time.RFC3339)),
	)
	defer func() { e.observeBook(err) }()

	now := e.now()
	if req.Time.Before(now) {
		return nil, domainErrorf(CodePastDate, "cannot book %s, it is in the past", req.Time)
	}

	doctor, derr := e.doctors.GetByName(ctx, req.DoctorName)
	if derr != nil {
		if derr == doctors.ErrDoctorNotFound {
			return nil, domainErrorf(CodeDoctorNotFound, "doctor %q not found", req.DoctorName)
		}
		span.RecordError(derr)
		return nil, derr
	}

	if !e.calendar.ValidSlot(req.Time) {
		return nil, domainErrorf(CodeInvalidSlot, "%s is not a bookable slot", req.Time)
	}

	busy, berr := e.store.UserBusyAt(ctx, req.UserEmail, req.Time)
	if berr != nil {
		span.RecordError(berr)
		return nil, berr
	}
	if busy {
		return nil, domainErrorf(CodeUserConflict, "user %s already booked at %s", req.UserEmail, req.Time)
	}

	record := Appointment{
		UserEmail:  req.UserEmail,
		DoctorName: doctor.Name,
		Disease:    req.Disease,
		Time:       req.Time,
		Status:     StatusScheduled,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	id, ierr := e.store.InsertScheduled(ctx, &record)
	if ierr != nil {
		span.RecordError(ierr)
		return nil, ierr
	}
	record.ID = id

	e.logger.Info("appointment booked",
		"appointment_id", id,
		"doctor", doctor.Name,
		"slot", req.Time,
	)
	e.events.AppointmentBooked(ctx, record)
	return &record, nil
}

// Cancel transitions the caller's unique Scheduled appointment at the exact
// time to Cancelled with the soft-delete flag set. The store performs the
// lifecycle transition atomically; the row is retained for audit.
func (e *Engine) Cancel(ctx context.Context, userEmail string, at time.Time) (appt *Appointment, err error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("receptionist.slot", at.Format(time.RFC3339)))
	defer func() { e.observeCancel(err) }()

	cancelled, cerr := e.store.CancelScheduled(ctx, userEmail, at, e.now().UTC())
	if cerr != nil {
		if _, ok := CodeOf(cerr); !ok {
			span.RecordError(cerr)
		}
		return nil, cerr
	}

	e.logger.Info("appointment cancelled",
		"appointment_id", cancelled.ID,
		"doctor", cancelled.DoctorName,
		"slot", cancelled.Time,
	)
	e.events.AppointmentCancelled(ctx, *cancelled)
	return cancelled, nil
}

// Complete marks a past Scheduled appointment as Completed. Back-office only.
func (e *Engine) Complete(ctx context.Context, id int64) error {
	return e.transition(ctx, id, StatusCompleted)
}

// MarkNoShow marks a past Scheduled appointment as No-Show. Back-office only.
func (e *Engine) MarkNoShow(ctx context.Context, id int64) error {
	return e.transition(ctx, id, StatusNoShow)
}

func (e *Engine) transition(ctx context.Context, id int64, to Status) error {
	now := e.now()
	appt, err := e.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := e.lifecycle.Validate(appt, to, now); err != nil {
		return err
	}
	ok, err := e.store.SetStatus(ctx, id, to, now.UTC())
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race with another transition on the same row.
		return domainErrorf(CodeInvalidTransition, "appointment %d is no longer Scheduled", id)
	}
	e.logger.Info("appointment transitioned", "appointment_id", id, "status", to)
	return nil
}

// ListForUser returns the caller's appointment history, including soft-deleted
// rows when the audit flag is set.
func (e *Engine) ListForUser(ctx context.Context, userEmail string, includeDeleted bool) ([]Appointment, error) {
	return e.store.ListForUser(ctx, userEmail, includeDeleted)
}

// NextAvailableRequest filters the candidate doctor set. Both fields are
// optional; an empty request searches every doctor.
type NextAvailableRequest struct {
	DoctorName string
	Disease    string
}

// NextSlot is the earliest bookable slot found by FindNextAvailable. The
// result is advisory: a concurrent booking may take the slot before the
// caller does, surfacing SLOT_BOOKED on the follow-up Book call.
type NextSlot struct {
	Doctor doctors.Doctor `json:"doctor"`
	Time   time.Time      `json:"time"`
}

// FindNextAvailable scans the search horizon for the earliest free slot
// across the candidate doctors. One occupied-slots query per doctor covers
// the whole horizon; the gap scan happens in memory. The scorer may promote
// a slot within the tolerance window past the raw earliest.
func (e *Engine) FindNextAvailable(ctx context.Context, req NextAvailableRequest) (slot *NextSlot, err error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.find_next_available")
	defer span.End()
	started := time.Now()
	defer func() { e.observeSearch(err, time.Since(started).Seconds()) }()

	now := e.now()
	horizonEnd := now.Add(e.horizon)

	candidates, preferred, cerr := e.candidateDoctors(ctx, req)
	if cerr != nil {
		return nil, cerr
	}
	if len(candidates) == 0 {
		return nil, domainErrorf(CodeNoSlotsFound, "no doctors available")
	}

	// The grid is doctor-independent, enumerate it once.
	grid := e.calendar.SlotsBetween(now, horizonEnd)
	if len(grid) == 0 {
		return nil, domainErrorf(CodeNoSlotsFound, "no slots in the next %s", e.horizon)
	}

	var free []Candidate
	for _, doctor := range candidates {
		occupied, oerr := e.store.OccupiedSlots(ctx, doctor.Name, now, horizonEnd)
		if oerr != nil {
			span.RecordError(oerr)
			return nil, oerr
		}
		for _, s := range grid {
			if _, taken := occupied[s.Unix()]; !taken {
				free = append(free, Candidate{Doctor: doctor, Time: s})
			}
		}
	}
	if len(free) == 0 {
		return nil, domainErrorf(CodeNoSlotsFound, "no free slots in the next %s", e.horizon)
	}

	sort.SliceStable(free, func(i, j int) bool {
		if !free[i].Time.Equal(free[j].Time) {
			return free[i].Time.Before(free[j].Time)
		}
		iPref := strings.EqualFold(free[i].Doctor.Name, preferred)
		jPref := strings.EqualFold(free[j].Doctor.Name, preferred)
		if iPref != jPref {
			return iPref
		}
		return free[i].Doctor.ID < free[j].Doctor.ID
	})

	pick := e.applyScorer(ctx, free)
	span.SetAttributes(
		attribute.String("receptionist.doctor", pick.Doctor.Name),
		attribute.String("receptionist.slot", pick.Time.Format(time.RFC3339)),
	)
	return &NextSlot{Doctor: pick.Doctor, Time: pick.Time}, nil
}

// applyScorer lets the pluggable scorer re-rank the earliest candidates, but
// never accepts a pick later than earliest + tolerance.
func (e *Engine) applyScorer(ctx context.Context, free []Candidate) Candidate {
	earliest := free[0]
	cutoff := earliest.Time.Add(e.tolerance)

	var window []Candidate
	for _, c := range free {
		if c.Time.After(cutoff) {
			break
		}
		window = append(window, c)
		if len(window) == maxScoredCandidates {
			break
		}
	}
	if len(window) < 2 {
		return earliest
	}

	ranked, err := e.scorer.Score(ctx, window)
	if err != nil || len(ranked) == 0 {
		if err != nil {
			e.logger.Warn("slot scorer failed, using earliest slot", "error", err)
		}
		return earliest
	}
	if ranked[0].Time.After(cutoff) {
		return earliest
	}
	return ranked[0]
}

func (e *Engine) candidateDoctors(ctx context.Context, req NextAvailableRequest) ([]doctors.Doctor, string, error) {
	if name := strings.TrimSpace(req.DoctorName); name != "" {
		doctor, err := e.doctors.GetByName(ctx, name)
		if err != nil {
			if err == doctors.ErrDoctorNotFound {
				return nil, "", domainErrorf(CodeDoctorNotFound, "doctor %q not found", name)
			}
			return nil, "", err
		}
		return []doctors.Doctor{*doctor}, doctor.Name, nil
	}

	if disease := strings.TrimSpace(req.Disease); disease != "" {
		specialty, ok, err := e.doctors.ResolveSpecialty(ctx, disease)
		if err != nil {
			return nil, "", err
		}
		if ok {
			matched, err := e.doctors.ListBySpecialty(ctx, specialty)
			if err != nil {
				return nil, "", err
			}
			if len(matched) > 0 {
				return matched, "", nil
			}
		}
		// Unknown disease falls through to the full roster.
	}

	all, err := e.doctors.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}
	return all, "", nil
}

func (e *Engine) observeBook(err error) {
	e.metrics.ObserveBook(outcome(err))
}

func (e *Engine) observeCancel(err error) {
	e.metrics.ObserveCancel(outcome(err))
}

func (e *Engine) observeSearch(err error, seconds float64) {
	e.metrics.ObserveSearch(outcome(err), seconds)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code, ok := CodeOf(err); ok {
		return string(code)
	}
	return "infrastructure_error"
}

//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/domain/employee"
	"gym-booking/internal/domain/session"
	"gym-booking/internal/infra"
	"gym-booking/internal/infra/db"
	"gym-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgconn"
)

type storedBooking struct {
	id         int64
	employeeID string
	scheduleID int64
	date       string
	status     booking.Status
	entity     *booking.Booking
}

// memStore is an in-memory booking store. uniqueActive emulates the partial
// unique index on (employee, date).
type memStore struct {
	mu           sync.Mutex
	sessions     []session.Session
	bookings     []storedBooking
	nextID       int64
	uniqueActive bool

	// fastPathBarrier holds every fast-path capacity read until all
	// admissions have made one.
	fastPathBarrier *sync.WaitGroup
	// staleReads makes fast-path reads see an empty store.
	staleReads   bool
	readErr      error
	closedBefore *booking.Date
}

func newMemStore(sessions ...session.Session) *memStore {
	return &memStore{sessions: sessions, nextID: 100, uniqueActive: true}
}

func (s *memStore) seed(employeeID string, scheduleID int64, date string, status booking.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.bookings = append(s.bookings, storedBooking{id: s.nextID, employeeID: employeeID, scheduleID: scheduleID, date: date, status: status})
}

func (s *memStore) activeFor(scheduleID int64, date string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.scheduleID == scheduleID && b.date == date && b.status.IsActive() {
			n++
		}
	}
	return n
}

func (s *memStore) inserted() []*booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*booking.Booking
	for _, b := range s.bookings {
		if b.entity != nil {
			out = append(out, b.entity)
		}
	}
	return out
}

type fakeUoW struct {
	store *memStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store, fastPath: true}
}

type fakeTx struct {
	store *memStore
}

func (t *fakeTx) Bookings() shared.BookingRepository { return &fakeRepo{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads         { return &fakeReads{store: t.store} }
func (t *fakeTx) DB() db.DBTX                        { return nil }

type fakeReads struct {
	store    *memStore
	fastPath bool
}

func (r *fakeReads) SessionByStart(_ context.Context, name, startTime string) (*session.Session, error) {
	if r.store.readErr != nil {
		return nil, r.store.readErr
	}
	for _, s := range r.store.sessions {
		if s.Name == name && s.StartTime == startTime {
			sess := s
			return &sess, nil
		}
	}
	return nil, infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
}

func (r *fakeReads) HasActiveBooking(_ context.Context, employeeID string, date booking.Date) (bool, error) {
	if r.fastPath && r.store.staleReads {
		return false, nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bookings {
		if b.employeeID == employeeID && b.date == date.String() && b.status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReads) CountActiveBookings(_ context.Context, scheduleID int64, date booking.Date) (int, error) {
	n := r.store.activeFor(scheduleID, date.String())
	if r.fastPath {
		if r.store.staleReads {
			n = 0
		}
		if r.store.fastPathBarrier != nil {
			r.store.fastPathBarrier.Done()
			r.store.fastPathBarrier.Wait()
		}
	}
	return n, nil
}

type fakeRepo struct {
	store *memStore
}

func (r *fakeRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uniqueActive {
		for _, existing := range s.bookings {
			if existing.employeeID == b.EmployeeID().String() && existing.date == b.BookingDate().String() && existing.status.IsActive() {
				return 0, infra.WrapRepoErr("failed to create booking", &pgconn.PgError{Code: "23505"})
			}
		}
	}

	// Widen the window between the fast-path read and the write.
	time.Sleep(time.Millisecond)

	s.nextID++
	s.bookings = append(s.bookings, storedBooking{
		id:         s.nextID,
		employeeID: b.EmployeeID().String(),
		scheduleID: b.ScheduleID(),
		date:       b.BookingDate().String(),
		status:     b.Status(),
		entity:     b,
	})
	return s.nextID, nil
}

func (r *fakeRepo) CloseBefore(_ context.Context, _ db.DBTX, date booking.Date) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closedBefore = &date

	var n int64
	for i, b := range s.bookings {
		if b.date >= date.String() || !b.status.IsActive() {
			continue
		}
		if b.status == booking.StatusBooked {
			s.bookings[i].status = booking.StatusExpired
		} else {
			s.bookings[i].status = booking.StatusCompleted
		}
		n++
	}
	return n, nil
}

type fakeDirectory struct {
	records    map[string]employee.DirectoryRecord
	employment map[string]*employee.EmploymentRecord
	cards      map[string]*employee.CardRecord
	findErr    error
	cardErr    error
}

func (d *fakeDirectory) FindEmployee(_ context.Context, id string) (*employee.DirectoryRecord, error) {
	if d.findErr != nil {
		return nil, d.findErr
	}
	rec, ok := d.records[id]
	if !ok {
		return nil, infra.WrapRepoErr("employee not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (d *fakeDirectory) LatestEmployment(_ context.Context, id string) (*employee.EmploymentRecord, error) {
	return d.employment[id], nil
}

func (d *fakeDirectory) FindCard(_ context.Context, id string) (*employee.CardRecord, error) {
	if d.cardErr != nil {
		return nil, d.cardErr
	}
	return d.cards[id], nil
}

// everyone resolves any employee id to a generic directory record.
type everyone struct {
	fakeDirectory
}

func (d *everyone) FindEmployee(_ context.Context, id string) (*employee.DirectoryRecord, error) {
	return &employee.DirectoryRecord{EmployeeID: id, Name: "Employee " + id}, nil
}

type recordingObserver struct {
	mu        sync.Mutex
	outcomes  []string
	lockModes []string
	bootstrap []string
	expired   int64
}

func (o *recordingObserver) ObserveAdmission(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveLockWait(mode string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lockModes = append(o.lockModes, mode)
}

func (o *recordingObserver) ObserveBootstrap(result string) {
	o.bootstrap = append(o.bootstrap, result)
}

func (o *recordingObserver) AddExpired(n int64) {
	o.expired += n
}

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"gym-booking/internal/domain/booking"
	"gym-booking/internal/domain/employee"
	"gym-booking/internal/domain/session"
	"gym-booking/internal/infra"
	"gym-booking/internal/pkg/clock"
	"gym-booking/internal/pkg/errs"
	"gym-booking/internal/usecase/shared"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=commandsmock

var (
	ErrValidation       = errs.New("validation failed")
	ErrSessionNotFound  = errs.New("Session not found")
	ErrDuplicateBooking = errs.New("You are already registered for this day")
	ErrCapacityExceeded = errs.New("This session is full")
	ErrEmployeeNotFound = errs.New("Employee not found")
	ErrSchemaResolution = errs.New("Employee directory could not be resolved")
	ErrInfrastructure   = errs.New("Booking service is temporarily unavailable")
)

type DeclineCode string

const (
	CodeValidation       DeclineCode = "VALIDATION_ERROR"
	CodeSessionNotFound  DeclineCode = "SESSION_NOT_FOUND"
	CodeDuplicateBooking DeclineCode = "DUPLICATE_BOOKING"
	CodeCapacityExceeded DeclineCode = "CAPACITY_EXCEEDED"
	CodeEmployeeNotFound DeclineCode = "EMPLOYEE_NOT_FOUND"
	CodeSchemaResolution DeclineCode = "SCHEMA_RESOLUTION_ERROR"
	CodeInfrastructure   DeclineCode = "INFRASTRUCTURE_ERROR"
)

type CreateBookingRequest struct {
	EmployeeID  string
	SessionID   string // <SessionName>__<HH:MM>
	BookingDate string // YYYY-MM-DD
}

// AdmissionResult is the outcome of one admission. Declines are results,
// not errors.
type AdmissionResult struct {
	OK         bool
	BookingID  int64
	ScheduleID int64
	Error      string
	Code       DeclineCode
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) *AdmissionResult
}

type bookingUseCaseImpl struct {
	uow       shared.UnitOfWork
	directory EmployeeDirectory
	locker    shared.AdmissionLocker
	observer  AdmissionObserver
	clock     clock.Clock
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	directory EmployeeDirectory,
	locker shared.AdmissionLocker,
	observer AdmissionObserver,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:       uow,
		directory: directory,
		locker:    locker,
		observer:  observer,
		clock:     clk,
	}
}

func (uc *bookingUseCaseImpl) CreateBooking(ctx context.Context, req CreateBookingRequest) *AdmissionResult {
	started := uc.clock.Now()

	result, err := uc.admit(ctx, req)
	if err != nil {
		result = decline(err)
		if result.Code == CodeInfrastructure || result.Code == CodeSchemaResolution {
			slog.ErrorContext(ctx, "booking admission failed",
				"employee_id", req.EmployeeID,
				"session_id", req.SessionID,
				"booking_date", req.BookingDate,
				"code", string(result.Code),
				"error", err,
				"stack", errs.ExtractStackLines(err, 8))
		} else {
			slog.InfoContext(ctx, "booking declined",
				"employee_id", req.EmployeeID,
				"session_id", req.SessionID,
				"booking_date", req.BookingDate,
				"code", string(result.Code))
		}
	}

	if uc.observer != nil {
		outcome := "ADMITTED"
		if !result.OK {
			outcome = string(result.Code)
		}
		uc.observer.ObserveAdmission(outcome, uc.clock.Now().Sub(started))
	}
	return result
}

func (uc *bookingUseCaseImpl) admit(ctx context.Context, req CreateBookingRequest) (*AdmissionResult, error) {
	employeeID, err := booking.NewEmployeeID(req.EmployeeID)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	ref, err := booking.ParseSessionRef(req.SessionID)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	date, err := booking.ParseDate(req.BookingDate)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	reads := uc.uow.CommandReads()

	sess, err := reads.SessionByStart(ctx, ref.Name(), ref.StartTime())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	taken, err := reads.HasActiveBooking(ctx, employeeID.String(), date)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateBooking
	}

	count, err := reads.CountActiveBookings(ctx, sess.ScheduleID, date)
	if err != nil {
		return nil, err
	}
	if sess.IsFull(count) {
		return nil, ErrCapacityExceeded
	}

	profile, err := uc.resolveProfile(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	entity, err := booking.NewBooking(profile, *sess, date)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	bookingID, err := uc.insert(ctx, entity, *sess, date)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking admitted",
		"booking_id", bookingID,
		"employee_id", employeeID.String(),
		"schedule_id", sess.ScheduleID,
		"booking_date", date.String())

	return &AdmissionResult{OK: true, BookingID: bookingID, ScheduleID: sess.ScheduleID}, nil
}

// insert re-checks the quota under the slot lock and writes the row. The
// lock spans the transaction and is released only after commit.
func (uc *bookingUseCaseImpl) insert(ctx context.Context, entity *booking.Booking, sess session.Session, date booking.Date) (int64, error) {
	var (
		bookingID int64
		release   func()
	)
	defer func() {
		if release != nil {
			release()
		}
	}()

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if release != nil {
			release()
			release = nil
		}

		if uc.locker.Enforces() {
			waitStarted := uc.clock.Now()
			rel, err := uc.locker.Acquire(ctx, tx.DB(), SlotLockKey(sess.ScheduleID, date))
			if uc.observer != nil {
				uc.observer.ObserveLockWait(uc.locker.Mode(), uc.clock.Now().Sub(waitStarted))
			}
			if err != nil {
				return err
			}
			release = rel

			count, err := tx.Reads().CountActiveBookings(ctx, sess.ScheduleID, date)
			if err != nil {
				return err
			}
			if sess.IsFull(count) {
				return ErrCapacityExceeded
			}
		}

		id, err := tx.Bookings().Create(ctx, tx.DB(), entity)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateBooking
			}
			return err
		}
		bookingID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return bookingID, nil
}

func (uc *bookingUseCaseImpl) resolveProfile(ctx context.Context, employeeID booking.EmployeeID) (employee.Profile, error) {
	id := employeeID.String()

	rec, err := uc.directory.FindEmployee(ctx, id)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return employee.Profile{}, ErrEmployeeNotFound
		case infra.IsKind(err, infra.KindSchemaResolution):
			return employee.Profile{}, errs.Mark(err, ErrSchemaResolution)
		default:
			return employee.Profile{}, err
		}
	}

	employment, err := uc.directory.LatestEmployment(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "employment lookup failed, keeping directory department",
			"employee_id", id, "error", err)
		employment = nil
	}

	card, err := uc.directory.FindCard(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "card lookup failed, keeping directory card number",
			"employee_id", id, "error", err)
		card = nil
	}

	profile := employee.BuildProfile(*rec, employment, card)
	profile.EmployeeID = id
	return profile, nil
}

// SlotLockKey names the admission lock for one session on one date.
func SlotLockKey(scheduleID int64, date booking.Date) string {
	return fmt.Sprintf("gym-slot:%d:%s", scheduleID, date.String())
}

func decline(err error) *AdmissionResult {
	code, message := classify(err)
	return &AdmissionResult{OK: false, Error: message, Code: code}
}

func classify(err error) (DeclineCode, string) {
	switch {
	case errs.Is(err, ErrValidation):
		return CodeValidation, validationMessage(err)
	case errs.Is(err, ErrSessionNotFound):
		return CodeSessionNotFound, ErrSessionNotFound.Error()
	case errs.Is(err, ErrDuplicateBooking):
		return CodeDuplicateBooking, ErrDuplicateBooking.Error()
	case errs.Is(err, ErrCapacityExceeded):
		return CodeCapacityExceeded, ErrCapacityExceeded.Error()
	case errs.Is(err, ErrEmployeeNotFound):
		return CodeEmployeeNotFound, ErrEmployeeNotFound.Error()
	case errs.Is(err, ErrSchemaResolution):
		return CodeSchemaResolution, ErrSchemaResolution.Error()
	default:
		return CodeInfrastructure, ErrInfrastructure.Error()
	}
}

func validationMessage(err error) string {
	for _, known := range []error{
		booking.ErrEmployeeIDRequired,
		booking.ErrInvalidSessionRef,
		booking.ErrInvalidBookingDate,
	} {
		if errs.Is(err, known) {
			return known.Error()
		}
	}
	return ErrValidation.Error()
}

package commands

import (
	"context"
	"time"

	"gym-booking/internal/domain/employee"
)

// EmployeeDirectory reads the externally owned employee and card stores.
// FindEmployee reports a missing employee as infra KindNotFound;
// LatestEmployment and FindCard return nil when nothing matches.
type EmployeeDirectory interface {
	FindEmployee(ctx context.Context, employeeID string) (*employee.DirectoryRecord, error)
	LatestEmployment(ctx context.Context, employeeID string) (*employee.EmploymentRecord, error)
	FindCard(ctx context.Context, employeeID string) (*employee.CardRecord, error)
}

type AdmissionObserver interface {
	ObserveAdmission(outcome string, elapsed time.Duration)
	ObserveLockWait(mode string, elapsed time.Duration)
}

type BootstrapObserver interface {
	ObserveBootstrap(result string)
}

type SweepObserver interface {
	AddExpired(n int64)
}

// ResolverCache is the directory schema cache an operator can flush after
// the external stores change shape.
type ResolverCache interface {
	Invalidate()
}

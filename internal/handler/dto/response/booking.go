package response

import (
	"time"

	"gym-booking/internal/usecase/commands"
	"gym-booking/internal/usecase/queries"
	"gym-booking/internal/usecase/shared"

	"github.com/jinzhu/copier"
)

type AdmissionResponse struct {
	OK         bool   `json:"ok"`
	BookingID  *int64 `json:"bookingId,omitempty"`
	ScheduleID *int64 `json:"scheduleId,omitempty"`
	Error      string `json:"error,omitempty"`
	Code       string `json:"code,omitempty"`
}

func FromAdmissionResult(r *commands.AdmissionResult) *AdmissionResponse {
	if r == nil {
		return &AdmissionResponse{
			Error: commands.ErrInfrastructure.Error(),
			Code:  string(commands.CodeInfrastructure),
		}
	}
	res := &AdmissionResponse{OK: r.OK, Error: r.Error, Code: string(r.Code)}
	if r.OK {
		bookingID, scheduleID := r.BookingID, r.ScheduleID
		res.BookingID = &bookingID
		res.ScheduleID = &scheduleID
	}
	return res
}

type RosterEntryResponse struct {
	BookingID       int64      `json:"bookingId"`
	EmployeeID      string     `json:"employeeId"`
	EmployeeName    string     `json:"employeeName"`
	Department      *string    `json:"department,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	CardNo          *string    `json:"cardNo,omitempty"`
	SessionName     string     `json:"sessionName"`
	ScheduleID      int64      `json:"scheduleId"`
	StartTime       string     `json:"startTime"`
	BookingDate     string     `json:"bookingDate" copier:"-"`
	Status          string     `json:"status"`
	ApprovalStatus  string     `json:"approvalStatus"`
	ApprovedBy      *string    `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func FromRoster(entries []*queries.RosterEntry) ([]*RosterEntryResponse, error) {
	res := make([]*RosterEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := &RosterEntryResponse{}
		if err := copier.Copy(item, e); err != nil {
			return nil, err
		}
		item.BookingDate = e.BookingDate.Format(time.DateOnly)
		res = append(res, item)
	}
	return res, nil
}

type ColumnResponse struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

type DuplicateGroupResponse struct {
	EmployeeID  string `json:"employeeId"`
	BookingDate string `json:"bookingDate"`
	Count       int    `json:"count"`
}

type BootstrapResponse struct {
	OK           bool                     `json:"ok"`
	Columns      []ColumnResponse         `json:"columns,omitempty"`
	IndexOK      bool                     `json:"indexOk"`
	TodayIndexOK bool                     `json:"todayIndexOk"`
	Duplicates   []DuplicateGroupResponse `json:"duplicates,omitempty"`
	Error        string                   `json:"error,omitempty"`
}

func FromBootstrapReport(r *shared.BootstrapReport, errMsg string) (*BootstrapResponse, error) {
	res := &BootstrapResponse{Error: errMsg}
	if r == nil {
		return res, nil
	}
	res.OK = r.OK
	res.IndexOK = r.IndexOK
	res.TodayIndexOK = r.TodayIndexOK
	if len(r.Columns) > 0 {
		if err := copier.Copy(&res.Columns, r.Columns); err != nil {
			return nil, err
		}
	}
	for _, d := range r.Duplicates {
		res.Duplicates = append(res.Duplicates, DuplicateGroupResponse{
			EmployeeID:  d.EmployeeID,
			BookingDate: d.BookingDate.Format(time.DateOnly),
			Count:       d.Count,
		})
	}
	return res, nil
}

type CacheInvalidationResponse struct {
	Invalidated int `json:"invalidated"`
}

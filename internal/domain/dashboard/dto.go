package dashboard

// SummaryRequest selects the day the summary is computed for. An empty Date means today.
type SummaryRequest struct {
	Date string `json:"date" validate:"omitempty,date"`
}

// SummaryResponse is the combined response for the dashboard summary endpoint
type SummaryResponse struct {
	Date       string                  `json:"date"`
	Headcount  HeadcountResponse       `json:"headcount"`
	Attendance AttendanceTodayResponse `json:"attendance"`
	Leaves     LeaveSummaryResponse    `json:"leaves"`
	Payroll    PayrollSummaryResponse  `json:"payroll"`
}

// ========== HEADCOUNT ==========

type HeadcountResponse struct {
	Total        int64                 `json:"total"`
	ByDepartment []DepartmentHeadcount `json:"by_department"`
}

// DepartmentHeadcount is one row of the per-department breakdown. Employees
// without a department are reported with a nil DepartmentID.
type DepartmentHeadcount struct {
	DepartmentID   *string `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	Count          int64   `json:"count"`
}

// ========== ATTENDANCE ==========

type AttendanceTodayResponse struct {
	Present int64 `json:"present"`
	Late    int64 `json:"late"`
	Absent  int64 `json:"absent"`
	Leave   int64 `json:"leave"`
	Total   int64 `json:"total"`
}

// ========== LEAVES ==========

type LeaveSummaryResponse struct {
	Pending int64 `json:"pending"`
}

// ========== PAYROLL ==========

type PayrollSummaryResponse struct {
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	Count    int64  `json:"count"`
	TotalNet string `json:"total_net"`
}

package directory

// Logical field names shared by the entities below.
const (
	FieldEmployeeID = "employee_id"
	FieldName       = "name"
	FieldDepartment = "department"
	FieldCardNo     = "card_no"
	FieldGender     = "gender"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldActive     = "active"
)

// Field is a logical column and the physical names it is known by, in
// priority order.
type Field struct {
	Logical  string
	Aliases  []string
	Required bool
}

// Entity describes a logical table in a store whose naming we do not control.
type Entity struct {
	Name   string
	Tables []string
	Fields []Field
}

func (e Entity) Field(logical string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Logical == logical {
			return f, true
		}
	}
	return Field{}, false
}

var employeeIDField = Field{
	Logical:  FieldEmployeeID,
	Aliases:  []string{"employee_id", "EmployeeID", "Employee ID", "EmployeeId", "emp_id", "EmpID", "employee_no", "EmployeeNo", "nik"},
	Required: true,
}

var departmentField = Field{
	Logical: FieldDepartment,
	Aliases: []string{"department", "Department", "dept", "Dept", "department_name", "DepartmentName", "division", "Division"},
}

var (
	EmployeeMaster = Entity{
		Name:   "employee",
		Tables: []string{"employees", "employee", "EmployeeMaster", "employee_master", "MasterEmployee", "master_employee"},
		Fields: []Field{
			employeeIDField,
			{
				Logical:  FieldName,
				Aliases:  []string{"name", "Name", "employee_name", "Employee Name", "full_name", "FullName"},
				Required: true,
			},
			departmentField,
			{
				Logical: FieldCardNo,
				Aliases: []string{"card_no", "CardNo", "card_number", "CardNumber", "Card No", "badge_no", "BadgeNo"},
			},
			{
				Logical: FieldGender,
				Aliases: []string{"gender", "Gender", "sex", "Sex"},
			},
		},
	}

	Employment = Entity{
		Name:   "employment",
		Tables: []string{"employment", "employments", "employee_employment", "EmploymentHistory", "employment_history"},
		Fields: []Field{
			employeeIDField,
			{
				Logical:  FieldDepartment,
				Aliases:  departmentField.Aliases,
				Required: true,
			},
			{
				Logical: FieldStartDate,
				Aliases: []string{"start_date", "StartDate", "Start Date", "date_start", "join_date", "JoinDate", "effective_date"},
			},
			{
				Logical: FieldEndDate,
				Aliases: []string{"end_date", "EndDate", "End Date", "date_end", "resign_date", "ResignDate", "termination_date"},
			},
		},
	}

	EmployeeCard = Entity{
		Name:   "card",
		Tables: []string{"CardDB", "employee_card", "employee_cards", "cards", "card"},
		Fields: []Field{
			employeeIDField,
			{
				Logical:  FieldCardNo,
				Aliases:  []string{"card_no", "CardNo", "card_number", "CardNumber", "Card No", "badge_no", "BadgeNo"},
				Required: true,
			},
			{
				Logical: FieldActive,
				Aliases: []string{"active", "Active", "is_active", "IsActive", "status", "Status", "enabled"},
			},
		},
	}
)

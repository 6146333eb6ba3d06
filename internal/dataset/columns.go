package dataset

// Source columns.
const (
	ColHSC         = "HSC"
	ColSSC         = "SSC"
	ColLast        = "Last"
	ColOverall     = "Overall"
	ColPreparation = "Preparation"
	ColAttendance  = "Attendance"
	ColGender      = "Gender"
	ColDepartment  = "Department"
	ColHometown    = "Hometown"
	ColIncome      = "Income"
	ColSemester    = "Semester"
	ColGaming      = "Gaming"
)

// Derived columns, attached at load time.
const (
	ColPreparationNumeric = "Preparation_numeric"
	ColAttendanceNumeric  = "Attendance_numeric"
	ColSemesterSort       = "Semester_sort"
)

// ScoreColumns are the numeric columns coerced at load time.
func ScoreColumns() []string {
	return []string{ColSSC, ColHSC, ColLast, ColOverall}
}

// RequiredColumns are the columns whose missing values drop a record.
func RequiredColumns() []string {
	return []string{ColHSC, ColLast, ColOverall}
}

// ExpectedColumns lists every column the dashboard reads.
func ExpectedColumns() []string {
	return []string{
		ColHSC, ColSSC, ColLast, ColOverall,
		ColPreparation, ColAttendance, ColGender, ColDepartment,
		ColHometown, ColIncome, ColSemester, ColGaming,
	}
}

package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionUsersManage allows listing, creating and deleting accounts.
	PermissionUsersManage Permission = "users:manage"

	// PermissionClassesRead allows viewing classes.
	PermissionClassesRead Permission = "classes:read"

	// PermissionClassesWrite allows creating, updating and deleting classes.
	PermissionClassesWrite Permission = "classes:write"

	// PermissionStudentsRead allows viewing student lists and details.
	PermissionStudentsRead Permission = "students:read"

	// PermissionStudentsWrite allows creating, updating and deleting students.
	PermissionStudentsWrite Permission = "students:write"

	// PermissionSubjectsRead allows viewing subjects.
	PermissionSubjectsRead Permission = "subjects:read"

	// PermissionSubjectsWrite allows creating, updating and deleting subjects.
	PermissionSubjectsWrite Permission = "subjects:write"

	// PermissionExamsRead allows viewing exams.
	PermissionExamsRead Permission = "exams:read"

	// PermissionExamsWrite allows creating, updating and deleting exams.
	PermissionExamsWrite Permission = "exams:write"

	// PermissionMarksWrite allows entering and reviewing marks.
	PermissionMarksWrite Permission = "marks:write"

	// PermissionReportsReadAll allows reading any student's results.
	PermissionReportsReadAll Permission = "reports:read_all"

	// PermissionReportsReadOwn allows reading the bound student's results.
	PermissionReportsReadOwn Permission = "reports:read_own"

	// PermissionDashboardRead allows viewing the summary dashboard.
	PermissionDashboardRead Permission = "dashboard:read"
)

// RolePermissions is the fixed permission set of each role.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionUsersManage,
		PermissionClassesRead, PermissionClassesWrite,
		PermissionStudentsRead, PermissionStudentsWrite,
		PermissionSubjectsRead, PermissionSubjectsWrite,
		PermissionExamsRead, PermissionExamsWrite,
		PermissionMarksWrite,
		PermissionReportsReadAll,
		PermissionDashboardRead,
	},
	RoleTeacher: {
		PermissionClassesRead,
		PermissionStudentsRead,
		PermissionSubjectsRead,
		PermissionExamsRead,
		PermissionMarksWrite,
		PermissionReportsReadAll,
	},
	RoleStudent: {
		PermissionReportsReadOwn,
	},
}

// PermissionCodes returns the permission codes granted to role.
func PermissionCodes(role Role) []string {
	perms := RolePermissions[role]
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = string(p)
	}
	return codes
}

package rbac

const (
	RoleLearner = "learner"
	RoleAuthor  = "author"
	RoleAdmin   = "admin"
)

const (
	PermCourseView    = "course:view"
	PermCourseWrite   = "course:write"
	PermProgressWrite = "progress:write"
	PermMediaResolve  = "media:resolve"
)

// RolePermissions is the default policy. Patterns ending in '*' match by
// prefix.
var RolePermissions = map[string][]string{
	RoleLearner: {
		PermCourseView,
		PermProgressWrite,
		PermMediaResolve,
	},
	RoleAuthor: {
		"course:*",
		PermProgressWrite,
		PermMediaResolve,
	},
	RoleAdmin: {
		"*",
	},
}

// KnownRole reports whether role has an entry in the default policy.
func KnownRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

package domain

// ComplaintField names a mutable or projected complaint attribute.
type ComplaintField string

const (
	FieldTitle       ComplaintField = "title"
	FieldDescription ComplaintField = "description"
	FieldStatus      ComplaintField = "status"
	FieldPriority    ComplaintField = "priority"
	FieldAssignedTo  ComplaintField = "assignedTo"
)

// FieldPermission describes what a role may do with a complaint field.
type FieldPermission struct {
	Readable bool
	Writable bool
}

// complaintPermissions is the (role, field) permission matrix. Write
// permission is evaluated against complaints the role already has access to:
// admins reach every complaint, support staff only complaints assigned to
// them, users only complaints they created. That access predicate lives in
// RoleCanAccess; this table covers field-level rights only.
//
// Note the creator may write status to any value, not only resolved/closed.
var complaintPermissions = map[Role]map[ComplaintField]FieldPermission{
	RoleAdmin: {
		FieldTitle:       {Readable: true},
		FieldDescription: {Readable: true},
		FieldStatus:      {Readable: true, Writable: true},
		FieldPriority:    {Readable: true, Writable: true},
		FieldAssignedTo:  {Readable: true, Writable: true},
	},
	RoleSupportStaff: {
		FieldTitle:       {Readable: true},
		FieldDescription: {Readable: true},
		FieldStatus:      {Readable: true, Writable: true},
		FieldPriority:    {Readable: true, Writable: true},
		FieldAssignedTo:  {Readable: false},
	},
	RoleUser: {
		FieldTitle:       {Readable: true, Writable: true},
		FieldDescription: {Readable: true, Writable: true},
		FieldStatus:      {Readable: true, Writable: true},
		FieldPriority:    {Readable: false},
		FieldAssignedTo:  {Readable: false},
	},
}

// CanWrite reports whether the role may mutate the field.
func CanWrite(role Role, field ComplaintField) bool {
	perms, ok := complaintPermissions[role]
	if !ok {
		return false
	}
	return perms[field].Writable
}

// CanRead reports whether the role may see the field in list projections.
func CanRead(role Role, field ComplaintField) bool {
	perms, ok := complaintPermissions[role]
	if !ok {
		return false
	}
	return perms[field].Readable
}

// RoleCanAccess reports whether the caller may operate on the complaint at
// all: admins always, support staff when assigned, users when they filed it.
func RoleCanAccess(role Role, callerID string, c *Complaint) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleSupportStaff:
		return c.AssignedTo != nil && *c.AssignedTo == callerID
	case RoleUser:
		return c.CreatedBy == callerID
	}
	return false
}

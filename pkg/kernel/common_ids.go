package kernel

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type CompanyID string

func NewCompanyID(id string) CompanyID { return CompanyID(id) }
func (c CompanyID) String() string     { return string(c) }
func (c CompanyID) IsEmpty() bool      { return string(c) == "" }

// UserRole is the platform-wide role of an account
type UserRole string

const (
	RoleCandidate UserRole = "candidate"
	RoleEmployer  UserRole = "employer"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleCandidate, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// Actor identifies the authenticated caller of a service operation
type Actor struct {
	UserID UserID
	Role   UserRole
}

func (a *Actor) IsAdmin() bool     { return a != nil && a.Role == RoleAdmin }
func (a *Actor) IsCandidate() bool { return a != nil && a.Role == RoleCandidate }
func (a *Actor) IsEmployer() bool  { return a != nil && a.Role == RoleEmployer }

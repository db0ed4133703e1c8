package kernel

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (r JobID) String() string { return string(r) }
func (r JobID) IsEmpty() bool  { return string(r) == "" }

type SkillID string

func NewSkillID(id string) SkillID { return SkillID(id) }
func (r SkillID) String() string   { return string(r) }
func (r SkillID) IsEmpty() bool    { return string(r) == "" }

type ApplicationID string

func NewApplicationID(id string) ApplicationID { return ApplicationID(id) }
func (r ApplicationID) String() string         { return string(r) }
func (r ApplicationID) IsEmpty() bool          { return string(r) == "" }

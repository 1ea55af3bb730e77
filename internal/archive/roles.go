package archive

// Role names used throughout the pipeline.
const (
	RoleChart         = "chart"
	RoleChartBalances = "chartBalances"
	RoleCustomers     = "customers"
	RoleVendors       = "vendors"
	RoleJournalRows   = "journalRows"
)

// Role binds a logical buffer to the member-name fragment that selects it.
type Role struct {
	Name     string `yaml:"name"`
	Fragment string `yaml:"fragment"`
	Required bool   `yaml:"required"`
}

// DefaultRoles returns the Peachtree member table. Only the chart is required.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleChart, Fragment: "CHART", Required: true},
		{Name: RoleChartBalances, Fragment: "CHARTAR"},
		{Name: RoleCustomers, Fragment: "CUSTOMER"},
		{Name: RoleVendors, Fragment: "VENDOR"},
		{Name: RoleJournalRows, Fragment: "JRNLROW"},
	}
}

// Kind tags how a role resolved against the archive members.
type Kind int

const (
	Missing Kind = iota
	Found
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Ambiguous:
		return "ambiguous"
	default:
		return "missing"
	}
}

// Resolution is the outcome of matching one role. Candidates lists every
// matching member in archive order; the first one is used even when the
// match is ambiguous.
type Resolution struct {
	Role       Role
	Kind       Kind
	Candidates []string
}

// Member returns the selected member name, or "" when the role is missing.
func (r Resolution) Member() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0]
}

package profile

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is one user's public developer profile. Experience and education
// entries are embedded and ordered newest-first.
type Profile struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User           Owner              `json:"user" bson:"user"`
	Handle         string             `json:"handle,omitempty" bson:"handle,omitempty"`
	Company        string             `json:"company,omitempty" bson:"company,omitempty"`
	Website        string             `json:"website,omitempty" bson:"website,omitempty"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Status         string             `json:"status,omitempty" bson:"status,omitempty"`
	GitHubUsername string             `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Skills         []string           `json:"skills" bson:"skills"`
	Experience     []Experience       `json:"experience" bson:"experience"`
	Education      []Education        `json:"education" bson:"education"`
	CreatedAt      time.Time          `json:"date" bson:"date"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Experience struct {
	Title       string     `json:"title" bson:"title"`
	Company     string     `json:"company" bson:"company"`
	Location    string     `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time  `json:"from" bson:"from"`
	To          *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool       `json:"current" bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	School      string     `json:"school" bson:"school"`
	Degree      string     `json:"degree" bson:"degree"`
	Major       string     `json:"major" bson:"major"`
	From        time.Time  `json:"from" bson:"from"`
	To          *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool       `json:"current" bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

// Fields is a partial profile update: nil pointers are left untouched and
// Skills is applied only when SkillsSet is true.
type Fields struct {
	Handle         *string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string
	SkillsSet      bool
}

// Filter selects a single profile by owner or handle. Empty fields are ignored.
type Filter struct {
	Owner  string
	Handle string
}

func (f Filter) IsZero() bool { return f.Owner == "" && f.Handle == "" }

// New builds a fresh profile for owner with fields applied.
func New(owner string, f Fields) *Profile {
	p := &Profile{
		User:       OwnerRef(owner),
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
	}
	f.Apply(p)
	return p
}

// Apply copies the set fields onto p.
func (f Fields) Apply(p *Profile) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Handle, f.Handle)
	set(&p.Company, f.Company)
	set(&p.Website, f.Website)
	set(&p.Location, f.Location)
	set(&p.Bio, f.Bio)
	set(&p.Status, f.Status)
	set(&p.GitHubUsername, f.GitHubUsername)
	if f.SkillsSet {
		p.Skills = append([]string{}, f.Skills...)
	}
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Skills = append([]string{}, p.Skills...)
	cp.Experience = make([]Experience, len(p.Experience))
	for i, e := range p.Experience {
		cp.Experience[i] = e
		if e.To != nil {
			to := *e.To
			cp.Experience[i].To = &to
		}
	}
	cp.Education = make([]Education, len(p.Education))
	for i, e := range p.Education {
		cp.Education[i] = e
		if e.To != nil {
			to := *e.To
			cp.Education[i].To = &to
		}
	}
	return &cp
}

// SplitSkills turns "go, js,,sql" into ["go" "js" "sql"].
func SplitSkills(raw string) []string {
	out := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package models

// Records below mirror the teacher-training JSON:API resources. They are populated
// entirely from one response (relations arrive through `include`) and never lazy-load.

const (
	SiteStatusRunning      = "running"
	SiteStatusNew          = "new_status"
	SiteStatusSuspended    = "suspended"
	SiteStatusDiscontinued = "discontinued"

	ProviderTypeUniversity = "university"
	ProviderTypeSCITT      = "scitt"
	ProviderTypeLeadSchool = "lead_school"
)

type Provider struct {
	ID           string `jsonapi:"primary,providers"`
	ProviderCode string `jsonapi:"attr,provider_code"`
	ProviderName string `jsonapi:"attr,provider_name"`
	ProviderType string `jsonapi:"attr,provider_type,omitempty"`
	Website      string `jsonapi:"attr,website,omitempty"`
	Postcode     string `jsonapi:"attr,postcode,omitempty"`
}

type Site struct {
	ID           string   `jsonapi:"primary,sites"`
	Code         string   `jsonapi:"attr,code"`
	LocationName string   `jsonapi:"attr,location_name"`
	Address1     string   `jsonapi:"attr,address1,omitempty"`
	Address2     string   `jsonapi:"attr,address2,omitempty"`
	Address3     string   `jsonapi:"attr,address3,omitempty"`
	Address4     string   `jsonapi:"attr,address4,omitempty"`
	Postcode     string   `jsonapi:"attr,postcode,omitempty"`
	Latitude     *float64 `jsonapi:"attr,latitude,omitempty"`
	Longitude    *float64 `jsonapi:"attr,longitude,omitempty"`
}

// HasCoordinates reports whether the site can take part in distance ranking.
func (s *Site) HasCoordinates() bool {
	return s != nil && s.Latitude != nil && s.Longitude != nil
}

// Address joins the non-empty address lines and postcode.
func (s *Site) Address() string {
	if s == nil {
		return ""
	}
	out := ""
	for _, part := range []string{s.Address1, s.Address2, s.Address3, s.Address4, s.Postcode} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}

type SiteStatus struct {
	ID           string `jsonapi:"primary,site_statuses"`
	Status       string `jsonapi:"attr,status"`
	VacStatus    string `jsonapi:"attr,vac_status,omitempty"`
	HasVacancies bool   `jsonapi:"attr,has_vacancies"`
	Publish      string `jsonapi:"attr,publish,omitempty"`
	Site         *Site  `jsonapi:"relation,site"`
}

// Active is true for every status except suspended.
func (s *SiteStatus) Active() bool {
	return s != nil && s.Status != SiteStatusSuspended
}

type Subject struct {
	ID          string `jsonapi:"primary,subjects"`
	SubjectCode string `jsonapi:"attr,subject_code"`
	SubjectName string `jsonapi:"attr,subject_name"`
}

type SubjectArea struct {
	ID       string     `jsonapi:"primary,subject_areas"`
	Name     string     `jsonapi:"attr,name"`
	Subjects []*Subject `jsonapi:"relation,subjects"`
}

type Course struct {
	ID                   string        `jsonapi:"primary,courses"`
	CourseCode           string        `jsonapi:"attr,course_code"`
	Name                 string        `jsonapi:"attr,name"`
	Qualification        string        `jsonapi:"attr,qualification,omitempty"`
	StudyMode            string        `jsonapi:"attr,study_mode,omitempty"`
	FundingType          string        `jsonapi:"attr,funding_type,omitempty"`
	HasVacancies         bool          `jsonapi:"attr,has_vacancies?"`
	ApplicationsOpenFrom string        `jsonapi:"attr,applications_open_from,omitempty"`
	Provider             *Provider     `jsonapi:"relation,provider"`
	SiteStatuses         []*SiteStatus `jsonapi:"relation,site_statuses"`
}

// HasFees mirrors the funding type check used by the course page.
func (c *Course) HasFees() bool {
	return c.FundingType == "fee"
}

// ActiveSites returns the sites of every non-suspended site status.
func (c *Course) ActiveSites() []*Site {
	var out []*Site
	for _, st := range c.SiteStatuses {
		if st.Active() && st.Site != nil {
			out = append(out, st.Site)
		}
	}
	return out
}

// ProviderSuggestion is one candidate for a free-text provider query.
type ProviderSuggestion struct {
	ID   string `jsonapi:"primary,provider_suggestions" json:"-"`
	Code string `jsonapi:"attr,code" json:"code"`
	Name string `jsonapi:"attr,name" json:"name"`
}

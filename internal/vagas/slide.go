package vagas

// SlideKind discriminates the three slide variants.
type SlideKind string

const (
	SlideCover SlideKind = "cover"
	SlideBack  SlideKind = "back"
	SlideJob   SlideKind = "job"
)

// CompanyType selects the tagline of the standard layout.
type CompanyType string

const (
	CompanyMultinational CompanyType = "multinacional"
	CompanyNational      CompanyType = "nacional"
	CompanyCustom        CompanyType = "custom"
)

// Overrides are sparse per-slide edits. A nil field falls back to the value
// derived from the job posting.
type Overrides struct {
	Title       *string      `json:"title,omitempty" yaml:"title,omitempty"`
	Category    *string      `json:"category,omitempty" yaml:"category,omitempty"`
	Location    *string      `json:"location,omitempty" yaml:"location,omitempty"`
	Contract    *string      `json:"contract,omitempty" yaml:"contract,omitempty"`
	Modality    *string      `json:"modality,omitempty" yaml:"modality,omitempty"`
	Tagline     *string      `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	CompanyType *CompanyType `json:"company_type,omitempty" yaml:"company_type,omitempty"`
	Affirmative *bool        `json:"affirmative,omitempty" yaml:"affirmative,omitempty"`
	Audience    *string      `json:"audience,omitempty" yaml:"audience,omitempty"`
	FooterURL   *string      `json:"footer_url,omitempty" yaml:"footer_url,omitempty"`
}

// IsAffirmative reports whether the slide uses the affirmative layout.
func (o Overrides) IsAffirmative() bool {
	return o.Affirmative != nil && *o.Affirmative
}

// Merge returns o with every field set in other taking precedence.
func (o Overrides) Merge(other Overrides) Overrides {
	if other.Title != nil {
		o.Title = other.Title
	}
	if other.Category != nil {
		o.Category = other.Category
	}
	if other.Location != nil {
		o.Location = other.Location
	}
	if other.Contract != nil {
		o.Contract = other.Contract
	}
	if other.Modality != nil {
		o.Modality = other.Modality
	}
	if other.Tagline != nil {
		o.Tagline = other.Tagline
	}
	if other.CompanyType != nil {
		o.CompanyType = other.CompanyType
	}
	if other.Affirmative != nil {
		o.Affirmative = other.Affirmative
	}
	if other.Audience != nil {
		o.Audience = other.Audience
	}
	if other.FooterURL != nil {
		o.FooterURL = other.FooterURL
	}
	return o
}

// SlideConfig is one editable slide of a carousel or single card session.
type SlideConfig struct {
	ID        string      `json:"id"`
	Kind      SlideKind   `json:"type"`
	Job       *JobPosting `json:"job,omitempty"`
	PhotoURL  string      `json:"image,omitempty"`
	Overrides Overrides   `json:"overrides"`
}

// CoverSlide returns the carousel opening slide.
func CoverSlide() SlideConfig { return SlideConfig{ID: "slide-cover", Kind: SlideCover} }

// BackSlide returns the carousel closing slide.
func BackSlide() SlideConfig { return SlideConfig{ID: "slide-back", Kind: SlideBack} }

// JobSlide returns a job slide for job with the given photo.
func JobSlide(job JobPosting, photoURL string) SlideConfig {
	return SlideConfig{
		ID:       "slide-job-" + job.ID,
		Kind:     SlideJob,
		Job:      &job,
		PhotoURL: photoURL,
	}
}

// Ptr returns a pointer to v, for building Overrides literals.
func Ptr[T any](v T) *T { return &v }

// Package compose turns slide configurations into fully resolved,
// layout-ready slides and renders them as HTML documents.
package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"vagas-go/internal/vagas"
)

// Fallback values used when neither an override nor the job provides one.
const (
	DefaultCategory = "SETOR ADMINISTRATIVO"
	DefaultContract = "CLT (Efetivo)"
	DefaultLocation = "Brasil"
	DefaultAudience = "DIVERSIDADE"
	DefaultFooter   = "metarh.com.br/vagas-metarh"

	TaglineMultinational = "TRABALHE EM UMA EMPRESA MULTINACIONAL"
	TaglineNational      = "TRABALHE EM UMA EMPRESA NACIONAL"
	AffirmativeHeadline  = "VAGA AFIRMATIVA"

	FooterLead = "Candidate-se gratuitamente em"
)

// Brand carries the per-deployment texts printed on slides.
type Brand struct {
	FooterURL string
}

// Badge is one pill in the slide body.
type Badge struct {
	Text  string
	Color string
}

// ResolvedSlide is a slide with every displayed value decided.
type ResolvedSlide struct {
	ID   string
	Kind vagas.SlideKind

	JobID    string
	Title    string
	Category string
	Location string
	Contract string
	Modality string
	PhotoURL string

	// Standard layout.
	Tagline string

	// Affirmative layout.
	Affirmative   bool
	Audience      string
	TaglineTop    string
	TaglineBottom string

	JobCode    string
	FooterLead string
	FooterURL  string

	TitleFontSize    int
	CategoryFontSize int
	Badges           []Badge
}

// Resolve decides every displayed value of slide. Each field comes from
// the override when present, then from the job, then from a default. Job
// slides without a job return vagas.ErrSlideUnavailable.
func Resolve(slide vagas.SlideConfig, brand Brand) (ResolvedSlide, error) {
	r := ResolvedSlide{ID: slide.ID, Kind: slide.Kind}

	switch slide.Kind {
	case vagas.SlideCover, vagas.SlideBack:
		return r, nil
	case vagas.SlideJob:
	default:
		return r, fmt.Errorf("slide %s has unknown kind %q: %w", slide.ID, slide.Kind, vagas.ErrSlideUnavailable)
	}
	if slide.Job == nil {
		return r, fmt.Errorf("slide %s has no job: %w", slide.ID, vagas.ErrSlideUnavailable)
	}

	job := *slide.Job
	o := slide.Overrides

	r.JobID = job.ID
	r.PhotoURL = slide.PhotoURL
	r.Title = pick(o.Title, job.Headline())
	r.Category = pick(o.Category, category(job))
	r.Location = pick(o.Location, location(job))
	r.Contract = pick(o.Contract, orDefault(job.ContractType, DefaultContract))
	r.Modality = pick(o.Modality, modality(job))

	footer := orDefault(brand.FooterURL, DefaultFooter)
	r.FooterURL = pick(o.FooterURL, footer)
	r.JobCode = "Cód.: " + job.ID
	r.FooterLead = FooterLead

	if o.IsAffirmative() {
		r.Affirmative = true
		r.Audience = strings.ToUpper(pick(o.Audience, DefaultAudience))
		if r.Audience == "" {
			r.Audience = DefaultAudience
		}
		r.TaglineTop = AffirmativeHeadline
		r.TaglineBottom = "PARA " + r.Audience
	} else {
		r.Tagline = tagline(o)
	}

	r.TitleFontSize = TitleFontSize(r.Title)
	r.CategoryFontSize = CategoryFontSize(r.Category)
	r.Badges = Badges(r.Contract, r.Modality, r.Location, r.Affirmative)
	return r, nil
}

// TitleFontSize picks one of four pixel sizes by title length in runes.
func TitleFontSize(title string) int {
	n := utf8.RuneCountInString(title)
	switch {
	case n > 100:
		return 32
	case n > 70:
		return 40
	case n > 35:
		return 48
	default:
		return 56
	}
}

// CategoryFontSize picks the category pill font size by length in runes.
func CategoryFontSize(category string) int {
	if utf8.RuneCountInString(category) > 25 {
		return 22
	}
	return 30
}

// Badges returns the body pills in display order, dropping empty values.
func Badges(contract, modality, location string, affirmative bool) []Badge {
	colors := [3]string{ColorPink, ColorPurple, ColorPurple}
	if affirmative {
		colors = [3]string{ColorOrange, ColorVibrantPurple, ColorPurple}
	}

	var out []Badge
	for i, text := range []string{contract, modality, location} {
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, Badge{Text: text, Color: colors[i]})
	}
	return out
}

// AudienceTag maps an affirmative audience label onto the library tag used
// to pick its photos.
func AudienceTag(audience string) (vagas.Tag, bool) {
	a := strings.ToLower(audience)
	switch {
	case strings.Contains(a, "mulher"):
		return vagas.TagWoman, true
	case strings.Contains(a, "negr"):
		return vagas.TagBlack, true
	case strings.Contains(a, "50+") || strings.Contains(a, "50 +"):
		return vagas.TagOver50, true
	case strings.Contains(a, "lgbt"):
		return vagas.TagLGBTQIAPN, true
	case strings.Contains(a, "pcd") || strings.Contains(a, "deficiência") || strings.Contains(a, "deficiencia"):
		return vagas.TagDisability, true
	case strings.Contains(a, "indígena") || strings.Contains(a, "indigena"):
		return vagas.TagIndigenous, true
	case strings.Contains(a, "jove"):
		return vagas.TagYoung, true
	}
	return "", false
}

func pick(override *string, fallback string) string {
	if override != nil {
		return *override
	}
	return fallback
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func category(job vagas.JobPosting) string {
	d := strings.TrimSpace(job.Department)
	if d == "" || d == "Geral" {
		return DefaultCategory
	}
	return strings.ToUpper(d)
}

func location(job vagas.JobPosting) string {
	switch {
	case job.City != "" && job.State != "":
		return job.City + "-" + job.State
	case job.City != "":
		return job.City
	default:
		return DefaultLocation
	}
}

func modality(job vagas.JobPosting) string {
	switch {
	case job.Modality != "":
		return job.Modality
	case job.Remote:
		return "Remoto"
	default:
		return "Presencial"
	}
}

func tagline(o vagas.Overrides) string {
	if o.Tagline != nil {
		return *o.Tagline
	}
	if o.CompanyType != nil && *o.CompanyType == vagas.CompanyNational {
		return TaglineNational
	}
	return TaglineMultinational
}

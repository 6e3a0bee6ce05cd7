package compose

import (
	"errors"
	"strings"
	"testing"

	"vagas-go/internal/testutil"
	"vagas-go/internal/vagas"
)

var brand = Brand{FooterURL: "metarh.com.br/vagas-metarh"}

func TestResolve_AnalistaFinanceiro(t *testing.T) {
	slide := vagas.JobSlide(testutil.AnalistaFinanceiro(), "https://x/photo.jpg")

	got, err := Resolve(slide, brand)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	checks := []struct {
		field, got, want string
	}{
		{"Title", got.Title, "Analista Financeiro"},
		{"Location", got.Location, "São Paulo-SP"},
		{"Contract", got.Contract, "CLT"},
		{"Category", got.Category, "SETOR ADMINISTRATIVO"},
		{"Modality", got.Modality, "Presencial"},
		{"Tagline", got.Tagline, TaglineMultinational},
		{"JobCode", got.JobCode, "Cód.: 42"},
		{"FooterLead", got.FooterLead, "Candidate-se gratuitamente em"},
		{"FooterURL", got.FooterURL, "metarh.com.br/vagas-metarh"},
		{"PhotoURL", got.PhotoURL, "https://x/photo.jpg"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if got.Affirmative {
		t.Error("Affirmative = true, want false")
	}
	if got.TitleFontSize != 56 {
		t.Errorf("TitleFontSize = %d, want 56", got.TitleFontSize)
	}
	if len(got.Badges) != 3 {
		t.Fatalf("Badges = %v, want 3", got.Badges)
	}
}

func TestResolve_Defaults(t *testing.T) {
	job := vagas.JobPosting{ID: "7", Title: "Assistente - Turno B", Department: "Geral", Remote: true}
	got, err := Resolve(vagas.JobSlide(job, ""), Brand{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if got.Title != "Assistente" {
		t.Errorf("Title = %q, want %q", got.Title, "Assistente")
	}
	if got.Category != DefaultCategory {
		t.Errorf("Category = %q, want %q", got.Category, DefaultCategory)
	}
	if got.Contract != DefaultContract {
		t.Errorf("Contract = %q, want %q", got.Contract, DefaultContract)
	}
	if got.Location != DefaultLocation {
		t.Errorf("Location = %q, want %q", got.Location, DefaultLocation)
	}
	if got.Modality != "Remoto" {
		t.Errorf("Modality = %q, want Remoto", got.Modality)
	}
	if got.FooterURL != DefaultFooter {
		t.Errorf("FooterURL = %q, want %q", got.FooterURL, DefaultFooter)
	}
}

func TestResolve_DepartmentUppercased(t *testing.T) {
	job := vagas.JobPosting{ID: "8", Title: "Contador", Department: "Financeiro", City: "Recife"}
	got, err := Resolve(vagas.JobSlide(job, ""), brand)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Category != "FINANCEIRO" {
		t.Errorf("Category = %q, want FINANCEIRO", got.Category)
	}
	if got.Location != "Recife" {
		t.Errorf("Location = %q, want Recife", got.Location)
	}
}

func TestResolve_OverridesWin(t *testing.T) {
	slide := vagas.JobSlide(testutil.AnalistaFinanceiro(), "")
	slide.Overrides = vagas.Overrides{
		Title:       vagas.Ptr("Analista Financeiro Sênior"),
		Location:    vagas.Ptr(""),
		Contract:    vagas.Ptr("PJ"),
		CompanyType: vagas.Ptr(vagas.CompanyNational),
		FooterURL:   vagas.Ptr("metarh.com.br/outra"),
	}

	got, err := Resolve(slide, brand)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Title != "Analista Financeiro Sênior" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Location != "" {
		t.Errorf("Location = %q, want empty override kept", got.Location)
	}
	if got.Tagline != TaglineNational {
		t.Errorf("Tagline = %q, want %q", got.Tagline, TaglineNational)
	}
	if got.FooterURL != "metarh.com.br/outra" {
		t.Errorf("FooterURL = %q", got.FooterURL)
	}
	// The empty location hides its badge.
	if len(got.Badges) != 2 || got.Badges[0].Text != "PJ" {
		t.Errorf("Badges = %v, want PJ and modality", got.Badges)
	}
}

func TestResolve_CustomTaglineBeatsCompanyType(t *testing.T) {
	slide := vagas.JobSlide(testutil.AnalistaFinanceiro(), "")
	slide.Overrides = vagas.Overrides{
		CompanyType: vagas.Ptr(vagas.CompanyNational),
		Tagline:     vagas.Ptr("VENHA CRESCER COM A GENTE"),
	}
	got, err := Resolve(slide, brand)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Tagline != "VENHA CRESCER COM A GENTE" {
		t.Errorf("Tagline = %q", got.Tagline)
	}
}

func TestResolve_Affirmative(t *testing.T) {
	slide := vagas.JobSlide(testutil.AnalistaFinanceiro(), "")
	slide.Overrides = vagas.Overrides{Affirmative: vagas.Ptr(true), Audience: vagas.Ptr("Mulheres")}

	got, err := Resolve(slide, brand)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !got.Affirmative {
		t.Fatal("Affirmative = false")
	}
	if got.TaglineTop != "VAGA AFIRMATIVA" || got.TaglineBottom != "PARA MULHERES" {
		t.Errorf("tagline = %q / %q", got.TaglineTop, got.TaglineBottom)
	}
	if got.Tagline != "" {
		t.Errorf("Tagline = %q, want empty on affirmative slides", got.Tagline)
	}
	if got.Badges[0].Color != ColorOrange {
		t.Errorf("first badge color = %q, want %q", got.Badges[0].Color, ColorOrange)
	}
}

func TestResolve_AffirmativeDefaultAudience(t *testing.T) {
	slide := vagas.JobSlide(testutil.AnalistaFinanceiro(), "")
	slide.Overrides = vagas.Overrides{Affirmative: vagas.Ptr(true)}

	got, err := Resolve(slide, brand)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Audience != DefaultAudience || got.TaglineBottom != "PARA DIVERSIDADE" {
		t.Errorf("Audience = %q, TaglineBottom = %q", got.Audience, got.TaglineBottom)
	}
}

func TestResolve_Bookends(t *testing.T) {
	for _, slide := range []vagas.SlideConfig{vagas.CoverSlide(), vagas.BackSlide()} {
		got, err := Resolve(slide, brand)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", slide.ID, err)
		}
		if got.ID != slide.ID || got.Kind != slide.Kind || got.Title != "" {
			t.Errorf("Resolve(%s) = %+v", slide.ID, got)
		}
	}
}

func TestResolve_MissingJob(t *testing.T) {
	slide := vagas.SlideConfig{ID: "slide-job-99", Kind: vagas.SlideJob}
	if _, err := Resolve(slide, brand); !errors.Is(err, vagas.ErrSlideUnavailable) {
		t.Errorf("Resolve() error = %v, want ErrSlideUnavailable", err)
	}
}

func TestTitleFontSize(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 56}, {35, 56}, {36, 48}, {70, 48}, {71, 40}, {100, 40}, {101, 32},
	}
	for _, tt := range tests {
		title := strings.Repeat("á", tt.n)
		if got := TitleFontSize(title); got != tt.want {
			t.Errorf("TitleFontSize(%d runes) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestCategoryFontSize(t *testing.T) {
	if got := CategoryFontSize(strings.Repeat("Ç", 25)); got != 30 {
		t.Errorf("CategoryFontSize(25 runes) = %d, want 30", got)
	}
	if got := CategoryFontSize(strings.Repeat("Ç", 26)); got != 22 {
		t.Errorf("CategoryFontSize(26 runes) = %d, want 22", got)
	}
}

func TestBadges(t *testing.T) {
	got := Badges("CLT", "", "Recife-PE", false)
	if len(got) != 2 {
		t.Fatalf("Badges() = %v, want 2", got)
	}
	if got[0] != (Badge{Text: "CLT", Color: ColorPink}) {
		t.Errorf("Badges()[0] = %v", got[0])
	}
	if got[1] != (Badge{Text: "Recife-PE", Color: ColorPurple}) {
		t.Errorf("Badges()[1] = %v", got[1])
	}
	if got := Badges(" ", "", "", true); len(got) != 0 {
		t.Errorf("Badges() = %v, want none", got)
	}
}

func TestAudienceTag(t *testing.T) {
	tests := []struct {
		audience string
		want     vagas.Tag
		ok       bool
	}{
		{"MULHERES", vagas.TagWoman, true},
		{"Pessoas Negras", vagas.TagBlack, true},
		{"Profissionais 50+", vagas.TagOver50, true},
		{"LGBTQIAPN+", vagas.TagLGBTQIAPN, true},
		{"PcD", vagas.TagDisability, true},
		{"Pessoas com Deficiência", vagas.TagDisability, true},
		{"Indígenas", vagas.TagIndigenous, true},
		{"Jovem Aprendiz", vagas.TagYoung, true},
		{"DIVERSIDADE", "", false},
	}
	for _, tt := range tests {
		got, ok := AudienceTag(tt.audience)
		if got != tt.want || ok != tt.ok {
			t.Errorf("AudienceTag(%q) = %q, %v; want %q, %v", tt.audience, got, ok, tt.want, tt.ok)
		}
	}
}

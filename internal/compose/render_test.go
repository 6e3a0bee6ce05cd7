package compose

import (
	"strings"
	"testing"

	"vagas-go/internal/testutil"
	"vagas-go/internal/vagas"
)

var testAssets = Assets{
	Background: "data:image/jpeg;base64,QkFDSw==",
	Logo:       "data:image/png;base64,TE9HTw==",
	Cover:      "data:image/png;base64,Q09WRVI=",
	Back:       "data:image/png;base64,QkFDSw==",
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func TestRender_StandardSlide(t *testing.T) {
	r := newTestRenderer(t)
	resolved, err := Resolve(vagas.JobSlide(testutil.AnalistaFinanceiro(), "data:image/jpeg;base64,UEhPVE8="), brand)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	doc, err := r.Render(resolved, testAssets)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if doc.NodeID != "slide-job-42" {
		t.Errorf("NodeID = %q, want slide-job-42", doc.NodeID)
	}
	if doc.Width != 1080 || doc.Height != 1350 || doc.Scale != DefaultScale {
		t.Errorf("doc geometry = %dx%d@%v", doc.Width, doc.Height, doc.Scale)
	}

	for _, want := range []string{
		`id="slide-job-42"`,
		"Analista Financeiro",
		"São Paulo-SP",
		"SETOR ADMINISTRATIVO",
		"Cód.: 42",
		"Candidate-se gratuitamente em",
		"metarh.com.br/vagas-metarh",
		"data:image/jpeg;base64,UEhPVE8=",
		"data:image/png;base64,TE9HTw==",
		"font-size: 56px",
		"data-render-complete",
		"#Temos",
	} {
		if !strings.Contains(doc.HTML, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(doc.HTML, "ZgotmplZ") {
		t.Error("document contains a sanitized URL")
	}
}

func TestRender_AffirmativeSlide(t *testing.T) {
	r := newTestRenderer(t)
	slide := vagas.JobSlide(testutil.AnalistaFinanceiro(), "")
	slide.Overrides = vagas.Overrides{Affirmative: vagas.Ptr(true), Audience: vagas.Ptr("Mulheres")}
	resolved, err := Resolve(slide, brand)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	doc, err := r.Render(resolved, testAssets)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"VAGA AFIRMATIVA", "PARA MULHERES", ColorOrange} {
		if !strings.Contains(doc.HTML, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(doc.HTML, "#Temos") {
		t.Error("affirmative slide uses the standard heading")
	}
}

func TestRender_Bookends(t *testing.T) {
	r := newTestRenderer(t)

	cover, err := r.Render(ResolvedSlide{ID: "slide-cover", Kind: vagas.SlideCover}, testAssets)
	if err != nil {
		t.Fatalf("Render(cover) error = %v", err)
	}
	if !strings.Contains(cover.HTML, testAssets.Cover) || cover.NodeID != "slide-cover" {
		t.Errorf("cover document does not show the cover asset")
	}

	back, err := r.Render(ResolvedSlide{ID: "slide-back", Kind: vagas.SlideBack}, testAssets)
	if err != nil {
		t.Fatalf("Render(back) error = %v", err)
	}
	if !strings.Contains(back.HTML, testAssets.Back) {
		t.Errorf("back document does not show the back asset")
	}
}

func TestRender_EscapesText(t *testing.T) {
	r := newTestRenderer(t)
	job := vagas.JobPosting{ID: "9", Title: "<script>alert(1)</script>"}
	resolved, err := Resolve(vagas.JobSlide(job, ""), brand)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	doc, err := r.Render(resolved, testAssets)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(doc.HTML, "<script>alert(1)") {
		t.Error("title was not escaped")
	}
}

package caption

import (
	"strings"
	"testing"

	"vagas-go/internal/testutil"
	"vagas-go/internal/vagas"
)

func TestCaption_OriginalTemplate(t *testing.T) {
	got := Caption(testutil.AnalistaFinanceiro(), 0, General)

	want := "🚀 OPORTUNIDADE DE CARREIRA\n\n" +
		"Estamos buscando talentos para atuar como Analista Financeiro!\n\n" +
		"📍 Local: São Paulo (Presencial)\n" +
		"💼 Tipo: CLT\n" +
		"🏢 Setor: Geral\n\n" +
		"Se você busca desenvolvimento profissional e novos desafios, essa vaga é para você.\n\n" +
		"🔗 Inscreva-se agora: metarh.com.br/vagas-metarh\n\n" +
		"#vagas #emprego #metarh #carreira #oportunidade #sãopaulo"
	if got != want {
		t.Errorf("Caption() =\n%s\nwant\n%s", got, want)
	}
}

func TestCaption_TotalOverEmptyJob(t *testing.T) {
	for _, mode := range []Mode{General, "Mulheres"} {
		for i := range Pool(mode) {
			got := Caption(vagas.JobPosting{}, i, mode)
			if got == "" {
				t.Fatalf("Caption(empty, %d, %q) is empty", i, mode)
			}
			for _, want := range []string{"Brasil", "CLT", "#brasil"} {
				if !strings.Contains(got, want) {
					t.Errorf("Caption(empty, %d, %q) missing %q", i, mode, want)
				}
			}
		}
	}
}

func TestCaption_Cycles(t *testing.T) {
	job := testutil.AnalistaFinanceiro()
	for _, mode := range []Mode{General, "PCD"} {
		n := Pool(mode)
		if n != 3 {
			t.Errorf("Pool(%q) = %d, want 3", mode, n)
		}
		for i := range n {
			a := Caption(job, i, mode)
			if b := Caption(job, i+n, mode); a != b {
				t.Errorf("Caption(%d) != Caption(%d) for %q", i, i+n, mode)
			}
			if b := Caption(job, i-n, mode); a != b {
				t.Errorf("Caption(%d) != Caption(%d) for %q", i, i-n, mode)
			}
			if b := Caption(job, i, mode); a != b {
				t.Errorf("Caption(%d) is not deterministic", i)
			}
		}
		if Caption(job, 0, mode) == Caption(job, 1, mode) {
			t.Errorf("pool %q repeats its first caption", mode)
		}
	}
}

func TestCaption_Affirmative(t *testing.T) {
	got := Caption(testutil.AnalistaFinanceiro(), 0, "Mulheres")
	for _, want := range []string{"VAGA AFIRMATIVA PARA MULHERES", "São Paulo-SP", "#vagaafirmativa"} {
		if !strings.Contains(got, want) {
			t.Errorf("Caption() missing %q:\n%s", want, got)
		}
	}
}

func TestCaption_BlankModeIsGeneral(t *testing.T) {
	job := testutil.AnalistaFinanceiro()
	for _, mode := range []Mode{" ", "\t", "  \n"} {
		got := Caption(job, 0, mode)
		if got != Caption(job, 0, General) {
			t.Errorf("Caption(%q) differs from the general caption:\n%s", mode, got)
		}
		if strings.Contains(got, "#vagaafirmativa") || strings.Contains(got, "#diversidade") {
			t.Errorf("Caption(%q) has affirmative hashtags:\n%s", mode, got)
		}
		if Pool(mode) != Pool(General) {
			t.Errorf("Pool(%q) = %d, want %d", mode, Pool(mode), Pool(General))
		}
	}

	got := Caption(job, 0, "  Mulheres ")
	if !strings.Contains(got, "VAGA AFIRMATIVA PARA MULHERES\n") {
		t.Errorf("Caption() audience not trimmed:\n%s", got)
	}
}

func TestCaption_HashtagsAndApplyURL(t *testing.T) {
	job := vagas.JobPosting{
		ID:         "1",
		Title:      "Técnico de Campo - Campinas",
		City:       "Campinas",
		Department: "Field Service",
		ApplyURL:   "https://metarh.selecty.app/vaga/1",
		Remote:     true,
	}
	got := Generator{FooterURL: "exemplo.com.br"}.Caption(job, 0, General)

	for _, want := range []string{
		"atuar como Técnico de Campo!",
		"(Remoto)",
		"https://metarh.selecty.app/vaga/1",
		"#campinas #fieldservice",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Caption() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "exemplo.com.br") {
		t.Error("brand footer used although the job has an apply URL")
	}
}

func TestGenerator_FooterFallback(t *testing.T) {
	got := Generator{FooterURL: "exemplo.com.br/vagas"}.Caption(vagas.JobPosting{Title: "X"}, 1, General)
	if !strings.Contains(got, "exemplo.com.br/vagas") {
		t.Errorf("Caption() missing brand footer:\n%s", got)
	}
}

func TestSlug(t *testing.T) {
	if got := Slug(" São  Paulo\t"); got != "sãopaulo" {
		t.Errorf("Slug() = %q, want sãopaulo", got)
	}
}

func TestCarouselCaptions(t *testing.T) {
	jobs := []vagas.JobPosting{
		{ID: "1", Title: "Analista Financeiro", City: "São Paulo"},
		{ID: "2", Title: "Desenvolvedor Go", Remote: true},
	}
	captions := CarouselCaptions(jobs)
	if len(captions) != 3 {
		t.Fatalf("CarouselCaptions() = %d texts, want 3", len(captions))
	}
	for i, c := range captions {
		if !strings.Contains(c, "1. Analista Financeiro (São Paulo)\n2. Desenvolvedor Go (Remoto)") {
			t.Errorf("caption %d missing job list:\n%s", i, c)
		}
	}
	if !strings.HasPrefix(captions[0], "🚀 VAGAS DA SEMANA METARH!") {
		t.Errorf("first caption = %q", captions[0][:40])
	}
	if CarouselCaption(jobs, 4) != captions[1] || CarouselCaption(jobs, -1) != captions[2] {
		t.Error("CarouselCaption() does not cycle")
	}
}

package vagas

import "testing"

func TestJobPosting_Headline(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Analista Financeiro - São Paulo", "Analista Financeiro"},
		{"  Desenvolvedor Go  ", "Desenvolvedor Go"},
		{"Gerente - Vendas - RJ", "Gerente"},
		{"Auxiliar-Operacional", "Auxiliar-Operacional"},
	}
	for _, tt := range tests {
		if got := (JobPosting{Title: tt.title}).Headline(); got != tt.want {
			t.Errorf("Headline(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestJobPosting_PublishedDate(t *testing.T) {
	if got := (JobPosting{}).PublishedDate(); got != "" {
		t.Errorf("PublishedDate() without timestamp = %q, want empty", got)
	}
	j := JobPosting{PublishedAt: ts("2025-11-04T23:30:00-03:00")}
	if got := j.PublishedDate(); got != "2025-11-05" {
		t.Errorf("PublishedDate() = %q, want %q", got, "2025-11-05")
	}
}

func TestFindJob(t *testing.T) {
	jobs := sampleJobs()
	if got := FindJob(jobs, "203"); got == nil || got.City != "Campinas" {
		t.Errorf("FindJob(203) = %+v", got)
	}
	if got := FindJob(jobs, "999"); got != nil {
		t.Errorf("FindJob(999) = %+v, want nil", got)
	}
}

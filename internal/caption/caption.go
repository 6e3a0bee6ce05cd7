// Package caption builds the marketing texts posted alongside slides.
//
// Every function is total and deterministic: any job posting yields a
// complete caption and the same inputs always produce the same text.
package caption

import (
	"fmt"
	"strings"
	"unicode"

	"vagas-go/internal/vagas"
)

// Mode selects a caption pool: General or an affirmative audience label.
type Mode string

// General is the pool used for regular postings.
const General Mode = ""

// DefaultFooterURL is the apply link used when a job has none.
const DefaultFooterURL = "metarh.com.br/vagas-metarh"

var baseHashtags = []string{"#vagas", "#emprego", "#metarh", "#carreira", "#oportunidade"}

// fields are the job values every template may print, fallbacks applied.
type fields struct {
	Title      string
	City       string
	Location   string
	Modality   string
	Contract   string
	Department string
	ApplyURL   string
	Audience   string
	Hashtags   string
}

type template func(f fields) string

var generalPool = []template{
	func(f fields) string {
		return "🚀 OPORTUNIDADE DE CARREIRA\n\n" +
			"Estamos buscando talentos para atuar como " + f.Title + "!\n\n" +
			"📍 Local: " + f.City + " (" + f.Modality + ")\n" +
			"💼 Tipo: " + f.Contract + "\n" +
			"🏢 Setor: " + f.Department + "\n\n" +
			"Se você busca desenvolvimento profissional e novos desafios, essa vaga é para você.\n\n" +
			"🔗 Inscreva-se agora: " + f.ApplyURL + "\n\n" +
			f.Hashtags
	},
	func(f fields) string {
		return "💼 VAGA ABERTA: " + f.Title + "\n\n" +
			"A METARH está contratando para uma empresa parceira e essa oportunidade pode ser sua.\n\n" +
			"📍 " + f.Location + " | " + f.Modality + "\n" +
			"📄 Contratação: " + f.Contract + "\n\n" +
			"Gostou? Candidate-se gratuitamente pelo link: " + f.ApplyURL + "\n\n" +
			"Conhece alguém com esse perfil? Marque nos comentários! 👇\n\n" +
			f.Hashtags
	},
	func(f fields) string {
		return "✨ SUA PRÓXIMA OPORTUNIDADE PODE ESTAR AQUI\n\n" +
			"Vaga: " + f.Title + "\n" +
			"Local: " + f.Location + "\n" +
			"Modelo: " + f.Modality + "\n" +
			"Regime: " + f.Contract + "\n\n" +
			"Processo seletivo conduzido pela METARH, consultoria de RH que conecta talentos a grandes empresas.\n\n" +
			"👉 Inscrições abertas em " + f.ApplyURL + "\n\n" +
			f.Hashtags
	},
}

var affirmativePool = []template{
	func(f fields) string {
		return "🌈 VAGA AFIRMATIVA PARA " + f.Audience + "\n\n" +
			"Estamos buscando talentos para atuar como " + f.Title + "!\n\n" +
			"📍 Local: " + f.Location + " (" + f.Modality + ")\n" +
			"💼 Tipo: " + f.Contract + "\n\n" +
			"Acreditamos que equipes diversas constroem resultados melhores. Venha fazer parte!\n\n" +
			"🔗 Inscreva-se agora: " + f.ApplyURL + "\n\n" +
			f.Hashtags
	},
	func(f fields) string {
		return "🤝 DIVERSIDADE QUE TRANSFORMA\n\n" +
			"Vaga exclusiva para " + f.Audience + ": " + f.Title + "\n\n" +
			"📍 " + f.Location + " | " + f.Modality + "\n" +
			"📄 Contratação: " + f.Contract + "\n\n" +
			"Seu talento tem espaço aqui. Candidate-se gratuitamente: " + f.ApplyURL + "\n\n" +
			"Compartilhe com quem precisa ver essa oportunidade! 💜\n\n" +
			f.Hashtags
	},
	func(f fields) string {
		return "💜 INCLUSÃO DE VERDADE\n\n" +
			"A METARH abriu uma vaga afirmativa para " + f.Audience + ".\n\n" +
			"Vaga: " + f.Title + "\n" +
			"Local: " + f.Location + "\n" +
			"Regime: " + f.Contract + "\n\n" +
			"👉 Inscrições abertas em " + f.ApplyURL + "\n\n" +
			f.Hashtags
	},
}

// Generator prints captions with a brand apply link as fallback.
type Generator struct {
	FooterURL string
}

// Caption returns the caption of job at index in the pool of mode. The
// index is taken modulo the pool size and negative indices wrap.
func Caption(job vagas.JobPosting, index int, mode Mode) string {
	return Generator{}.Caption(job, index, mode)
}

func (g Generator) Caption(job vagas.JobPosting, index int, mode Mode) string {
	mode = mode.normalize()
	pool := poolFor(mode)
	return pool[wrap(index, len(pool))](g.fields(job, mode))
}

// Pool returns how many captions mode cycles through.
func Pool(mode Mode) int { return len(poolFor(mode.normalize())) }

// normalize trims mode, so a blank audience selects General.
func (m Mode) normalize() Mode { return Mode(strings.TrimSpace(string(m))) }

func poolFor(mode Mode) []template {
	if mode == General {
		return generalPool
	}
	return affirmativePool
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func (g Generator) fields(job vagas.JobPosting, mode Mode) fields {
	f := fields{
		Title:      orDefault(job.Headline(), "Profissional"),
		City:       orDefault(job.City, "Brasil"),
		Location:   "Brasil",
		Contract:   orDefault(job.ContractType, "CLT"),
		Department: orDefault(job.Department, "Geral"),
		ApplyURL:   orDefault(job.ApplyURL, orDefault(g.FooterURL, DefaultFooterURL)),
		Audience:   strings.ToUpper(string(mode)),
		Modality:   job.Modality,
	}
	if job.City != "" && job.State != "" {
		f.Location = job.City + "-" + job.State
	} else if job.City != "" {
		f.Location = job.City
	}
	if f.Modality == "" {
		f.Modality = "Presencial"
		if job.Remote {
			f.Modality = "Remoto"
		}
	}

	tags := append([]string(nil), baseHashtags...)
	if mode != General {
		tags = append(tags, "#vagaafirmativa", "#diversidade")
	}
	tags = append(tags, "#"+orDefault(Slug(job.City), "brasil"))
	if d := Slug(job.Department); d != "" {
		tags = append(tags, "#"+d)
	}
	f.Hashtags = strings.Join(tags, " ")
	return f
}

// Slug lower-cases s and strips every whitespace rune.
func Slug(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// CarouselCaptions returns the weekly post texts for jobs, each listing the
// jobs as "N. Title (City)".
func CarouselCaptions(jobs []vagas.JobPosting) []string {
	var lines []string
	for i, j := range jobs {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, j.Title, orDefault(j.City, "Remoto")))
	}
	list := strings.Join(lines, "\n")

	return []string{
		"🚀 VAGAS DA SEMANA METARH!\n\nConfira as oportunidades que divulgamos esta semana para grandes empresas nacionais e multinacionais:\n\n" +
			list +
			"\n\nTem alguma que é a sua cara? Comente abaixo ou acesse o link na bio para se candidatar!\n\n#Vagas #MetaRH #Carreira #Emprego #VagasDaSemana",
		"🔥 OPORTUNIDADES EM DESTAQUE\n\nA METARH (consultoria de RH que contrata para grandes empresas) separou as melhores vagas da semana pra você:\n\n" +
			list +
			"\n\n🔗 Link na bio para se inscrever.\n\nMarque um amigo que está procurando emprego! 👇\n\n#MercadoDeTrabalho #VagasAbertas #MetaRH",
		"⚡ ATUALIZAÇÃO DE VAGAS\n\nEssas são as vagas que foram divulgadas ao longo da semana pela METARH. Arraste para o lado e confira os detalhes!\n\n" +
			list +
			"\n\nNão perca tempo, as inscrições estão abertas no nosso portal (Link na Bio).\n\n#Recrutamento #Seleção #Vagas #MetaRH",
	}
}

// CarouselCaption returns the carousel caption at index, cycling.
func CarouselCaption(jobs []vagas.JobPosting, index int) string {
	captions := CarouselCaptions(jobs)
	return captions[wrap(index, len(captions))]
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

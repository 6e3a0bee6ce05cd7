package selecty

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"vagas-go/internal/vagas"
)

// text decodes loosely typed JSON values as a string: numbers keep their
// literal form, arrays contribute their first element and objects or null
// become "".
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(strings.TrimSpace(s))
	case '[':
		var items []text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*t = ""
		if len(items) > 0 {
			*t = items[0]
		}
	case '{', 'n':
		*t = ""
	default:
		*t = text(data) // number or boolean literal
	}
	return nil
}

type workplace struct {
	City  text `json:"city"`
	State text `json:"state"`
}

// vacancy is one item of the Selecty vacancy API. Field presence varies
// between accounts, so most fields have alternatives.
type vacancy struct {
	VacancyID      text       `json:"vacancy_id"`
	ID             text       `json:"id"`
	Title          text       `json:"title"`
	Workplace      *workplace `json:"workplace"`
	City           text       `json:"city"`
	State          text       `json:"state"`
	DepartmentName text       `json:"department_name"`
	Department     text       `json:"department"`
	Occupation     text       `json:"occupation"`
	ContractType   text       `json:"contract_type"`
	WorkModel      text       `json:"work_model"`
	Modality       text       `json:"modality"`
	Remote         text       `json:"remote"`
	PublishedAt    text       `json:"published_at"`
	CreationDate   text       `json:"creation_date"`
	URLApply       text       `json:"url_apply"`
	URL            text       `json:"url"`
	Description    text       `json:"description"`
	Summary        text       `json:"summary"`

	Error   bool `json:"error"`
	Message text `json:"message"`
}

// listEnvelope covers the two wrapped shapes of the list endpoint.
type listEnvelope struct {
	Data  []vacancy `json:"data"`
	Items []vacancy `json:"items"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseDate(s string) *time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "sim", "yes":
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// posting converts the API shape into a JobPosting.
func (v vacancy) posting() vagas.JobPosting {
	id := string(v.VacancyID)
	if id == "" {
		id = string(v.ID)
	}

	j := vagas.JobPosting{
		ID:          id,
		Title:       string(v.Title),
		City:        string(v.City),
		State:       string(v.State),
		Description: string(v.Description),
		Summary:     string(v.Summary),
	}
	if j.Title == "" {
		j.Title = "Vaga #" + id
	}
	if v.Workplace != nil {
		if v.Workplace.City != "" {
			j.City = string(v.Workplace.City)
		}
		if v.Workplace.State != "" {
			j.State = string(v.Workplace.State)
		}
	}

	for _, d := range []text{v.DepartmentName, v.Department, v.Occupation} {
		if d != "" {
			j.Department = string(d)
			break
		}
	}

	if v.ContractType != "" {
		j.ContractType = NormalizeContract(string(v.ContractType))
	}

	model := v.WorkModel
	if model == "" {
		model = v.Modality
	}
	if model != "" {
		j.Modality = NormalizeModality(string(model))
	}
	j.Remote = truthy(string(v.Remote)) || j.Modality == ModalityRemote

	published := v.PublishedAt
	if published == "" {
		published = v.CreationDate
	}
	if published != "" {
		j.PublishedAt = parseDate(string(published))
	}

	j.ApplyURL = string(v.URLApply)
	if j.ApplyURL == "" {
		j.ApplyURL = string(v.URL)
	}
	return j
}

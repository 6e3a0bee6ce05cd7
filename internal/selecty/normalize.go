package selecty

import "strings"

const (
	ContractCLT        = "CLT (Efetivo)"
	ContractPJ         = "PJ"
	ContractInternship = "Estágio"
	ContractTemporary  = "Temporário"
	ContractOutsourced = "Terceirizado"

	ModalityHybrid = "Híbrido"
	ModalityRemote = "Remoto"
	ModalityOnSite = "Presencial"
)

// NormalizeContract maps a free-text contract type onto the labels used on
// slides. Unknown values fall back to CLT.
func NormalizeContract(raw string) string {
	c := strings.ToLower(strings.NewReplacer(`"`, "", `'`, "").Replace(raw))
	switch {
	case strings.Contains(c, "clt") || strings.Contains(c, "efetivo"):
		return ContractCLT
	case strings.Contains(c, "pj"):
		return ContractPJ
	case strings.Contains(c, "estagi") || strings.Contains(c, "estági"):
		return ContractInternship
	case strings.Contains(c, "temporar") || strings.Contains(c, "temporár"):
		return ContractTemporary
	case strings.Contains(c, "terceir"):
		return ContractOutsourced
	default:
		return ContractCLT
	}
}

// NormalizeModality maps a free-text work model onto Híbrido, Remoto or
// Presencial.
func NormalizeModality(raw string) string {
	m := strings.ToLower(raw)
	switch {
	case strings.Contains(m, "hibrido") || strings.Contains(m, "híbrido"):
		return ModalityHybrid
	case strings.Contains(m, "remoto") || strings.Contains(m, "home"):
		return ModalityRemote
	default:
		return ModalityOnSite
	}
}

// FormatLocation joins city and state as "city - state", or returns
// whichever one is set.
func FormatLocation(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + " - " + state
	case city != "":
		return city
	default:
		return state
	}
}

package legacy

import (
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "biosen/internal/errors"
)

// Handler serves the read-only history page over the old system's
// database. It shares nothing with the JSON API: no auth, no DTOs, one
// server-rendered page.
type Handler struct {
	repo     *MySQLRepository
	template *template.Template
	logger   *zap.Logger
}

func NewHandler(repo *MySQLRepository, logger *zap.Logger) (*Handler, error) {
	tmpl, err := template.New("historique").Parse(pageTemplate)
	if err != nil {
		return nil, apperrors.NewInternalError("parsing history template", err)
	}
	return &Handler{
		repo:     repo,
		template: tmpl,
		logger:   logger,
	}, nil
}

type pageData struct {
	Filter     Filter
	Summary    *Summary
	Rows       []Row
	Page       int
	TotalPages int
	PrevPage   int
	NextPage   int
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	filter := Filter{
		DateFrom: r.URL.Query().Get("date_debut"),
		DateTo:   r.URL.Query().Get("date_fin"),
		Search:   r.URL.Query().Get("search"),
		Billed:   r.URL.Query().Get("statut"),
		Page:     page,
	}

	total, err := h.repo.Count(r.Context(), filter)
	if err != nil {
		h.fail(w, err)
		return
	}

	summary, err := h.repo.Summary(r.Context(), filter)
	if err != nil {
		h.fail(w, err)
		return
	}

	rows, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.fail(w, err)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	data := pageData{
		Filter:     filter,
		Summary:    summary,
		Rows:       rows,
		Page:       page,
		TotalPages: totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, data); err != nil {
		h.logger.Error("failed to render history page", zap.Error(err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("history page query failed", zap.Error(err))
	http.Error(w, "erreur interne", http.StatusInternalServerError)
}

const pageTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Historique — Ancien Système</title>
<style>
body { font-family: sans-serif; background: #f9fafb; margin: 0; padding: 1.5rem; }
.wrap { max-width: 1400px; margin: 0 auto; }
h1 { color: #15803d; }
form { display: flex; flex-wrap: wrap; gap: .5rem; margin-bottom: 1rem; }
input, select { padding: .4rem; border: 1px solid #d1d5db; border-radius: .25rem; }
button { padding: .4rem 1rem; background: #15803d; color: #fff; border: 0; border-radius: .25rem; cursor: pointer; }
table { width: 100%; border-collapse: collapse; background: #fff; font-size: .85rem; }
th, td { padding: .5rem; border-bottom: 1px solid #e5e7eb; text-align: left; vertical-align: top; }
th { background: #15803d; color: #fff; }
.summary { display: flex; gap: 1.5rem; margin-bottom: 1rem; flex-wrap: wrap; }
.summary div { background: #fff; padding: .75rem 1rem; border-radius: .5rem; border: 1px solid #e5e7eb; }
.summary strong { display: block; font-size: 1.2rem; color: #15803d; }
.badge { padding: .1rem .5rem; border-radius: 1rem; font-size: .75rem; }
.billed { background: #dcfce7; color: #15803d; }
.unbilled { background: #fee2e2; color: #b91c1c; }
.pager { margin-top: 1rem; display: flex; gap: .5rem; align-items: center; }
.pager a { color: #15803d; }
@media print { form, .pager { display: none; } }
</style>
</head>
<body>
<div class="wrap">
<h1>Historique — Ancien Système</h1>

<form method="get" action="/historique">
<input type="date" name="date_debut" value="{{.Filter.DateFrom}}">
<input type="date" name="date_fin" value="{{.Filter.DateTo}}">
<input type="text" name="search" placeholder="Client, téléphone ou code" value="{{.Filter.Search}}">
<select name="statut">
<option value="">Tous</option>
<option value="payee" {{if eq .Filter.Billed "payee"}}selected{{end}}>Facturées</option>
<option value="non_payee" {{if eq .Filter.Billed "non_payee"}}selected{{end}}>Non facturées</option>
</select>
<button type="submit">Filtrer</button>
</form>

<div class="summary">
<div><strong>{{.Summary.Orders}}</strong>Commandes</div>
<div><strong>{{.Summary.Invoiced}}</strong>Montant facturé</div>
<div><strong>{{.Summary.Collected}}</strong>Montant encaissé</div>
<div><strong>{{.Summary.Billed}}</strong>Facturées</div>
<div><strong>{{.Summary.Unbilled}}</strong>Non facturées</div>
</div>

<table>
<tr>
<th>Code</th><th>Date</th><th>Client</th><th>Téléphone</th><th>Produits</th>
<th>Facture</th><th>Montant</th><th>Encaissé</th><th>Restant</th><th>Statut</th>
</tr>
{{range .Rows}}
<tr>
<td>{{.Code}}</td>
<td>{{.OrderDate}}</td>
<td>{{if .ClientName}}{{.ClientName}}{{end}}</td>
<td>{{if .ClientPhone}}{{.ClientPhone}}{{end}}</td>
<td>{{if .Products}}{{.Products}}{{end}}</td>
<td>{{if .InvoiceRef}}{{.InvoiceRef}}{{end}}</td>
<td>{{if .Invoiced}}{{.Invoiced}}{{end}}</td>
<td>{{if .Collected}}{{.Collected}}{{end}}</td>
<td>{{if .Remaining}}{{.Remaining}}{{end}}</td>
<td>{{if .Billed}}<span class="badge billed">Facturée</span>{{else}}<span class="badge unbilled">Non facturée</span>{{end}}</td>
</tr>
{{else}}
<tr><td colspan="10">Aucune commande trouvée.</td></tr>
{{end}}
</table>

<div class="pager">
{{if gt .Page 1}}<a href="?page={{.PrevPage}}&date_debut={{.Filter.DateFrom}}&date_fin={{.Filter.DateTo}}&search={{.Filter.Search}}&statut={{.Filter.Billed}}">&laquo; Précédent</a>{{end}}
<span>Page {{.Page}} / {{.TotalPages}}</span>
{{if lt .Page .TotalPages}}<a href="?page={{.NextPage}}&date_debut={{.Filter.DateFrom}}&date_fin={{.Filter.DateTo}}&search={{.Filter.Search}}&statut={{.Filter.Billed}}">Suivant &raquo;</a>{{end}}
</div>

</div>
</body>
</html>
`

package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

// ErrTemplateInvalid reports organization markup that does not parse or
// execute.
var ErrTemplateInvalid = errors.New("template_invalid")

const defaultBrandColor = "#111827"

const invoiceHTMLTemplate = `<!doctype html>
<html lang="fr">
<head>
  <meta charset="utf-8" />
  <title>Facture {{.Invoice.Number}}</title>
  <style>
    :root { --primary: {{.BrandColor}}; }
    * { box-sizing: border-box; }
    body { margin: 0; padding: 40px; font-family: Helvetica, Arial, sans-serif; color: #1a1f36; }
    .header { display: flex; justify-content: space-between; border-bottom: 3px solid var(--primary); padding-bottom: 16px; margin-bottom: 32px; }
    .header h1 { margin: 0; font-size: 24px; color: var(--primary); }
    .label { font-size: 11px; text-transform: uppercase; color: #8792a2; font-weight: 600; }
    .value { font-size: 13px; line-height: 1.5; }
    .parties { display: flex; justify-content: space-between; margin-bottom: 32px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
    th { text-align: left; font-size: 11px; color: #8792a2; border-bottom: 1px solid #e3e8ee; padding: 8px 0; }
    td { padding: 10px 0; border-bottom: 1px solid #e3e8ee; font-size: 13px; }
    .right { text-align: right; }
    .totals { margin-left: auto; width: 280px; }
    .total-row { display: flex; justify-content: space-between; padding: 4px 0; font-size: 13px; }
    .grand { border-top: 2px solid var(--primary); font-weight: 700; font-size: 15px; margin-top: 6px; padding-top: 8px; }
    .notes { margin-top: 40px; font-size: 12px; color: #697386; }
  </style>
  {{if .CSS}}<style>{{.CSS}}</style>{{end}}
</head>
<body>
  <div class="header">
    <div>
      <h1>Facture</h1>
      <div class="value">N° {{if .Invoice.Number}}{{.Invoice.Number}}{{else}}brouillon{{end}}</div>
      <div class="value">Date : {{.Invoice.IssueDate}}</div>
      {{if .Invoice.DueDate}}<div class="value">Échéance : {{.Invoice.DueDate}}</div>{{end}}
    </div>
    <div class="right">
      {{if .LogoURL}}<img src="{{.LogoURL}}" style="max-height: 48px;" alt="{{.Org.Name}}">{{else}}<strong>{{.Org.Name}}</strong>{{end}}
    </div>
  </div>

  <div class="parties">
    <div>
      <div class="label">Émetteur</div>
      <div class="value">
        <strong>{{.Org.Name}}</strong><br>
        {{if .Org.Address}}{{.Org.Address}}<br>{{end}}
        {{if .Org.TradeRegister}}RCCM : {{.Org.TradeRegister}}<br>{{end}}
        {{if .Org.TaxID}}IFU : {{.Org.TaxID}}<br>{{end}}
      </div>
    </div>
    <div class="right">
      <div class="label">Client</div>
      <div class="value">
        <strong>{{.Customer.Name}}</strong><br>
        {{if .Customer.Address}}{{.Customer.Address}}<br>{{end}}
        {{if .Customer.Email}}{{.Customer.Email}}<br>{{end}}
        {{if .Customer.TaxID}}IFU : {{.Customer.TaxID}}{{end}}
      </div>
    </div>
  </div>

  <table>
    <thead>
      <tr>
        <th style="width: 50%;">Désignation</th>
        <th class="right">Qté</th>
        <th class="right">Prix unitaire</th>
        <th class="right">Montant</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Description}}</td>
        <td class="right">{{formatQuantity .Quantity}}</td>
        <td class="right">{{formatMoney .UnitPrice $.Invoice.Currency}}</td>
        <td class="right">{{formatMoney .Total $.Invoice.Currency}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <div class="totals">
    <div class="total-row"><span>Total HT</span><span>{{formatMoney .Subtotal .Invoice.Currency}}</span></div>
    <div class="total-row"><span>{{.VATLabel}}</span><span>{{formatMoney .TaxTotal .Invoice.Currency}}</span></div>
    <div class="total-row grand"><span>Total TTC</span><span>{{formatMoney .GrandTotal .Invoice.Currency}}</span></div>
  </div>

  {{if .Invoice.Notes}}<div class="notes">{{.Invoice.Notes}}</div>{{end}}
</body>
</html>
`

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var funcs = template.FuncMap{
	"formatMoney":    formatMoney,
	"formatQuantity": formatQuantity,
}

type HTMLRenderer struct {
	builtin *template.Template
}

func NewRenderer() Renderer {
	return &HTMLRenderer{
		builtin: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(markup string, input RenderInput) (string, error) {
	input.BrandColor = sanitizeColor(input.BrandColor)
	input.LogoURL = strings.TrimSpace(input.LogoURL)

	tpl := r.builtin
	if strings.TrimSpace(markup) != "" {
		parsed, err := template.New("org").Funcs(funcs).Parse(markup)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
		}
		tpl = parsed
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, input); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
	}
	return buf.String(), nil
}

// formatMoney groups thousands with a space and keeps the decimals
// as given, e.g. "1 250 000.00 XOF".
func formatMoney(amount string, currency string) string {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		amount = "0.00"
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))

	sign := ""
	if strings.HasPrefix(amount, "-") {
		sign, amount = "-", amount[1:]
	}
	whole, frac, hasFrac := strings.Cut(amount, ".")
	grouped := groupThousands(whole)
	if hasFrac {
		grouped += "." + frac
	}
	if currency == "" {
		return sign + grouped
	}
	return sign + grouped + " " + currency
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func formatQuantity(value string) string {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, ".") {
		return value
	}
	return strings.TrimRight(strings.TrimRight(value, "0"), ".")
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return defaultBrandColor
}

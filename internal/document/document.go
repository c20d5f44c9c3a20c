// Package document renders the printable pages of an order: the packing
// checklist, the rental contract and the order note.
package document

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/party-rental/internal/model"
)

// Document kinds.
const (
	KindChecklist = "checklist"
	KindContract  = "contract"
	KindNote      = "note"
)

// Kinds lists every renderable document.
var Kinds = []string{KindChecklist, KindContract, KindNote}

// ErrUnknownKind is returned by Render for kinds outside Kinds.
var ErrUnknownKind = errors.New("unknown document kind")

//go:embed templates/*.html
var templateFS embed.FS

// Company identifies the business on every page.
type Company struct {
	Name  string
	Phone string
}

// Renderer holds the parsed templates. It is safe for concurrent use.
type Renderer struct {
	company     Company
	deliveryFee decimal.Decimal
	tpl         *template.Template
	now         func() time.Time
}

func NewRenderer(company Company, deliveryFee decimal.Decimal) (*Renderer, error) {
	funcs := template.FuncMap{
		"brl":  BRL,
		"date": func(t time.Time) string { return t.Format("02/01/2006") },
	}
	tpl, err := template.New("documents").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse document templates")
	}
	return &Renderer{company: company, deliveryFee: deliveryFee, tpl: tpl, now: time.Now}, nil
}

// Row is one printed line of an order.
type Row struct {
	Item      string
	Quantity  int64
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

var titles = map[string]string{
	KindChecklist: "Checklist de Entrega e Devolução",
	KindContract:  "Contrato de Locação",
	KindNote:      "Nota do Pedido",
}

type page struct {
	Title       string
	Company     Company
	Customer    model.Customer
	Order       model.Order
	Rows        []Row
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	IssuedAt    time.Time
}

// Rows prices the lines of an order. A line paid up front keeps the total
// charged at reservation time.
func Rows(o model.Order) ([]Row, decimal.Decimal) {
	rows := make([]Row, 0, len(o.Lines))
	subtotal := decimal.Zero
	for _, l := range o.Lines {
		total := l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
		if l.Total != nil {
			total = *l.Total
		}
		rows = append(rows, Row{Item: l.ItemName, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Total: total})
		subtotal = subtotal.Add(total)
	}
	return rows, subtotal
}

// Render writes the HTML document of the given kind for one order.
func (r *Renderer) Render(kind string, o model.Order, c model.Customer) ([]byte, error) {
	title, ok := titles[kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	rows, subtotal := Rows(o)
	p := page{
		Title:       title,
		Company:     r.company,
		Customer:    c,
		Order:       o,
		Rows:        rows,
		Subtotal:    subtotal,
		DeliveryFee: r.deliveryFee,
		Total:       subtotal.Add(r.deliveryFee),
		IssuedAt:    r.now(),
	}
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, kind+".html", p); err != nil {
		return nil, errors.Wrapf(err, "render %s", kind)
	}
	return buf.Bytes(), nil
}

package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type MarotoProvider struct{}

func NewMaroto() *MarotoProvider {
	return &MarotoProvider{}
}

func (p *MarotoProvider) GenerateInvoice(ctx context.Context, doc Document) ([]byte, error) {
	in := doc.Input

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	number := in.Invoice.Number
	if number == "" {
		number = "brouillon"
	}

	m.AddRow(12,
		text.NewCol(6, "Facture", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(6, in.Org.Name, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("N° "+number, props.Text{Top: 0}),
			text.New("Date : "+in.Invoice.IssueDate, props.Text{Top: 5}),
			text.New(dueLine(in.Invoice.DueDate), props.Text{Top: 10}),
		),
		col.New(6),
	)

	m.AddRow(32,
		col.New(6).Add(
			text.New("Émetteur", props.Text{Style: fontstyle.Bold}),
			text.New(in.Org.Name, props.Text{Top: 5}),
			text.New(in.Org.Address, props.Text{Top: 10}),
			text.New(labelled("RCCM", in.Org.TradeRegister), props.Text{Top: 15}),
			text.New(labelled("IFU", in.Org.TaxID), props.Text{Top: 20}),
		),
		col.New(6).Add(
			text.New("Client", props.Text{Style: fontstyle.Bold, Align: align.Right}),
			text.New(in.Customer.Name, props.Text{Top: 5, Align: align.Right}),
			text.New(in.Customer.Address, props.Text{Top: 10, Align: align.Right}),
			text.New(in.Customer.Email, props.Text{Top: 15, Align: align.Right}),
			text.New(labelled("IFU", in.Customer.TaxID), props.Text{Top: 20, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Désignation", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qté", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Prix unitaire", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Montant", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range in.Lines {
		m.AddRow(8,
			text.NewCol(6, line.Description, props.Text{Size: 9}),
			text.NewCol(2, line.Quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Total, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRows(
		totalRow("Total HT", in.Subtotal, in.Invoice.Currency, false),
		totalRow(in.VATLabel, in.TaxTotal, in.Invoice.Currency, false),
		totalRow("Total TTC", in.GrandTotal, in.Invoice.Currency, true),
	)

	if in.Invoice.Notes != "" {
		m.AddRow(20,
			text.NewCol(12, in.Invoice.Notes, props.Text{Size: 8, Top: 8}),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}

func totalRow(label, amount, currency string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(8).Add(
		col.New(8),
		text.NewCol(2, label, props.Text{Size: 9, Style: style}),
		text.NewCol(2, amount+" "+currency, props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}

func labelled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + " : " + value
}

func dueLine(due string) string {
	if due == "" {
		return ""
	}
	return "Échéance : " + due
}

var _ Provider = (*MarotoProvider)(nil)

// Package pdf genera el cupom não fiscal de una venta con Maroto v2.
//
// Layout (ancho de bobina térmica de 80 mm):
//
//	┌──────────────────────────────┐
//	│  Loja + CNPJ                 │
//	│  Venda N° / Data / Operador  │
//	│  ──────────────────────────  │
//	│  Qtd | Produto | Unit | Sub  │
//	│  ──────────────────────────  │
//	│  Bruto / Desconto / TOTAL    │
//	│  Pagamentos                  │
//	│  ──────────────────────────  │
//	│  QR (id da venda) + leyenda  │
//	└──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 20, Blue: 20}
)

var paymentLabels = map[string]string{
	entity.PaymentMethodCash: "Dinheiro",
	entity.PaymentMethodPix:  "PIX",
	entity.PaymentMethodCard: "Cartão",
}

// ReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct{}

var _ sales.ReceiptGenerator = (*ReceiptGenerator)(nil)

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceiptPDF(_ context.Context, data sales.ReceiptData) ([]byte, error) {
	if data.Sale == nil {
		return nil, fmt.Errorf("pdf: venta vacía")
	}
	cfg := config.NewBuilder().
		WithDimensions(80, 297).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle("Cupom não fiscal", true).
		WithAuthor(nonEmpty(data.Store.Name, "PDV"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(data)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemHeaderRow())
	m.AddRows(itemRows(data.Sale.Items)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(totalRows(data.Sale)...)
	m.AddRows(paymentRows(data.Sale.Payments)...)

	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(footerRows(data.Sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRows(data sales.ReceiptData) []core.Row {
	s := data.Sale
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(nonEmpty(data.Store.Name, "PDV"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary,
			}),
		)),
	}
	if data.Store.TaxID != "" {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New("CNPJ: "+data.Store.TaxID, props.Text{Size: 7, Align: align.Center, Color: colorGray}),
		)))
	}
	rows = append(rows,
		row.New(5).Add(col.New(12).Add(
			text.New("CUPOM NÃO FISCAL", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1}),
		)),
		infoRow("Venda", shortID(s.ID)),
		infoRow("Data", s.CreatedAt.Format("02/01/2006 15:04")),
	)
	if data.Operator != "" {
		rows = append(rows, infoRow("Operador", data.Operator))
	}
	if data.Customer != nil {
		client := data.Customer.Name
		if data.Customer.TaxID != nil && *data.Customer.TaxID != "" {
			client += " (" + *data.Customer.TaxID + ")"
		}
		rows = append(rows, infoRow("Cliente", client))
	}
	return rows
}

func infoRow(label, value string) core.Row {
	return row.New(4).Add(
		col.New(4).Add(text.New(label+":", props.Text{Style: fontstyle.Bold, Size: 7})),
		col.New(8).Add(text.New(value, props.Text{Size: 7, Align: align.Right})),
	)
}

func itemHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Color: colorPrimary,
		}))
	}
	return row.New(5).Add(
		h("Qtd", 2, align.Left),
		h("Produto", 4, align.Left),
		h("Unit.", 3, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func itemRows(items []entity.SaleItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.ProductID
		if it.Product != nil && it.Product.Name != "" {
			name = it.Product.Name
		}
		out = append(out, row.New(5).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 7})),
			col.New(4).Add(text.New(name, props.Text{Size: 7})),
			col.New(3).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 7, Align: align.Right})),
			col.New(3).Add(text.New(formatMoney(it.Subtotal), props.Text{Size: 7, Align: align.Right})),
		))
	}
	return out
}

func totalRows(s *entity.Sale) []core.Row {
	total := func(label string, v decimal.Decimal, bold bool) core.Row {
		p := props.Text{Size: 7, Align: align.Right}
		if bold {
			p = props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary}
		}
		lp := p
		lp.Align = align.Left
		return row.New(5).Add(
			col.New(6).Add(text.New(label, lp)),
			col.New(6).Add(text.New(formatMoney(v), p)),
		)
	}
	rows := []core.Row{total("Total bruto", s.GrossTotal, false)}
	if s.DiscountTotal.IsPositive() {
		rows = append(rows, total("Desconto", s.DiscountTotal.Neg(), false))
	}
	return append(rows, total("TOTAL", s.NetTotal, true))
}

func paymentRows(payments []entity.Payment) []core.Row {
	rows := make([]core.Row, 0, len(payments)+1)
	rows = append(rows, row.New(5).Add(col.New(12).Add(
		text.New("Pagamentos", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
	)))
	for _, p := range payments {
		rows = append(rows, row.New(4).Add(
			col.New(6).Add(text.New(nonEmpty(paymentLabels[p.Method], p.Method), props.Text{Size: 7})),
			col.New(6).Add(text.New(formatMoney(p.Amount), props.Text{Size: 7, Align: align.Right})),
		))
	}
	return rows
}

func footerRows(s *entity.Sale) []core.Row {
	var rows []core.Row
	if !s.IsCompleted() {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("VENDA CANCELADA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorRed, Top: 1,
			}),
		)))
	}
	return append(rows,
		row.New(30).Add(col.New(12).Add(code.NewQr(s.ID, props.Rect{Percent: 90, Center: true}))),
		row.New(6).Add(col.New(12).Add(
			text.New("Documento sem valor fiscal. Obrigado pela preferência!", props.Text{
				Size: 6, Align: align.Center, Color: colorGray, Top: 1,
			}),
		)),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return id
}

// formatMoney formatea en reales con puntos de miles y coma decimal.
// Ej: 1234.5 → "R$ 1.234,50", -2 → "-R$ 2,00"
func formatMoney(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Abs()
	}
	s := v.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "R$ " + string(buf) + "," + frac
}

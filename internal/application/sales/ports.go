package sales

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// StoreInfo datos del estabelecimento impresos en el cupom.
type StoreInfo struct {
	Name  string
	TaxID string
}

// ReceiptData todo lo necesario para renderizar el cupom não fiscal de una venta.
// Sale trae ítems (con Product.Name) y pagos.
type ReceiptData struct {
	Store    StoreInfo
	Sale     *entity.Sale
	Operator string
	Customer *entity.Customer
}

// ReceiptGenerator genera el PDF del cupom.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data ReceiptData) ([]byte, error)
}

package dto

import "github.com/jhoicas/pdv-api/internal/domain/entity"

// Conversores entidad -> respuesta compartidos por los casos de uso.

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Barcode:      p.Barcode,
		SKU:          p.SKU,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		LowStock:     p.IsLowStock(),
		CategoryID:   p.CategoryID,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}

func ToCashSessionResponse(s *entity.CashSession) CashSessionResponse {
	out := CashSessionResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
		OpeningAmount: s.OpeningAmount,
		CountedAmount: s.CountedAmount,
		SystemAmount:  s.SystemAmount,
		Status:        s.Status,
	}
	if s.CountedAmount != nil && s.SystemAmount != nil {
		d := s.Difference()
		out.Difference = &d
	}
	return out
}

func ToSaleResponse(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		CashSessionID: s.CashSessionID,
		UserID:        s.UserID,
		CustomerID:    s.CustomerID,
		CreatedAt:     s.CreatedAt,
		GrossTotal:    s.GrossTotal,
		DiscountTotal: s.DiscountTotal,
		NetTotal:      s.NetTotal,
		Status:        s.Status,
		CancelledAt:   s.CancelledAt,
	}
	for _, it := range s.Items {
		item := SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
		if it.Product != nil {
			item.ProductName = it.Product.Name
		}
		out.Items = append(out.Items, item)
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, PaymentResponse{ID: p.ID, Method: p.Method, Amount: p.Amount})
	}
	return out
}

func ToAuditLogResponse(a *entity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		Action:        a.Action,
		AffectedTable: a.AffectedTable,
		RecordID:      a.RecordID,
		OldValue:      a.OldValue,
		NewValue:      a.NewValue,
		Justification: a.Justification,
		CreatedAt:     a.CreatedAt,
	}
}

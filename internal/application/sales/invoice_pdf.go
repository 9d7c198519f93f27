package sales

import (
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// InvoicePDFInput datos ya resueltos que necesita el generador para armar
// la representación gráfica de una factura de venta.
type InvoicePDFInput struct {
	Sale        *entity.Sale
	Customer    *entity.Customer
	ProductName string
	ProductSKU  string
}

// PDFUseCase genera la representación gráfica (PDF) de una venta.
type PDFUseCase struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// DownloadSaleInvoicePDF carga la venta con su cliente y producto y genera
// el PDF de la factura.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe.
func (uc *PDFUseCase) DownloadSaleInvoicePDF(id string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	customer, err := uc.customerRepo.GetByID(sale.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		customer = &entity.Customer{ID: sale.CustomerID, Name: "Cliente " + sale.CustomerID}
	}

	productName := "Producto " + sale.ProductID // fallback
	productSKU := ""
	if product, pErr := uc.productRepo.GetByID(sale.ProductID); pErr == nil && product != nil {
		productName = product.Name
		productSKU = product.SKU
	}

	pdfBytes, err = uc.generator.GenerateSaleInvoice(InvoicePDFInput{
		Sale:        sale,
		Customer:    customer,
		ProductName: productName,
		ProductSKU:  productSKU,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("factura_%s.pdf", sale.InvoiceNo)
	return pdfBytes, filename, nil
}

// seed puebla la base de datos con datos de demostración: un usuario admin,
// categorías, un proveedor, un cliente y productos con stock inicial.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que el servidor (DATABASE_URL o DB_*).
// Es idempotente: los registros que ya existen se omiten.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	now := time.Now()

	// Usuario admin
	userRepo := postgres.NewUserRepository(pool)
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123!"), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashear password: %v\n", err)
		os.Exit(1)
	}
	err = userRepo.Create(&entity.User{
		ID:           uuid.New().String(),
		Name:         "Administrador",
		Email:        "admin@kardex.local",
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	report("usuario admin@kardex.local", err)

	// Categorías
	categoryRepo := postgres.NewCategoryRepository(pool)
	electronicaID := uuid.New().String()
	for _, c := range []*entity.Category{
		{ID: electronicaID, Name: "Electrónica", Description: "Equipos y accesorios electrónicos", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "Papelería", Description: "Artículos de oficina", CreatedAt: now, UpdatedAt: now},
	} {
		report("categoría "+c.Name, categoryRepo.Create(c))
	}

	// Proveedor
	supplierRepo := postgres.NewSupplierRepository(pool)
	supplierID := uuid.New().String()
	report("proveedor TecnoParts", supplierRepo.Create(&entity.Supplier{
		ID:          supplierID,
		CompanyName: "TecnoParts SAS",
		Email:       "ventas@tecnoparts.co",
		Phone:       "+57 300 555 0101",
		Address:     entity.Address{Street: "Cra 15 #80-22", City: "Bogotá", Country: "Colombia"},
		Categories:  []string{"Electronics"},
		Status:      entity.SupplierActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))

	// Cliente
	customerRepo := postgres.NewCustomerRepository(pool)
	report("cliente Juana Pérez", customerRepo.Create(&entity.Customer{
		ID:        uuid.New().String(),
		Name:      "Juana Pérez",
		Email:     "juana.perez@example.com",
		Phone:     "+57 310 555 0202",
		Address:   entity.Address{Street: "Cl 45 #12-30", City: "Medellín", Country: "Colombia"},
		Status:    "Active",
		CreatedAt: now,
		UpdatedAt: now,
	}))

	// Productos con stock inicial. El movimiento de kardex del stock inicial
	// queda atribuido al propio producto como origen y se inserta en la misma
	// transacción que la fila del producto.
	txRunner := postgres.NewTxRunner(pool)
	for _, p := range []*entity.Product{
		{
			ID: uuid.New().String(), SKU: "TEC-001", Name: "Teclado mecánico",
			Description: "Teclado mecánico 60%, switches rojos",
			CategoryID:  electronicaID, SupplierID: supplierID,
			Price: decimal.NewFromInt(250000), CostPrice: decimal.NewFromInt(150000),
			Quantity: 40, Status: entity.ProductActive, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.New().String(), SKU: "MON-001", Name: "Monitor 27\"",
			Description: "Monitor IPS 27 pulgadas 144Hz",
			CategoryID:  electronicaID, SupplierID: supplierID,
			Price: decimal.NewFromInt(1200000), CostPrice: decimal.NewFromInt(850000),
			Quantity: 15, Status: entity.ProductActive, CreatedAt: now, UpdatedAt: now,
		},
	} {
		p := p
		err := txRunner.RunProduct(ctx, func(
			productRepo repository.ProductRepository,
			movRepo repository.StockMovementRepository,
		) error {
			if err := productRepo.Create(p); err != nil {
				return err
			}
			if p.Quantity == 0 {
				return nil
			}
			return movRepo.Create(&entity.StockMovement{
				ID:         uuid.New().String(),
				ProductID:  p.ID,
				Delta:      p.Quantity,
				SourceType: entity.SourceTypeProduct,
				SourceID:   p.ID,
				AppliedAt:  now,
			})
		})
		report("producto "+p.SKU, err)
	}

	fmt.Println("seed completado")
}

func report(what string, err error) {
	switch {
	case err == nil:
		fmt.Printf("ok: %s\n", what)
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		fmt.Printf("omitido (ya existe): %s\n", what)
	default:
		fmt.Fprintf(os.Stderr, "error en %s: %v\n", what, err)
	}
}

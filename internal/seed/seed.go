// Package seed loads the demo account used for local development and
// product demos: one user, five clients and five invoices across every
// status but CANCELLED.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facturafacil/facturafacil/internal/model"
	"github.com/facturafacil/facturafacil/internal/service"
)

// Demo account credentials.
const (
	DemoName     = "Usuario Demo"
	DemoEmail    = "demo@facturacion.com"
	DemoPassword = "demo123"
)

// ErrAlreadySeeded is returned when the demo user already exists.
var ErrAlreadySeeded = errors.New("demo data already present")

// Services are the write paths the seed goes through, so demo rows get the
// same validation and totals as API-created ones.
type Services struct {
	Auth     *service.AuthService
	Clients  *service.ClientService
	Invoices *service.InvoiceService
}

// Result summarizes what Run created.
type Result struct {
	User     *model.User
	Clients  int
	Invoices int
}

type demoInvoice struct {
	number  string
	client  int
	daysAgo int
	dueAgo  *int
	status  model.InvoiceStatus
	notes   string
	items   []service.InvoiceItemInput
}

var demoClients = []service.ClientInput{
	{
		Name:    "María Fernanda García",
		Email:   "maria.garcia@techsolutions.ec",
		Company: "Tech Solutions Ecuador S.A.",
		Phone:   "+593 98 765 4321",
		Address: "Av. Amazonas N24-155 y Coruña, Quito 170143",
	},
	{
		Name:    "Juan Carlos Pérez",
		Email:   "juan.perez@innovatech.ec",
		Company: "InnovaTech Guayaquil Cía. Ltda.",
		Phone:   "+593 99 123 4567",
		Address: "Av. 9 de Octubre 424 y Baquerizo Moreno, Guayaquil 090313",
	},
	{
		Name:    "Ana Cristina Martínez",
		Email:   "ana.martinez@digitalec.com",
		Company: "Digital Group Ecuador",
		Phone:   "+593 96 234 5678",
		Address: "Av. de los Shyris N34-98 y República del Salvador, Quito 170135",
	},
	{
		Name:    "Carlos Alberto Rodríguez",
		Email:   "carlos.rodriguez@startupec.com",
		Company: "StartupEC S.A.S.",
		Phone:   "+593 97 345 6789",
		Address: "Av. República de El Salvador N36-84, Quito 170135",
	},
	{
		Name:    "Laura Patricia Sánchez",
		Email:   "laura.sanchez@consultingec.com",
		Company: "Consulting Pro Ecuador",
		Phone:   "+593 98 456 7890",
		Address: "Av. Francisco de Orellana, Edificio Blue Towers, Guayaquil 090150",
	},
}

func intPtr(n int) *int { return &n }

var demoInvoices = []demoInvoice{
	{
		number: "INV-2024-001", client: 0, daysAgo: 30, status: model.InvoiceStatusPaid,
		notes: "Desarrollo de sitio web corporativo",
		items: []service.InvoiceItemInput{
			{Description: "Diseño UI/UX", Quantity: 1, UnitPrice: 400},
			{Description: "Desarrollo Frontend", Quantity: 1, UnitPrice: 600},
		},
	},
	{
		number: "INV-2024-002", client: 1, daysAgo: 15, status: model.InvoiceStatusPaid,
		notes: "Consultoría tecnológica - Fase 1",
		items: []service.InvoiceItemInput{
			{Description: "Análisis de sistemas", Quantity: 20, UnitPrice: 75},
			{Description: "Arquitectura de soluciones", Quantity: 10, UnitPrice: 100},
		},
	},
	{
		number: "INV-2024-003", client: 2, daysAgo: 5, status: model.InvoiceStatusPending,
		notes: "Campaña de marketing digital",
		items: []service.InvoiceItemInput{
			{Description: "Estrategia de contenidos", Quantity: 1, UnitPrice: 800},
			{Description: "Gestión de redes sociales", Quantity: 1, UnitPrice: 1000},
		},
	},
	{
		number: "INV-2024-004", client: 3, daysAgo: 0, status: model.InvoiceStatusPending,
		notes: "Desarrollo de aplicación móvil",
		items: []service.InvoiceItemInput{
			{Description: "Desarrollo iOS", Quantity: 1, UnitPrice: 1750},
			{Description: "Desarrollo Android", Quantity: 1, UnitPrice: 1750},
		},
	},
	{
		number: "INV-2024-005", client: 4, daysAgo: 45, dueAgo: intPtr(30), status: model.InvoiceStatusOverdue,
		notes: "Servicios de soporte técnico",
		items: []service.InvoiceItemInput{
			{Description: "Soporte técnico mensual", Quantity: 3, UnitPrice: 400},
		},
	},
}

const demoTaxRate = 15

// Run creates the demo account relative to now. It stops with
// ErrAlreadySeeded if the demo user is already registered.
func Run(ctx context.Context, svc Services, now time.Time) (*Result, error) {
	user, err := svc.Auth.Register(ctx, service.RegisterInput{
		Name:     DemoName,
		Email:    DemoEmail,
		Password: DemoPassword,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return nil, ErrAlreadySeeded
		}
		return nil, fmt.Errorf("seed demo user: %w", err)
	}

	result := &Result{User: user}

	clientIDs := make([]string, len(demoClients))
	for i, input := range demoClients {
		client, err := svc.Clients.CreateClient(ctx, user.ID, input)
		if err != nil {
			return result, fmt.Errorf("seed client %q: %w", input.Email, err)
		}
		clientIDs[i] = client.ID
		result.Clients++
	}

	day := func(n int) string {
		return now.AddDate(0, 0, -n).UTC().Format("2006-01-02")
	}

	for _, d := range demoInvoices {
		input := service.InvoiceInput{
			ClientID:      clientIDs[d.client],
			InvoiceNumber: d.number,
			Date:          day(d.daysAgo),
			Status:        string(d.status),
			TaxRate:       demoTaxRate,
			Notes:         d.notes,
			Items:         d.items,
		}
		if d.dueAgo != nil {
			input.DueDate = day(*d.dueAgo)
		}

		if _, err := svc.Invoices.CreateInvoice(ctx, user.ID, input); err != nil {
			return result, fmt.Errorf("seed invoice %s: %w", d.number, err)
		}
		result.Invoices++
	}

	return result, nil
}

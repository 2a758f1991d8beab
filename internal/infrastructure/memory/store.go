// Package memory implementa los puertos de repositorio en memoria.
// Se usa en tests de casos de uso y de HTTP; Run hace rollback restaurando una copia del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	features     map[string]entity.Feature
	schools      map[string]entity.School
	entitlements map[string]entity.SchoolFeature // clave schoolID|featureID
	setups       map[string]entity.SchoolFeatureSetup
	invoices     map[string]entity.Invoice
	lines        map[string][]entity.InvoiceLine // por invoiceID, en orden de inserción
	sequences    map[int]int64
	users        map[string]entity.User
	supplies     map[string]entity.Supply
	movements    []entity.SupplyMovement
}

func newState() state {
	return state{
		features:     map[string]entity.Feature{},
		schools:      map[string]entity.School{},
		entitlements: map[string]entity.SchoolFeature{},
		setups:       map[string]entity.SchoolFeatureSetup{},
		invoices:     map[string]entity.Invoice{},
		lines:        map[string][]entity.InvoiceLine{},
		sequences:    map[int]int64{},
		users:        map[string]entity.User{},
		supplies:     map[string]entity.Supply{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.features {
		c.features[k] = v
	}
	for k, v := range s.schools {
		c.schools[k] = v
	}
	for k, v := range s.entitlements {
		c.entitlements[k] = v
	}
	for k, v := range s.setups {
		c.setups[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]entity.InvoiceLine(nil), v...)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.supplies {
		c.supplies[k] = v
	}
	c.movements = append([]entity.SupplyMovement(nil), s.movements...)
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   state

	// FailNextSequence fuerza un error en la próxima reserva de número (tests de rollback).
	FailNextSequence error
	// FailNextInvoiceUpdate fuerza un error en la próxima actualización de factura.
	FailNextInvoiceUpdate error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repos devuelve los repositorios sobre este store.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Features:     &FeatureRepo{s: s},
		Schools:      &SchoolRepo{s: s},
		Entitlements: &EntitlementRepo{s: s},
		Invoices:     &InvoiceRepo{s: s},
		Supplies:     &SupplyRepo{s: s},
	}
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Run ejecuta fn serializado; si fn falla se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func entKey(schoolID, featureID string) string { return schoolID + "|" + featureID }

func copyLinks(in []entity.MenuLink) []entity.MenuLink {
	if in == nil {
		return nil
	}
	return append([]entity.MenuLink(nil), in...)
}

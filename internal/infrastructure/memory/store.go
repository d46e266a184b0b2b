package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

// state todas las tablas del adaptador en memoria.
type state struct {
	products     map[string]entity.Product
	movements    []entity.StockMovement
	orders       map[string]entity.PurchaseOrder
	items        map[string]entity.PurchaseOrderItem
	itemSeq      map[string]int64 // orden de inserción de ítems
	transactions []entity.FinancialTransaction
	sales        map[string]entity.Sale
	poSeq        int
	movSeq       int64
	rowSeq       int64
}

func newState() *state {
	return &state{
		products: map[string]entity.Product{},
		orders:   map[string]entity.PurchaseOrder{},
		items:    map[string]entity.PurchaseOrderItem{},
		itemSeq:  map[string]int64{},
		sales:    map[string]entity.Sale{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:     make(map[string]entity.Product, len(s.products)),
		movements:    append([]entity.StockMovement(nil), s.movements...),
		orders:       make(map[string]entity.PurchaseOrder, len(s.orders)),
		items:        make(map[string]entity.PurchaseOrderItem, len(s.items)),
		itemSeq:      make(map[string]int64, len(s.itemSeq)),
		transactions: append([]entity.FinancialTransaction(nil), s.transactions...),
		sales:        make(map[string]entity.Sale, len(s.sales)),
		poSeq:        s.poSeq,
		movSeq:       s.movSeq,
		rowSeq:       s.rowSeq,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.itemSeq {
		c.itemSeq[k] = v
	}
	for k, v := range s.sales {
		v.Items = append([]entity.SaleItem(nil), v.Items...)
		c.sales[k] = v
	}
	return c
}

// Store adaptador de persistencia en memoria con transacciones reales: cada Run trabaja
// sobre una copia del estado que solo se publica en el commit. Las transacciones se
// serializan entre sí, lo que equivale a bloquear todas las filas que tocan.
// Se usa en tests y con STORAGE_DRIVER=memory.
type Store struct {
	txMu sync.Mutex   // serializa transacciones y escrituras fuera de tx
	mu   sync.RWMutex // protege st
	st   *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repos atados a una copia del estado; Commit si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(ctx, s.repos(view{store: s, tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// Repos repositorios fuera de transacción (lecturas y escrituras puntuales).
func (s *Store) Repos() ports.TxRepos {
	return s.repos(view{store: s})
}

func (s *Store) repos(v view) ports.TxRepos {
	return ports.TxRepos{
		Products:       &ProductRepo{v: v},
		Movements:      &StockMovementRepo{v: v},
		PurchaseOrders: &PurchaseOrderRepo{v: v},
		Finance:        &FinancialTransactionRepo{v: v},
		Sales:          &SaleRepo{v: v},
	}
}

// view acceso al estado: dentro de una tx opera sobre la copia de trabajo; fuera de ella
// toma los locks del store.
type view struct {
	store *Store
	tx    *state
}

func (v view) read(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.st)
}

func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.txMu.Lock()
	defer v.store.txMu.Unlock()
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

// Package memstore keeps every storefront repository in process memory. It
// backs STORE_DRIVER=memory and the service and handler tests.
//
// All repositories of one Store share a single lock, so multi-entity writes
// such as a checkout or a user deletion are atomic.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/MikeMC777/storefront/internal/admin"
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/enquiry"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/product"
	"github.com/MikeMC777/storefront/internal/user"
)

type row[T any] struct {
	seq uint64
	v   T
}

type Store struct {
	mu  sync.RWMutex
	seq uint64
	now func() time.Time

	products   map[string]row[product.Product]
	users      map[string]row[user.User]
	admins     map[string]row[admin.User]
	cartItems  map[string]row[cart.Item]
	orders     map[string]row[order.Order]
	orderItems map[string][]order.Item
	payments   map[string]order.Payment
	enquiries  map[string]row[enquiry.Enquiry]
}

func New() *Store {
	return &Store{
		now:        time.Now,
		products:   map[string]row[product.Product]{},
		users:      map[string]row[user.User]{},
		admins:     map[string]row[admin.User]{},
		cartItems:  map[string]row[cart.Item]{},
		orders:     map[string]row[order.Order]{},
		orderItems: map[string][]order.Item{},
		payments:   map[string]order.Payment{},
		enquiries:  map[string]row[enquiry.Enquiry]{},
	}
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) Products() *Products   { return &Products{s} }
func (s *Store) Users() *Users         { return &Users{s} }
func (s *Store) Admins() *Admins       { return &Admins{s} }
func (s *Store) Carts() *Carts         { return &Carts{s} }
func (s *Store) Orders() *Orders       { return &Orders{s} }
func (s *Store) Enquiries() *Enquiries { return &Enquiries{s} }

// sorted returns the values of m ordered by insertion, or the reverse when
// newest is set.
func sorted[T any](m map[string]row[T], keep func(T) bool, newest bool) []T {
	rows := make([]row[T], 0, len(m))
	for _, r := range m {
		if keep == nil || keep(r.v) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if newest {
			return rows[i].seq > rows[j].seq
		}
		return rows[i].seq < rows[j].seq
	})
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.v
	}
	return out
}

func page[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return in[:0]
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

var (
	_ product.Repository = (*Products)(nil)
	_ user.Repository    = (*Users)(nil)
	_ admin.Repository   = (*Admins)(nil)
	_ cart.Repository    = (*Carts)(nil)
	_ order.Repository   = (*Orders)(nil)
	_ enquiry.Repository = (*Enquiries)(nil)
)

package memstore

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/order"
)

type Carts struct{ s *Store }

func (r *Carts) AddOrIncrement(_ context.Context, it *cart.Item) (*cart.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for k, cur := range r.s.cartItems {
		if cur.v.UserID == it.UserID && cur.v.ProductID == it.ProductID {
			if it.Quantity > cart.MaxQuantity-cur.v.Quantity {
				return nil, cart.ErrQuantityLimit
			}
			cur.v.Quantity += it.Quantity
			r.s.cartItems[k] = cur
			v := cur.v
			return &v, nil
		}
	}
	if it.Quantity > cart.MaxQuantity {
		return nil, cart.ErrQuantityLimit
	}
	v := *it
	v.CreatedAt = r.s.now().UTC()
	r.s.cartItems[v.ID] = row[cart.Item]{seq: r.s.next(), v: v}
	return &v, nil
}

func (r *Carts) Get(_ context.Context, id string) (*cart.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.cartItems[id]
	if !ok {
		return nil, cart.ErrNotFound
	}
	v := it.v
	return &v, nil
}

func (r *Carts) ListByUser(_ context.Context, userID string) ([]cart.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.cartOf(userID), nil
}

func (s *Store) cartOf(userID string) []cart.Item {
	return sorted(s.cartItems, func(it cart.Item) bool { return it.UserID == userID }, false)
}

func (r *Carts) SetQuantity(_ context.Context, userID, id string, quantity int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.cartItems[id]
	if !ok || it.v.UserID != userID {
		return false, nil
	}
	if quantity > cart.MaxQuantity {
		return false, cart.ErrQuantityLimit
	}
	it.v.Quantity = quantity
	r.s.cartItems[id] = it
	return true, nil
}

func (r *Carts) Delete(_ context.Context, userID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.cartItems[id]
	if !ok || it.v.UserID != userID {
		return false, nil
	}
	delete(r.s.cartItems, id)
	return true, nil
}

func (r *Carts) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.clearCart(userID), nil
}

func (s *Store) clearCart(userID string) int64 {
	var n int64
	for k, it := range s.cartItems {
		if it.v.UserID == userID {
			delete(s.cartItems, k)
			n++
		}
	}
	return n
}

type Orders struct{ s *Store }

func (r *Orders) Checkout(_ context.Context, userID, idempotencyKey string, build order.BuildFunc) (*order.Order, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if idempotencyKey != "" {
		for _, o := range r.s.orders {
			if o.v.UserID == userID && o.v.IdempotencyKey == idempotencyKey {
				v := o.v
				return &v, true, nil
			}
		}
	}
	p, err := build(r.s.cartOf(userID))
	if err != nil {
		return nil, false, err
	}
	o := p.Order
	r.s.orders[o.ID] = row[order.Order]{seq: r.s.next(), v: o}
	items := make([]order.Item, len(p.Items))
	for i, it := range p.Items {
		it.OrderID = o.ID
		items[i] = it
	}
	r.s.orderItems[o.ID] = items
	pay := p.Payment
	pay.OrderID = o.ID
	r.s.payments[o.ID] = pay
	r.s.clearCart(userID)
	return &o, false, nil
}

func (r *Orders) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	v := o.v
	return &v, nil
}

func (r *Orders) GetItems(_ context.Context, orderID string) ([]order.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]order.Item{}, r.s.orderItems[orderID]...), nil
}

func (r *Orders) GetPayment(_ context.Context, orderID string) (*order.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.payments[orderID]
	if !ok {
		return nil, order.ErrPaymentNotFound
	}
	return &p, nil
}

func (r *Orders) List(_ context.Context, f order.Filter) ([]order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sorted(r.s.orders, func(o order.Order) bool {
		return (f.UserID == "" || o.UserID == f.UserID) && (f.Status == "" || o.Status == f.Status)
	}, true)
	return page(all, f.Limit, f.Offset), nil
}

func (r *Orders) UpdateStatus(_ context.Context, id string, status order.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.v.Status = status
	o.v.UpdatedAt = r.s.now().UTC()
	r.s.orders[id] = o
	return nil
}

func (r *Orders) CountByStatus(context.Context) (map[order.Status]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := map[order.Status]int{}
	for _, o := range r.s.orders {
		out[o.v.Status]++
	}
	return out, nil
}

func (r *Orders) Revenue(context.Context) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total := decimal.Zero
	for _, o := range r.s.orders {
		if o.v.Status != order.StatusCancelled {
			total = total.Add(o.v.Total)
		}
	}
	return total, nil
}

func (r *Orders) StatsByUser(_ context.Context, userID string) (order.UserStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st := order.UserStats{TotalSpent: decimal.Zero}
	for _, o := range r.s.orders {
		if o.v.UserID != userID {
			continue
		}
		st.OrderCount++
		st.TotalSpent = st.TotalSpent.Add(o.v.Total)
		if st.LastOrderDate == nil || o.v.CreatedAt.After(*st.LastOrderDate) {
			t := o.v.CreatedAt
			st.LastOrderDate = &t
		}
	}
	return st, nil
}

func (r *Orders) ListPayments(_ context.Context, status string) ([]order.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m := make(map[string]row[order.Payment], len(r.s.payments))
	for id, p := range r.s.payments {
		if status == "" || p.Status == status {
			m[id] = row[order.Payment]{seq: r.s.orders[id].seq, v: p}
		}
	}
	return sorted(m, nil, true), nil
}

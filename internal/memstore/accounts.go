package memstore

import (
	"context"

	"github.com/MikeMC777/storefront/internal/user"
)

type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, x := range r.s.users {
		if x.v.Email == u.Email {
			return user.ErrAlreadyExist
		}
	}
	u.CreatedAt = r.s.now().UTC()
	r.s.users[u.ID] = row[user.User]{seq: r.s.next(), v: *u}
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	v := u.v
	return &v, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.v.Email == email {
			v := u.v
			return &v, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *Users) List(context.Context) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sorted(r.s.users, nil, true), nil
}

func (r *Users) UpdateStatus(_ context.Context, id string, status user.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.v.Status = status
	r.s.users[id] = u
	return nil
}

// Delete removes the user with their cart, orders, order items and payments.
func (r *Users) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	for k, it := range r.s.cartItems {
		if it.v.UserID == id {
			delete(r.s.cartItems, k)
		}
	}
	for k, o := range r.s.orders {
		if o.v.UserID == id {
			delete(r.s.orderItems, k)
			delete(r.s.payments, k)
			delete(r.s.orders, k)
		}
	}
	delete(r.s.users, id)
	return true, nil
}

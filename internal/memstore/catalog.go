package memstore

import (
	"context"
	"strings"

	"github.com/MikeMC777/storefront/internal/admin"
	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/enquiry"
	"github.com/MikeMC777/storefront/internal/product"
)

type Products struct{ s *Store }

func (r *Products) Create(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[p.ID]; ok {
		return product.ErrAlreadyExist
	}
	now := r.s.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.products[p.ID] = row[product.Product]{seq: r.s.next(), v: *p}
	return nil
}

func (r *Products) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	v := p.v
	return &v, nil
}

func (r *Products) List(_ context.Context, q product.Query) ([]product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q = q.Normalize()
	needle := strings.ToLower(q.Q)
	all := sorted(r.s.products, func(p product.Product) bool {
		return needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle)
	}, false)
	return page(all, q.Limit, q.Offset), nil
}

func (r *Products) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.products), nil
}

func (r *Products) Update(_ context.Context, p *product.Product, updatePrice bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.products[p.ID]
	if !ok {
		return product.ErrNotFound
	}
	v := &cur.v
	if p.Name != "" {
		v.Name = p.Name
	}
	if p.Description != "" {
		v.Description = p.Description
	}
	if updatePrice {
		v.Price = p.Price
	}
	if p.Image != "" {
		v.Image = p.Image
	}
	if p.Category != "" {
		v.Category = p.Category
	}
	v.Stock = p.Stock
	v.UpdatedAt = r.s.now().UTC()
	r.s.products[p.ID] = cur
	return nil
}

func (r *Products) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	delete(r.s.products, id)
	return true, nil
}

type Admins struct{ s *Store }

func (r *Admins) Create(_ context.Context, u *admin.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.admins {
		if a.v.Username == u.Username {
			return apperr.Conflict("username already exists")
		}
	}
	u.CreatedAt = r.s.now().UTC()
	r.s.admins[u.ID] = row[admin.User]{seq: r.s.next(), v: *u}
	return nil
}

func (r *Admins) GetByUsername(_ context.Context, username string) (*admin.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.admins {
		if a.v.Username == username {
			v := a.v
			return &v, nil
		}
	}
	return nil, admin.ErrNotFound
}

func (r *Admins) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.admins), nil
}

type Enquiries struct{ s *Store }

func (r *Enquiries) Create(_ context.Context, e *enquiry.Enquiry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e.CreatedAt = r.s.now().UTC()
	r.s.enquiries[e.ID] = row[enquiry.Enquiry]{seq: r.s.next(), v: *e}
	return nil
}

func (r *Enquiries) GetByID(_ context.Context, id string) (*enquiry.Enquiry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.enquiries[id]
	if !ok {
		return nil, enquiry.ErrNotFound
	}
	v := e.v
	return &v, nil
}

func (r *Enquiries) List(_ context.Context, status enquiry.Status, limit int) ([]enquiry.Enquiry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sorted(r.s.enquiries, func(e enquiry.Enquiry) bool {
		return status == "" || e.Status == status
	}, true)
	return page(all, limit, 0), nil
}

func (r *Enquiries) UpdateStatus(_ context.Context, id string, status enquiry.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.enquiries[id]
	if !ok {
		return enquiry.ErrNotFound
	}
	e.v.Status = status
	r.s.enquiries[id] = e
	return nil
}

func (r *Enquiries) CountByStatus(context.Context) (map[enquiry.Status]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := map[enquiry.Status]int{}
	for _, e := range r.s.enquiries {
		out[e.v.Status]++
	}
	return out, nil
}

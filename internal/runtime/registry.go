package runtime

import (
	"github.com/aretw0/pagedform/pkg/domain"
)

// AddPage registers p under key at the end of the sequence and hands it its namespace.
func (c *Controller) AddPage(key string, p domain.Page) error {
	if _, exists := c.index[key]; exists {
		return &domain.PageError{Key: key, Err: domain.ErrDuplicatePage}
	}
	p.Attach(key, c.RequestKey(key))
	c.index[key] = len(c.pages)
	c.pages = append(c.pages, p)
	c.keys = append(c.keys, key)
	return nil
}

// Page returns the page registered under key.
func (c *Controller) Page(key string) (domain.Page, error) {
	i, ok := c.index[key]
	if !ok {
		return nil, &domain.PageError{Key: key, Err: domain.ErrPageNotFound}
	}
	return c.pages[i], nil
}

// PageExists reports whether key is registered.
func (c *Controller) PageExists(key string) bool {
	_, ok := c.index[key]
	return ok
}

// PageIndex returns the zero-based position of key.
func (c *Controller) PageIndex(key string) (int, error) {
	if _, err := c.Page(key); err != nil {
		return 0, err
	}
	return c.index[key], nil
}

// PageByIndex returns the page at position i.
func (c *Controller) PageByIndex(i int) (domain.Page, error) {
	if i < 0 || i >= len(c.pages) {
		return nil, &domain.IndexError{Index: i, Count: len(c.pages)}
	}
	return c.pages[i], nil
}

// IsFirstPage reports whether p is registered at position 0.
func (c *Controller) IsFirstPage(p domain.Page) bool {
	i, ok := c.position(p)
	return ok && i == 0
}

// IsLastPage reports whether p is registered at the last position.
func (c *Controller) IsLastPage(p domain.Page) bool {
	i, ok := c.position(p)
	return ok && i == c.LastIndex()
}

// Pages returns the registered pages in order.
func (c *Controller) Pages() []domain.Page {
	out := make([]domain.Page, len(c.pages))
	copy(out, c.pages)
	return out
}

// Keys returns the registered page keys in order.
func (c *Controller) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of registered pages.
func (c *Controller) Len() int {
	return len(c.pages)
}

// LastIndex returns the position of the last page, or -1 when empty.
func (c *Controller) LastIndex() int {
	return len(c.pages) - 1
}

// Value reads a field of the page registered under pageKey.
func (c *Controller) Value(pageKey, field string, def any) (any, error) {
	p, err := c.Page(pageKey)
	if err != nil {
		return def, err
	}
	return p.Value(field, def), nil
}

// SetValue writes a field of the page registered under pageKey.
func (c *Controller) SetValue(pageKey, field string, value any) error {
	p, err := c.Page(pageKey)
	if err != nil {
		return err
	}
	p.SetValue(field, value)
	return nil
}

// Values returns the stored values of every page that exposes them, keyed by
// page. Other pages map to an empty set.
func (c *Controller) Values() map[string]map[string]any {
	out := make(map[string]map[string]any, len(c.pages))
	for i, p := range c.pages {
		if vp, ok := p.(interface{ Values() map[string]any }); ok {
			out[c.keys[i]] = vp.Values()
			continue
		}
		out[c.keys[i]] = map[string]any{}
	}
	return out
}

// position resolves a page through the key it was attached with.
func (c *Controller) position(p domain.Page) (int, bool) {
	if p == nil {
		return 0, false
	}
	i, ok := c.index[p.Key()]
	if !ok {
		return 0, false
	}
	return i, true
}

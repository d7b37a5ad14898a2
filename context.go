package granola

import "github.com/samber/lo"

// Context is the auxiliary data shared with nested serializers and callbacks.
// It is unrelated to context.Context, which carries cancellation.
type Context map[string]any

// fill copies keys from partial that c does not already hold.
func (c Context) fill(partial Context) {
	for k, v := range partial {
		if _, exists := c[k]; !exists {
			c[k] = v
		}
	}
}

// snapshot returns a shallow copy of c.
func (c Context) snapshot() Context {
	return lo.Assign(Context{}, c)
}

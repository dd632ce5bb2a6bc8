package registry

import (
	"cmp"
	"context"
	"iter"
	"slices"

	"github.com/vyrodovalexey/routeregistry/internal/route"
)

// StaticLocator serves a fixed list of definitions, such as the routes
// declared in configuration.
type StaticLocator struct {
	defs []route.Definition
}

// NewStaticLocator copies defs into a new StaticLocator.
func NewStaticLocator(defs []route.Definition) *StaticLocator {
	copied := make([]route.Definition, len(defs))
	for i, d := range defs {
		copied[i] = d.Clone()
	}
	return &StaticLocator{defs: copied}
}

// List implements Locator.
func (s *StaticLocator) List(_ context.Context) iter.Seq[route.Definition] {
	return func(yield func(route.Definition) bool) {
		for _, d := range s.defs {
			if !yield(d.Clone()) {
				return
			}
		}
	}
}

// CompositeLocator concatenates the listings of several locators.
type CompositeLocator struct {
	locators []Locator
}

// NewCompositeLocator combines locators in the given order.
func NewCompositeLocator(locators ...Locator) *CompositeLocator {
	return &CompositeLocator{locators: locators}
}

// List implements Locator.
func (c *CompositeLocator) List(ctx context.Context) iter.Seq[route.Definition] {
	return func(yield func(route.Definition) bool) {
		for _, l := range c.locators {
			for d := range l.List(ctx) {
				if !yield(d) {
					return
				}
			}
		}
	}
}

// OrderedLocator yields another locator's definitions sorted by Order.
// Definitions with equal Order keep their listing order.
type OrderedLocator struct {
	inner Locator
}

// NewOrderedLocator wraps inner.
func NewOrderedLocator(inner Locator) *OrderedLocator {
	return &OrderedLocator{inner: inner}
}

// List implements Locator.
func (o *OrderedLocator) List(ctx context.Context) iter.Seq[route.Definition] {
	return func(yield func(route.Definition) bool) {
		defs := slices.Collect(o.inner.List(ctx))
		slices.SortStableFunc(defs, func(a, b route.Definition) int {
			return cmp.Compare(a.Order, b.Order)
		})
		for _, d := range defs {
			if !yield(d) {
				return
			}
		}
	}
}

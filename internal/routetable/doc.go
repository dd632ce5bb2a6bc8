// Package routetable keeps the read-side view of the route registry that
// the routing engine consults. A Table lists a locator, orders the result
// by route order and publishes it as an immutable snapshot that readers
// load without locking.
package routetable

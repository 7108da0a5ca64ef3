/*
Package cancel provides the cooperative cancellation protocol of the parfold
executors.

A Context is a pair of atomic flag lists that forms an implicit tree following
the recursion of a fork-join fold. When a part of the fold determines the
final result early, cancelling its Context stops exactly the sibling parts
that a strictly sequential left-to-right fold would never have reached:
spawned parts that have not started yet return without touching their input,
while parts that are already running are not preempted.
*/
package cancel

import "sync/atomic"

/*
A Context determines which cancellations a part of a fold listens to, and
which flags it sets when it cancels.

The zero Context is valid and serves as the root of a cancellation tree: it
listens to nothing and cancels nothing.

Contexts are values. Fork returns new Contexts and never modifies its
receiver, and the flags a Context references only ever transition from unset
to set, so Contexts can be shared freely between goroutines.
*/
type Context struct {
	listening   []*atomic.Bool
	cancellable []*atomic.Bool
}

/*
Fork splits ctx into a foreground and a background Context around one fresh,
initially unset flag.

The foreground Context can additionally cancel the fresh flag; the background
Context additionally listens to it. An executor that splits its input spawns
the right half under the background Context and computes the left half under
the foreground Context. Because the cancellable flags accumulate along the
leftmost path of the recursion, an early termination found anywhere down that
path cancels every spawned right sibling along it.
*/
func (ctx Context) Fork() (foreground, background Context) {
	c := new(atomic.Bool)
	foreground = Context{
		listening:   ctx.listening,
		cancellable: appendFlag(ctx.cancellable, c),
	}
	background = Context{
		listening:   appendFlag(ctx.listening, c),
		cancellable: ctx.cancellable,
	}
	return
}

// appendFlag copies flags before extending it. Sibling Forks of the same
// Context must never share backing storage for their extended lists.
func appendFlag(flags []*atomic.Bool, c *atomic.Bool) []*atomic.Bool {
	extended := make([]*atomic.Bool, len(flags)+1)
	copy(extended, flags)
	extended[len(flags)] = c
	return extended
}

/*
Aborted reports whether any flag ctx listens to has been set.

Executors poll Aborted once at the entry of each recursive step. The check is
cooperative: a part that is already folding is never interrupted, so
cancellation reduces wasted work without bounding it.
*/
func (ctx Context) Aborted() bool {
	for _, c := range ctx.listening {
		if c.Load() {
			return true
		}
	}
	return false
}

// Cancel sets every flag ctx can cancel. Cancelling more than once is
// harmless.
func (ctx Context) Cancel() {
	for _, c := range ctx.cancellable {
		c.Store(true)
	}
}

package pipeline

/*
A Stage is one transformation in a pipeline's chain. Elements travel through
the chain as values of type any; they are transformed, dropped, or expanded
by the stages they pass through before they reach the terminal step function.

The set of stages is closed: values are created exclusively by Map, Filter,
Flatten, and Scan, or by the marker that Annotate inserts, and the fold
engine dispatches on exactly these variants.

Stages other than Scan must be referentially stateless: the parallel
executors feed disjoint parts of a sequence through the same chain
concurrently.
*/
type Stage interface {
	stage()
}

type mapStage struct{ f func(any) any }

type filterStage struct{ pred func(any) bool }

type flattenStage struct{ expand func(any) []any }

type scanStage struct {
	init any
	f    func(state, item any) (next, out any)
}

type markStage struct{ mode Vec }

func (mapStage) stage()     {}
func (filterStage) stage()  {}
func (flattenStage) stage() {}
func (scanStage) stage()    {}
func (markStage) stage()    {}

// Map returns a stage that replaces every element x by f(x).
func Map(f func(item any) any) Stage { return mapStage{f} }

// Filter returns a stage that keeps exactly the elements for which pred
// returns true.
func Filter(pred func(item any) bool) Stage { return filterStage{pred} }

/*
Flatten returns a stage that replaces every element by the elements of
expand(element), folded in order through the rest of the chain. An early
termination inside an expansion terminates the whole fold, exactly as if the
expanded elements had been part of the input sequence.
*/
func Flatten(expand func(item any) []any) Stage { return flattenStage{expand} }

/*
Scan returns a stateful stage: for every element, f receives the current
state and the element, and returns the next state and the element to pass
on. The state starts out as init for every fold.

The state makes the stage order sensitive, which contradicts the
associativity that splitting relies on, so only the sequential executor
accepts pipelines that contain Scan stages.
*/
func Scan(init any, f func(state, item any) (next, out any)) Stage {
	return scanStage{init, f}
}

// MapOf is a statically typed Map.
func MapOf[T, U any](f func(T) U) Stage {
	return Map(func(item any) any { return f(item.(T)) })
}

// FilterOf is a statically typed Filter.
func FilterOf[T any](pred func(T) bool) Stage {
	return Filter(func(item any) bool { return pred(item.(T)) })
}

// FlattenOf is a Flatten for elements that are slices of a known type.
func FlattenOf[T any]() Stage {
	return Flatten(func(item any) []any {
		ts := item.([]T)
		expanded := make([]any, len(ts))
		for i, t := range ts {
			expanded[i] = t
		}
		return expanded
	})
}

// ScanOf is a statically typed Scan.
func ScanOf[S, T, U any](init S, f func(S, T) (S, U)) Stage {
	return Scan(init, func(state, item any) (any, any) {
		next, out := f(state.(S), item.(T))
		return next, out
	})
}

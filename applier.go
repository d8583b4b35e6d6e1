package trailbus

// Applier is the capability a local state type supplies to receive change
// messages. Apply folds one message into the state, in place.
//
// The engine invokes Apply exactly once per message per reader, strictly in
// the order messages were published, and never concurrently against the same
// reader's state. Because Apply mutates, readers are normally added with a
// pointer type: AddReader(w, &MyState{}).
type Applier[M any] interface {
	Apply(m M)
}

// Package lifelock provides a lifetime barrier for objects observed
// concurrently by callbacks that outlive the scope that owns them.
//
// An owner arms a Barrier (or the higher-level Cell wrapper) on the address
// of a value it controls. Other goroutines mint Strong or Weak observers
// against that Barrier; a Strong observer guarantees the referent stays
// valid for as long as it's held, a Weak observer does not. When the owner
// wants to retire the value, it calls Disarm, which blocks until every
// outstanding Strong observer has been released before returning — so the
// owner never destroys the value while a callback is still reading it.
package lifelock

// Package lock serializes reconciliation runs per (venue, kind).
//
// The reconciliation engine holds no state and performs no locking; two runs against
// the same venue and kind would read interleaved server state and produce
// inconsistent plans. A Locker guards that pair:
//
//	release, err := locker.Acquire(ctx, lock.Key(venueID, string(kind)))
//	if errors.Is(err, lock.ErrLocked) {
//	    // another run is in progress
//	}
//	defer release(context.Background())
//
// MemoryLocker is enough for a single process. RedisLocker shares locks between
// instances with SET NX and a token-checked release, and expires them after a TTL
// so a crashed holder cannot block a pair forever.
package lock

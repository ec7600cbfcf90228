// Package tx provides cross-operation consistency for hive handles: a
// writer-preferring reader/writer lock with bounded waits, and a
// transaction manager that brackets a lock acquisition with the hive's
// flush-on-commit behavior.
//
// Transactions here are mutual exclusion, not journaling. Commit
// flushes a dirty writable hive and releases the lock; Abort releases
// the lock and nothing else. There is no rollback of mutations made
// while the transaction held the lock.
//
//	id, err := mgr.Begin(ctx, h, false)
//	if err != nil {
//	    return err
//	}
//	if err := h.SetDword(`NTCore\System`, "BootCount", n+1); err != nil {
//	    mgr.Abort(id)
//	    return err
//	}
//	return mgr.Commit(ctx, id)
package tx

// Package game implements the authoritative table state machine for a
// No-Limit Hold'em cash game: blind posting, betting legality, turn
// rotation, side-pot layering, showdown settlement and the host-moderated
// buy-in/cash-out queue.
//
// A Table is the single writer of its state. External actors submit
// intents (actions, chat, financial requests) through its methods;
// observers subscribe for immutable snapshots and never see the mutable
// aggregate. Timer-driven transitions and asynchronous agent decisions
// revalidate an action sequence number before applying, so stale work is
// discarded instead of racing live mutation.
package game

// Package household is a deterministic analysis engine for a single
// household's financial records. It turns already-parsed ledger rows
// (register entries, account balance snapshots, budget plan lines and
// insurance policies) into four independent report values:
//
//   - Balance sheet integrity: net worth over time with confidence bands
//     and a queue of suspect entries (stale balances, sign anomalies,
//     duplicate snapshots, low-confidence rows).
//   - Cash flow and allocation efficiency: planned vs actual per category
//     and month, variance drivers, and an income-to-category allocation
//     graph that conserves flow.
//   - Risk and insurance: coverage limits against exposure estimates, and
//     a renewal calendar that never silently drops a policy.
//   - Behavioral leakage: recurring subscriptions, fragmented spend, and
//     an uncategorized review queue.
//
// Every engine is a pure function of a normalized Ledger and an immutable
// Config: recomputation is idempotent, data-quality problems degrade into
// integrity flags instead of aborting the run, and internal invariant
// violations surface as a distinct InvariantError rather than producing
// plausible-looking wrong numbers.
//
// File ingestion, configuration storage and report presentation are left
// to callers; the hhops command line tool is one such caller.
package household

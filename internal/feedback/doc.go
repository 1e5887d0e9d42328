// Package feedback finalizes completed survey sessions into immutable
// records and stores them.
//
// The Store is an append-only, in-memory log: records enter in completion
// order, are never mutated or removed, and do not survive a restart. That
// volatility is a deliberate property of the live survey surface. When
// durability is wanted, the optional SQLite Archive mirrors every append to
// disk; it feeds the CLI's --archived view and nothing else.
package feedback

// Package password implements password hashing, complexity validation, and
// reuse-history enforcement.
//
// # Hashing
//
// Hashes are bcrypt with a configurable cost. Verification is constant-time
// through the bcrypt comparison itself; no plaintext or hash material is
// retained after a call returns.
//
// # Policy
//
// [Validate] evaluates every rule of a [Policy] independently and returns
// the complete violation map, never short-circuiting on the first failure.
// [CheckHistory] rejects a candidate matching the current hash or any
// retained prior hash; [RotateHistory] appends the outgoing hash and evicts
// oldest-first beyond the retention cap.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other grcAuth package.
//   - Log plaintext passwords.
package password

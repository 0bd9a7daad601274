// Package apperrors defines the typed errors used across the extractor: transient
// I/O, contract/protocol, config, and fatal runtime errors. Decode failures have
// no error type here; the Event Decoder reports them as a skipped Result.
// Callers use errors.As to decide whether to retry, escalate, or abort the process.
package apperrors

import "fmt"

// TransientError wraps an error the caller should retry with backoff: RPC timeouts,
// storage 5xx responses, connection resets.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("%s: transient: %s", e.Op, e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// ContractError signals the node's response violates the JSON-RPC contract the
// extractor relies on: a missing block, a missing receipt, an unexpected schema.
// Not retried; it indicates the node isn't caught up and should surface to the
// operator.
type ContractError struct {
	Op      string
	Subject string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: contract violation: %s", e.Op, e.Subject)
}

// MissingBlock reports that a batched eth_getBlockByNumber response was null.
func MissingBlock(number uint64) error {
	return &ContractError{Op: "get_blocks_with_txs", Subject: fmt.Sprintf("missing block %d", number)}
}

// MissingReceipt reports that a batched eth_getTransactionReceipt response was null.
func MissingReceipt(hash string) error {
	return &ContractError{Op: "get_receipts", Subject: fmt.Sprintf("missing receipt %s", hash)}
}

// ConfigError is fatal at startup: an invalid output format, unsupported storage
// type, or a missing required option.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %q: %s", e.Field, e.Reason)
}

// FatalError denotes an unrecoverable runtime condition (executor shutdown,
// out-of-memory) that should terminate the process with a non-zero exit code.
type FatalError struct {
	Reason string
	Err    error
}

func (e *FatalError) Error() string { return fmt.Sprintf("fatal: %s: %s", e.Reason, e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// IsRetryable reports whether err should be retried by a Fetcher: true only for a
// TransientError anywhere in its Unwrap chain. Decode failures never reach it —
// the Chunk Pipeline skips the record and counts it as decode_skipped.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var t *TransientError
	return asTransient(err, &t)
}

func asTransient(err error, target **TransientError) bool {
	for err != nil {
		if t, ok := err.(*TransientError); ok {
			*target = t
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

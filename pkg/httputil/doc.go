// Package httputil provides retry logic with transient-error classification
// for remote API calls.
//
// Errors wrapped with [RetryableError] (network faults, 5xx responses) are
// retried with exponential backoff; everything else surfaces immediately so
// definitive answers like 404 or 403 are never retried.
package httputil

package serialdriver

import (
	"errors"
	"syscall"
	"testing"
)

func TestIsRetryableSyscallError(t *testing.T) {
	if !isRetryableSyscallError(syscall.EINTR) {
		t.Fatal("EINTR should be retryable")
	}
	if isRetryableSyscallError(syscall.EAGAIN) {
		t.Fatal("EAGAIN should not be treated as retryable")
	}
	if isRetryableSyscallError(errors.New("boom")) {
		t.Fatal("a non-syscall error should not be treated as retryable")
	}
	if isRetryableSyscallError(nil) {
		t.Fatal("nil error should not be treated as retryable")
	}
}

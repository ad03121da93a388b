package cron

import "sync"

// Lock keeps scheduler cycles from overlapping.
type Lock interface {
	TryAcquire() bool
	Release()
}

// LocalLock is an in-process Lock.
type LocalLock struct {
	mu sync.Mutex
}

func NewLocalLock() *LocalLock {
	return &LocalLock{}
}

func (l *LocalLock) TryAcquire() bool {
	return l.mu.TryLock()
}

func (l *LocalLock) Release() {
	l.mu.Unlock()
}

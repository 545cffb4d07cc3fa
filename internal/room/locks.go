package room

import "sort"

// LockManager tracks exclusive edit ownership of fields by connection id.
type LockManager struct {
	owners map[string]string
}

func NewLockManager() *LockManager {
	return &LockManager{owners: map[string]string{}}
}

// Acquire succeeds when the field is free or already held by owner.
func (l *LockManager) Acquire(field, owner string) bool {
	if cur, ok := l.owners[field]; ok {
		return cur == owner
	}
	l.owners[field] = owner
	return true
}

// Release succeeds only for the current owner.
func (l *LockManager) Release(field, owner string) bool {
	if cur, ok := l.owners[field]; !ok || cur != owner {
		return false
	}
	delete(l.owners, field)
	return true
}

// ReleaseAll drops every lock held by owner and returns the freed fields.
func (l *LockManager) ReleaseAll(owner string) []string {
	var freed []string
	for field, cur := range l.owners {
		if cur == owner {
			delete(l.owners, field)
			freed = append(freed, field)
		}
	}
	sort.Strings(freed)
	return freed
}

func (l *LockManager) Owner(field string) (string, bool) {
	owner, ok := l.owners[field]
	return owner, ok
}

// CanWrite is true for unlocked fields and for the lock holder.
func (l *LockManager) CanWrite(field, writer string) bool {
	owner, ok := l.owners[field]
	return !ok || owner == writer
}

func (l *LockManager) Snapshot() map[string]string {
	out := make(map[string]string, len(l.owners))
	for field, owner := range l.owners {
		out[field] = owner
	}
	return out
}

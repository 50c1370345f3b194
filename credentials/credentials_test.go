package credentials_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-bank-auth/credentials"
	"github.com/jrsteele09/go-bank-auth/users"
	"github.com/stretchr/testify/require"
)

func newCredential(id string) credentials.Credential {
	return credentials.Credential{
		ID:           id,
		Role:         users.RoleCustomer,
		PasswordHash: "$2a$10$fakehashfakehashfakehashfakehash",
		CreatedAt:    time.Now(),
	}
}

func TestCreateAndGet(t *testing.T) {
	store := credentials.NewInMemoryStore()

	require.NoError(t, store.Create(newCredential("alice")))

	cred, ok := store.Get("alice")
	require.True(t, ok)
	require.Equal(t, "alice", cred.ID)
	require.Equal(t, users.RoleCustomer, cred.Role)
	require.Zero(t, cred.FailedAttempts)
	require.True(t, cred.LockedUntil.IsZero())

	_, ok = store.Get("bob")
	require.False(t, ok)
}

func TestCreateDuplicate(t *testing.T) {
	store := credentials.NewInMemoryStore()

	require.NoError(t, store.Create(newCredential("alice")))
	err := store.Create(newCredential("alice"))
	require.ErrorIs(t, err, credentials.AlreadyExistsErr)
}

func TestIDsAreCaseNormalized(t *testing.T) {
	store := credentials.NewInMemoryStore()

	require.NoError(t, store.Create(newCredential("  Alice ")))

	cred, ok := store.Get("ALICE")
	require.True(t, ok)
	require.Equal(t, "alice", cred.ID)

	err := store.Create(newCredential("alice"))
	require.ErrorIs(t, err, credentials.AlreadyExistsErr)
}

func TestRecordFailureLocksAtThreshold(t *testing.T) {
	store := credentials.NewInMemoryStore()
	now := time.Now()

	require.NoError(t, store.Create(newCredential("alice")))

	for i := 1; i < credentials.LockThreshold; i++ {
		require.False(t, store.RecordFailure("alice", now), "attempt %d", i)

		cred, _ := store.Get("alice")
		require.Equal(t, i, cred.FailedAttempts)
		require.True(t, cred.LockedUntil.IsZero())
	}

	require.True(t, store.RecordFailure("alice", now))

	cred, _ := store.Get("alice")
	require.Equal(t, credentials.LockThreshold, cred.FailedAttempts)
	require.Equal(t, now.Add(credentials.LockDuration), cred.LockedUntil)
	require.True(t, store.IsLocked("alice", now))
}

func TestIsLockedLazyExpiry(t *testing.T) {
	store := credentials.NewInMemoryStore()
	now := time.Now()

	require.NoError(t, store.Create(newCredential("alice")))
	for i := 0; i < credentials.LockThreshold; i++ {
		store.RecordFailure("alice", now)
	}
	require.True(t, store.IsLocked("alice", now))
	require.True(t, store.IsLocked("alice", now.Add(credentials.LockDuration-time.Second)))

	// First check past the deadline clears the lock and the counter, even
	// without a login attempt.
	require.False(t, store.IsLocked("alice", now.Add(credentials.LockDuration+time.Second)))

	cred, _ := store.Get("alice")
	require.Zero(t, cred.FailedAttempts)
	require.True(t, cred.LockedUntil.IsZero())
}

func TestRecordSuccessResetsState(t *testing.T) {
	store := credentials.NewInMemoryStore()
	now := time.Now()

	require.NoError(t, store.Create(newCredential("alice")))
	for i := 0; i < credentials.LockThreshold; i++ {
		store.RecordFailure("alice", now)
	}

	store.RecordSuccess("alice")

	cred, _ := store.Get("alice")
	require.Zero(t, cred.FailedAttempts)
	require.True(t, cred.LockedUntil.IsZero())
	require.False(t, store.IsLocked("alice", now))
}

func TestRecordsForUnknownIDsAreNoOps(t *testing.T) {
	store := credentials.NewInMemoryStore()

	require.False(t, store.RecordFailure("ghost", time.Now()))
	store.RecordSuccess("ghost")
	require.False(t, store.IsLocked("ghost", time.Now()))
}

func TestSetPasswordHash(t *testing.T) {
	store := credentials.NewInMemoryStore()

	require.NoError(t, store.Create(newCredential("alice")))
	require.NoError(t, store.SetPasswordHash("alice", "new-hash"))

	cred, _ := store.Get("alice")
	require.Equal(t, "new-hash", cred.PasswordHash)

	err := store.SetPasswordHash("ghost", "new-hash")
	require.ErrorIs(t, err, credentials.NotFoundErr)
}

func TestGetReturnsCopy(t *testing.T) {
	store := credentials.NewInMemoryStore()

	require.NoError(t, store.Create(newCredential("alice")))

	cred, _ := store.Get("alice")
	cred.FailedAttempts = 99
	cred.PasswordHash = "tampered"

	fresh, _ := store.Get("alice")
	require.Zero(t, fresh.FailedAttempts)
	require.NotEqual(t, "tampered", fresh.PasswordHash)
}

func TestSnapshotRestore(t *testing.T) {
	store := credentials.NewInMemoryStore()
	now := time.Now()

	require.NoError(t, store.Create(newCredential("bob")))
	require.NoError(t, store.Create(newCredential("alice")))
	store.RecordFailure("alice", now)
	store.RecordFailure("alice", now)

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 2)
	require.Equal(t, "alice", snapshot[0].ID)
	require.Equal(t, "bob", snapshot[1].ID)
	require.Equal(t, 2, snapshot[0].FailedAttempts)

	restored, err := credentials.NewInMemoryStoreFromSnapshot(snapshot)
	require.NoError(t, err)

	cred, ok := restored.Get("alice")
	require.True(t, ok)
	require.Equal(t, 2, cred.FailedAttempts)

	_, err = credentials.NewInMemoryStoreFromSnapshot(append(snapshot, newCredential("alice")))
	require.ErrorIs(t, err, credentials.AlreadyExistsErr)
}

func TestConcurrentRecordFailureLosesNoIncrements(t *testing.T) {
	store := credentials.NewInMemoryStore()
	now := time.Now()

	const workers = 8
	const attemptsPerWorker = 25

	for w := 0; w < workers; w++ {
		require.NoError(t, store.Create(newCredential(fmt.Sprintf("user-%d", w))))
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < attemptsPerWorker; i++ {
				store.RecordFailure(id, now)
			}
		}(fmt.Sprintf("user-%d", w))
	}

	// Hammer one shared identity from every worker as well.
	require.NoError(t, store.Create(newCredential("shared")))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < attemptsPerWorker; i++ {
				store.RecordFailure("shared", now)
			}
		}()
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		cred, _ := store.Get(fmt.Sprintf("user-%d", w))
		require.Equal(t, attemptsPerWorker, cred.FailedAttempts)
	}

	shared, _ := store.Get("shared")
	require.Equal(t, workers*attemptsPerWorker, shared.FailedAttempts)
}

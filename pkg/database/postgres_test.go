package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubTx embeds the interface so only the lifecycle methods WithinTx
// touches need real implementations.
type stubTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (s *stubTx) Commit(_ context.Context) error {
	s.committed = true
	return s.commitErr
}

func (s *stubTx) Rollback(_ context.Context) error {
	s.rolledBack = true
	return nil
}

type stubDB struct {
	tx       *stubTx
	beginErr error
}

func (s *stubDB) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }

func (s *stubDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row { return nil }

func (s *stubDB) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *stubDB) Ping(_ context.Context) error { return nil }

func (s *stubDB) Close() {}

func (s *stubDB) Begin(_ context.Context) (pgx.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.tx, nil
}

func TestWithinTxCommitsOnCleanReturn(t *testing.T) {
	db := &stubDB{tx: &stubTx{}}

	err := WithinTx(context.Background(), db, func(tx pgx.Tx) error {
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
	if !db.tx.committed {
		t.Error("transaction was not committed")
	}
	if db.tx.rolledBack {
		t.Error("transaction was rolled back after a clean return")
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db := &stubDB{tx: &stubTx{}}
	boom := errors.New("mid-transaction failure")

	err := WithinTx(context.Background(), db, func(tx pgx.Tx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if !db.tx.rolledBack {
		t.Error("transaction was not rolled back")
	}
	if db.tx.committed {
		t.Error("transaction was committed despite the error")
	}
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	db := &stubDB{tx: &stubTx{}}

	defer func() {
		if recover() == nil {
			t.Fatal("panic was swallowed")
		}
		if !db.tx.rolledBack {
			t.Error("transaction was not rolled back")
		}
		if db.tx.committed {
			t.Error("transaction was committed despite the panic")
		}
	}()

	_ = WithinTx(context.Background(), db, func(tx pgx.Tx) error {
		panic("worker blew up")
	})
}

func TestWithinTxBeginFailure(t *testing.T) {
	db := &stubDB{beginErr: errors.New("pool exhausted")}

	called := false
	err := WithinTx(context.Background(), db, func(tx pgx.Tx) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected begin error")
	}
	if called {
		t.Error("fn ran without a transaction")
	}
}

func TestWithinTxCommitFailure(t *testing.T) {
	db := &stubDB{tx: &stubTx{commitErr: errors.New("connection lost")}}

	err := WithinTx(context.Background(), db, func(tx pgx.Tx) error {
		return nil
	})
	if err == nil {
		t.Fatal("expected commit error")
	}
}

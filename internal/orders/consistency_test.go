package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func deletedEvent(userID int) models.UserDeletedEvent {
	return models.UserDeletedEvent{UserID: userID, DeletedAt: time.Now()}
}

func expectMarkDeleted(mock sqlmock.Sqlmock, userID int, affected int64) {
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(models.StatusUserDeleted, userID).
		WillReturnResult(sqlmock.NewResult(0, affected))
	mock.ExpectCommit()
}

func TestHandleUserDeleted_MarksOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	handler := NewConsistencyHandler(db)
	expectMarkDeleted(mock, 42, 3)

	if err := handler.HandleUserDeleted(context.Background(), deletedEvent(42)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestHandleUserDeleted_Idempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	handler := NewConsistencyHandler(db)
	event := deletedEvent(42)

	// First application marks three orders; the second writes the same
	// status again. Both runs issue the identical statement and succeed.
	expectMarkDeleted(mock, 42, 3)
	expectMarkDeleted(mock, 42, 3)

	if err := handler.HandleUserDeleted(context.Background(), event); err != nil {
		t.Fatalf("first application: expected no error, got %v", err)
	}
	if err := handler.HandleUserDeleted(context.Background(), event); err != nil {
		t.Fatalf("second application: expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestHandleUserDeleted_NoMatchingOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	handler := NewConsistencyHandler(db)
	expectMarkDeleted(mock, 99, 0)

	if err := handler.HandleUserDeleted(context.Background(), deletedEvent(99)); err != nil {
		t.Fatalf("expected successful no-op, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestHandleUserDeleted_OnlyTargetsEventUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	handler := NewConsistencyHandler(db)

	// The statement is scoped by user_id; an event for user 7 must never
	// reach rows of other users.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(models.StatusUserDeleted, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := handler.HandleUserDeleted(context.Background(), deletedEvent(7)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestHandleUserDeleted_UpdateFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	handler := NewConsistencyHandler(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(models.StatusUserDeleted, 42).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if err := handler.HandleUserDeleted(context.Background(), deletedEvent(42)); err == nil {
		t.Fatal("expected error when the update fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestHandleUserDeleted_CommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	handler := NewConsistencyHandler(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(models.StatusUserDeleted, 42).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	if err := handler.HandleUserDeleted(context.Background(), deletedEvent(42)); err == nil {
		t.Fatal("expected error when commit fails")
	}
}

package orders

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/models"
)

// ConsistencyHandler applies user.deleted events to the denormalized order
// records: every order belonging to the deleted user gets its status set to
// "User Deleted" in a single transaction. Re-applying the same event writes
// the same value again, so delivery duplicates are harmless. The handler
// trusts the event; it does not verify the user against the user service.
type ConsistencyHandler struct {
	DB *sql.DB
}

// NewConsistencyHandler creates a handler against the order store.
func NewConsistencyHandler(db *sql.DB) *ConsistencyHandler {
	return &ConsistencyHandler{DB: db}
}

// HandleUserDeleted marks all orders of the deleted user. Zero matching
// orders is a successful no-op. Only the status column is touched.
func (h *ConsistencyHandler) HandleUserDeleted(ctx context.Context, event models.UserDeletedEvent) error {
	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE user_id = $2",
		models.StatusUserDeleted, event.UserID,
	)
	if err != nil {
		return fmt.Errorf("mark orders for user %d: %w", event.UserID, err)
	}
	affected, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("[Order] Marked %d order(s) as %q for deleted user %d", affected, models.StatusUserDeleted, event.UserID)
	return nil
}

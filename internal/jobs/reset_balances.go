// Package jobs holds the asynchronous units of work dispatched by the queue
// worker.
package jobs

import (
	"context"
	"database/sql"
	"log"

	"minipay/internal/queue"
	"minipay/internal/repositories"
)

// JobResetAllBalances is the queue job name for the balance reset.
const JobResetAllBalances = "reset-all-balances"

// ResetBalancesJob zeroes every account balance under its own transaction.
// The job is idempotent: resetting to zero twice is a no-op, which is what
// makes at-least-once queue delivery acceptable.
type ResetBalancesJob struct {
	accounts repositories.AccountRepository
}

// NewResetBalancesJob creates a ResetBalancesJob.
func NewResetBalancesJob(accounts repositories.AccountRepository) *ResetBalancesJob {
	return &ResetBalancesJob{accounts: accounts}
}

// Process executes the reset. Read-uncommitted is enough here: the update is
// a blunt overwrite, not a read-modify-write, so the committed end state is
// all-zero regardless of interleaving with concurrent transfers. On Postgres
// this degrades to read-committed, and the global UPDATE still waits for row
// locks held by in-flight transfers.
func (j *ResetBalancesJob) Process(ctx context.Context) error {
	log.Println("balance reset: started")

	opts := &sql.TxOptions{Isolation: sql.LevelReadUncommitted}
	err := j.accounts.WithinTransaction(ctx, opts, func(ctx context.Context) error {
		return j.accounts.ResetAllBalances(ctx)
	})
	if err != nil {
		// Log before returning so the failure is visible even if the queue
		// infrastructure swallows handler errors.
		log.Printf("balance reset: failed: %v", err)
		return err
	}

	log.Println("balance reset: completed")
	return nil
}

// Handler adapts the job to the queue worker.
func (j *ResetBalancesJob) Handler() queue.Handler {
	return func(ctx context.Context, _ queue.Job) error {
		return j.Process(ctx)
	}
}

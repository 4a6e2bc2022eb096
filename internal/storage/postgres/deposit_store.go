package postgres

import (
	"context"
	"fmt"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/storage"
)

// DepositStore implements storage.DepositStore using PostgreSQL.
type DepositStore struct {
	q querier
}

// NewDepositStore creates a DepositStore for non-transactional use.
func NewDepositStore(pool *Pool) *DepositStore {
	return &DepositStore{q: pool}
}

// Compile-time interface check.
var _ storage.DepositStore = (*DepositStore)(nil)

// Insert adds a new deposit. Returns ErrDuplicateKey if the address exists.
func (s *DepositStore) Insert(ctx context.Context, d *domain.Deposit) error {
	if err := checkBigintRange(d.DepositID, d.Amount, d.ClaimedReward); err != nil {
		return err
	}

	query := `
		INSERT INTO deposits (
			address, deposit_id, pool, staker, amount, claimed_reward,
			unlock_time, cooldown_active, withdrawn, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.q.Exec(ctx, query,
		d.Address,
		int64(d.DepositID),
		d.Pool,
		d.Staker,
		int64(d.Amount),
		int64(d.ClaimedReward),
		d.UnlockTime,
		d.CooldownActive,
		d.Withdrawn,
		d.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

// GetByAddress retrieves a deposit by its PDA. Returns ErrNotFound if
// not exists. Inside a transaction the row is locked for the duration
// of the operation.
func (s *DepositStore) GetByAddress(ctx context.Context, address string) (*domain.Deposit, error) {
	query := depositSelect + `
		WHERE address = $1
		FOR UPDATE
	`

	row := s.q.QueryRow(ctx, query, address)
	d, err := scanDeposit(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get deposit by address: %w", err)
	}
	return d, nil
}

// Update overwrites the mutable fields of an existing deposit.
func (s *DepositStore) Update(ctx context.Context, d *domain.Deposit) error {
	if err := checkBigintRange(d.ClaimedReward); err != nil {
		return err
	}

	query := `
		UPDATE deposits
		SET claimed_reward = $2, unlock_time = $3, cooldown_active = $4, withdrawn = $5
		WHERE address = $1
	`

	tag, err := s.q.Exec(ctx, query,
		d.Address,
		int64(d.ClaimedReward),
		d.UnlockTime,
		d.CooldownActive,
		d.Withdrawn,
	)
	if err != nil {
		return fmt.Errorf("update deposit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByPool retrieves all deposits referencing a pool, ordered by address ASC.
func (s *DepositStore) GetByPool(ctx context.Context, pool string) ([]*domain.Deposit, error) {
	query := depositSelect + `
		WHERE pool = $1
		ORDER BY address ASC
	`
	return s.getMany(ctx, query, pool)
}

// GetByStaker retrieves all deposits owned by a staker, ordered by address ASC.
func (s *DepositStore) GetByStaker(ctx context.Context, staker string) ([]*domain.Deposit, error) {
	query := depositSelect + `
		WHERE staker = $1
		ORDER BY address ASC
	`
	return s.getMany(ctx, query, staker)
}

const depositSelect = `
		SELECT address, deposit_id, pool, staker, amount, claimed_reward,
		       unlock_time, cooldown_active, withdrawn, created_at
		FROM deposits
`

func (s *DepositStore) getMany(ctx context.Context, query string, arg any) ([]*domain.Deposit, error) {
	rows, err := s.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("get deposits: %w", err)
	}
	defer rows.Close()

	var deposits []*domain.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deposit row: %w", err)
		}
		deposits = append(deposits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deposit rows: %w", err)
	}
	return deposits, nil
}

// scanDeposit scans a single row into a Deposit.
func scanDeposit(row rowScanner) (*domain.Deposit, error) {
	var d domain.Deposit
	var depositID, amount, claimedReward int64

	err := row.Scan(
		&d.Address,
		&depositID,
		&d.Pool,
		&d.Staker,
		&amount,
		&claimedReward,
		&d.UnlockTime,
		&d.CooldownActive,
		&d.Withdrawn,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.DepositID = uint64(depositID)
	d.Amount = uint64(amount)
	d.ClaimedReward = uint64(claimedReward)
	return &d, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/planetcare/server/internal/domain/donations"
)

var _ donations.Repository = (*DonationRepository)(nil)

type donationRow struct {
	ID          string
	ULID        string
	Email       *string
	AmountCents *int64
	Payload     []byte
	CreatedAt   pgtype.Timestamptz
}

const donationColumns = `id, ulid, email, amount_cents, payload, created_at`

func (r *DonationRepository) Create(ctx context.Context, params donations.CreateParams) (*donations.Donation, error) {
	queryer := r.queryer()

	var email *string
	if params.Email != "" {
		email = &params.Email
	}
	var amountCents *int64
	if params.AmountCents != 0 {
		amountCents = &params.AmountCents
	}

	row := queryer.QueryRow(ctx, `
INSERT INTO donations (id, ulid, email, amount_cents, payload, created_at)
VALUES (gen_random_uuid(), $1, $2, $3, $4, now())
RETURNING `+donationColumns, params.ULID, email, amountCents, []byte(params.Payload))

	donation, err := scanDonation(row)
	if err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	return donation, nil
}

func (r *DonationRepository) ListByEmail(ctx context.Context, email string) ([]donations.Donation, error) {
	queryer := r.queryer()
	rows, err := queryer.Query(ctx, `
SELECT `+donationColumns+`
  FROM donations
 WHERE email = $1
 ORDER BY created_at ASC
`, email)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var items []donations.Donation
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("list donations: %w", err)
		}
		items = append(items, *donation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return items, nil
}

func scanDonation(row pgx.Row) (*donations.Donation, error) {
	var data donationRow
	if err := row.Scan(
		&data.ID,
		&data.ULID,
		&data.Email,
		&data.AmountCents,
		&data.Payload,
		&data.CreatedAt,
	); err != nil {
		return nil, err
	}

	donation := &donations.Donation{
		ID:        data.ID,
		ULID:      data.ULID,
		Payload:   json.RawMessage(data.Payload),
		CreatedAt: data.CreatedAt.Time,
	}
	if data.Email != nil {
		donation.Email = *data.Email
	}
	if data.AmountCents != nil {
		donation.AmountCents = *data.AmountCents
	}
	return donation, nil
}

func (r *DonationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

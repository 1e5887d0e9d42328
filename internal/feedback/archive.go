package feedback

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Archive mirrors finalized records into SQLite so feedback survives process
// restarts. The in-memory Store stays authoritative for the live API; the
// archive is read only through the CLI.
type Archive struct {
	db   *sql.DB
	path string
}

// OpenArchive initializes or connects to the archive database.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	archive := &Archive{db: db, path: path}
	if err := archive.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return archive, nil
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Path returns the archive database location.
func (a *Archive) Path() string {
	if a == nil {
		return ""
	}
	return a.path
}

// Append inserts a finalized record. Ratings that were never captured are
// stored as NULL rather than the sentinel string.
func (a *Archive) Append(ctx context.Context, record Record) error {
	_, err := a.db.ExecContext(
		ctx,
		`INSERT INTO feedback_records (
            call_sid, from_number, to_number, completed_at,
            product_rating, delivery_rating, final_review
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.CallID,
		nullableString(record.From),
		nullableString(record.To),
		record.Timestamp,
		nullableRating(record.Answers.ProductRating),
		nullableRating(record.Answers.DeliveryRating),
		record.Answers.FinalReview,
	)
	if err != nil {
		return fmt.Errorf("insert feedback record: %w", err)
	}
	return nil
}

// List returns every archived record in insertion order.
func (a *Archive) List(ctx context.Context) ([]Record, error) {
	rows, err := a.db.QueryContext(
		ctx,
		`SELECT call_sid, from_number, to_number, completed_at,
                product_rating, delivery_rating, final_review
         FROM feedback_records ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list feedback records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			callSid     string
			fromNumber  sql.NullString
			toNumber    sql.NullString
			completedAt string
			product     sql.NullInt64
			delivery    sql.NullInt64
			review      sql.NullString
		)
		if err := rows.Scan(&callSid, &fromNumber, &toNumber, &completedAt, &product, &delivery, &review); err != nil {
			return nil, err
		}
		records = append(records, Record{
			CallID:    callSid,
			From:      fromNumber.String,
			To:        toNumber.String,
			Timestamp: completedAt,
			Answers: Answers{
				ProductRating:  Rating(product.Int64),
				DeliveryRating: Rating(delivery.Int64),
				FinalReview:    review.String,
			},
		})
	}
	return records, rows.Err()
}

// Count returns the number of archived records.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var count int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM feedback_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count feedback records: %w", err)
	}
	return count, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableRating(value Rating) any {
	if !value.Captured() {
		return nil
	}
	return int(value)
}

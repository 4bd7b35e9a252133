package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/penilai/internal/rubric"
)

type scoreRepo struct {
	drv *entsql.Driver
}

func (r *scoreRepo) SaveEntry(ctx context.Context, sessionID, student string, entry rubric.Entry) (err error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	del := sqlite.Delete(scoreEntriesTable.Name).
		Where(entsql.And(entsql.EQ("session_id", sessionID), entsql.EQ("student", student)))
	if err = execBuilder(ctx, tx, del); err != nil {
		return fmt.Errorf("clear scores of %s: %w", student, err)
	}

	if len(entry) > 0 {
		now := time.Now().UTC()
		ins := sqlite.Insert(scoreEntriesTable.Name).
			Columns("session_id", "student", "criterion", "value", "updated_at")
		for idx, v := range entry {
			ins.Values(sessionID, student, idx, v, now)
		}
		if err = execBuilder(ctx, tx, ins); err != nil {
			return fmt.Errorf("save scores of %s: %w", student, err)
		}
	}
	return tx.Commit()
}

func (r *scoreRepo) Entries(ctx context.Context, sessionID string) (map[string]rubric.Entry, error) {
	sel := sqlite.Select("student", "criterion", "value").
		From(sqlite.Table(scoreEntriesTable.Name)).
		Where(entsql.EQ("session_id", sessionID))

	rows, err := queryBuilder(ctx, r.drv, sel)
	if err != nil {
		return nil, fmt.Errorf("load scores of session %s: %w", sessionID, err)
	}
	defer rows.Close()

	out := make(map[string]rubric.Entry)
	for rows.Next() {
		var (
			student string
			idx     int
			value   float64
		)
		if err := rows.Scan(&student, &idx, &value); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		if out[student] == nil {
			out[student] = rubric.Entry{}
		}
		out[student][idx] = value
	}
	return out, rows.Err()
}

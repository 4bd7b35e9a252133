package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/penilai/internal/rubric"
)

type rubricRepo struct {
	drv *entsql.Driver
}

// Save stores r as the rubric of the document, replacing any earlier one.
// The document must exist.
func (r *rubricRepo) Save(ctx context.Context, documentID string, rb rubric.Rubric) error {
	criteria := rb.Criteria
	if criteria == nil {
		criteria = []rubric.Criterion{}
	}
	body, err := json.Marshal(criteria)
	if err != nil {
		return fmt.Errorf("encode criteria: %w", err)
	}

	ins := sqlite.Insert(rubricsTable.Name).
		Columns("document_id", "scheme", "label", "criteria", "created_at").
		Values(documentID, string(rb.Scheme), rb.Label, string(body), time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("document_id"), entsql.ResolveWithNewValues())
	if err := execBuilder(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("save rubric for %s: %w", documentID, err)
	}
	return nil
}

func (r *rubricRepo) Get(ctx context.Context, documentID string) (rubric.Rubric, error) {
	sel := sqlite.Select("scheme", "label", "criteria").
		From(sqlite.Table(rubricsTable.Name)).
		Where(entsql.EQ("document_id", documentID))

	rows, err := queryBuilder(ctx, r.drv, sel)
	if err != nil {
		return rubric.Rubric{}, fmt.Errorf("get rubric for %s: %w", documentID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return rubric.Rubric{}, err
		}
		return rubric.Rubric{}, fmt.Errorf("rubric for %s: %w", documentID, ErrNotFound)
	}

	var scheme, label, body string
	if err := rows.Scan(&scheme, &label, &body); err != nil {
		return rubric.Rubric{}, fmt.Errorf("scan rubric: %w", err)
	}
	rb := rubric.Rubric{Scheme: rubric.ParseScheme(scheme), Label: label}
	if err := json.Unmarshal([]byte(body), &rb.Criteria); err != nil {
		return rubric.Rubric{}, fmt.Errorf("decode criteria: %w", err)
	}
	return rb, nil
}

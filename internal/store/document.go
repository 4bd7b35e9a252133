package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type documentRepo struct {
	drv *entsql.Driver
}

var documentColumns = []string{"id", "title", "source", "markdown", "created_at"}

// Save assigns an ID and creation time when they are missing.
func (r *documentRepo) Save(ctx context.Context, doc *Document) error {
	if doc == nil {
		return errors.New("save document: nil document")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	ins := sqlite.Insert(documentsTable.Name).
		Columns(documentColumns...).
		Values(doc.ID, doc.Title, doc.Source, doc.Markdown, doc.CreatedAt).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("title")
				u.SetExcluded("source")
				u.SetExcluded("markdown")
			}),
		)
	if err := execBuilder(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

func (r *documentRepo) Get(ctx context.Context, id string) (*Document, error) {
	sel := sqlite.Select(documentColumns...).
		From(sqlite.Table(documentsTable.Name)).
		Where(entsql.EQ("id", id))

	docs, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return &docs[0], nil
}

func (r *documentRepo) List(ctx context.Context, opts QueryOpts) ([]Document, error) {
	sel := sqlite.Select(documentColumns...).
		From(sqlite.Table(documentsTable.Name)).
		OrderBy(entsql.Desc("created_at"), "id")
	timeRange(sel, "created_at", opts)

	docs, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) query(ctx context.Context, sel *entsql.Selector) ([]Document, error) {
	rows, err := queryBuilder(ctx, r.drv, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Source, &d.Markdown, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/penilai/internal/rubric"
)

// gradeRepo appends grades under the shared sequence counter.
type gradeRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

var gradeColumns = []string{
	"id", "sequence", "session_id", "document_id", "student", "score",
	"date", "assessment_type", "scheme", "created_at",
}

func (r *gradeRepo) Append(ctx context.Context, g Grade) error {
	if g.Score < 0 || g.Score > 100 {
		return fmt.Errorf("grade for %s: score %d outside 0-100", g.Student, g.Score)
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if g.Date.IsZero() {
		g.Date = time.Now().UTC()
	}

	ins := sqlite.Insert(gradesTable.Name).
		Columns(gradeColumns[1:]...).
		Values(seqNum, g.SessionID, g.DocumentID, g.Student, g.Score,
			g.Date, g.AssessmentType, string(g.Scheme), time.Now().UTC())
	if err := execBuilder(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("save grade for %s: %w", g.Student, err)
	}
	return nil
}

func (r *gradeRepo) List(ctx context.Context, q GradeQuery) ([]Grade, error) {
	sel := sqlite.Select(gradeColumns...).
		From(sqlite.Table(gradesTable.Name)).
		OrderBy("sequence")
	if q.DocumentID != "" {
		sel.Where(entsql.EQ("document_id", q.DocumentID))
	}
	if q.SessionID != "" {
		sel.Where(entsql.EQ("session_id", q.SessionID))
	}
	if q.Student != "" {
		sel.Where(entsql.EQ("student", q.Student))
	}
	timeRange(sel, "created_at", q.QueryOpts)

	rows, err := queryBuilder(ctx, r.drv, sel)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	defer rows.Close()

	var out []Grade
	for rows.Next() {
		var (
			g      Grade
			scheme string
		)
		err := rows.Scan(&g.ID, &g.Sequence, &g.SessionID, &g.DocumentID, &g.Student, &g.Score,
			&g.Date, &g.AssessmentType, &scheme, &g.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		g.Scheme = rubric.ParseScheme(scheme)
		out = append(out, g)
	}
	return out, rows.Err()
}

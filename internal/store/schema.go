package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions, in the shape ent's generated migrate package uses.
var (
	documentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "title", Type: field.TypeString},
		{Name: "source", Type: field.TypeString},
		{Name: "markdown", Type: field.TypeString, Size: 2147483647},
		{Name: "created_at", Type: field.TypeTime},
	}
	documentsTable = &schema.Table{
		Name:       "documents",
		Columns:    documentsColumns,
		PrimaryKey: []*schema.Column{documentsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "document_created_at", Columns: []*schema.Column{documentsColumns[4]}},
		},
	}

	rubricsColumns = []*schema.Column{
		{Name: "document_id", Type: field.TypeString, Unique: true},
		{Name: "scheme", Type: field.TypeString},
		{Name: "label", Type: field.TypeString, Default: ""},
		{Name: "criteria", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	rubricsTable = &schema.Table{
		Name:       "rubrics",
		Columns:    rubricsColumns,
		PrimaryKey: []*schema.Column{rubricsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "rubrics_documents_rubric",
				Columns:    []*schema.Column{rubricsColumns[0]},
				RefColumns: []*schema.Column{documentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	scoreEntriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "student", Type: field.TypeString},
		{Name: "criterion", Type: field.TypeInt},
		{Name: "value", Type: field.TypeFloat64},
		{Name: "updated_at", Type: field.TypeTime},
	}
	scoreEntriesTable = &schema.Table{
		Name:       "score_entries",
		Columns:    scoreEntriesColumns,
		PrimaryKey: []*schema.Column{scoreEntriesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "scoreentry_session_id_student_criterion",
				Unique:  true,
				Columns: []*schema.Column{scoreEntriesColumns[1], scoreEntriesColumns[2], scoreEntriesColumns[3]},
			},
		},
	}

	gradesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "document_id", Type: field.TypeString},
		{Name: "student", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "date", Type: field.TypeTime},
		{Name: "assessment_type", Type: field.TypeString},
		{Name: "scheme", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	gradesTable = &schema.Table{
		Name:       "grades",
		Columns:    gradesColumns,
		PrimaryKey: []*schema.Column{gradesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "grade_document_id", Columns: []*schema.Column{gradesColumns[3]}},
			{Name: "grade_student", Columns: []*schema.Column{gradesColumns[4]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventsColumns[2]}},
		},
	}

	tables = []*schema.Table{documentsTable, rubricsTable, scoreEntriesTable, gradesTable, llmEventsTable}
)

func init() {
	rubricsTable.ForeignKeys[0].RefTable = documentsTable
}

// migrate creates missing tables and indexes. It never drops anything.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}

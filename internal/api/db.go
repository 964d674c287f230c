package api

import (
	"context"
	"database/sql"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-ring/internal/humastar"
)

// DBHandler exposes the archive database: table listing and ad-hoc SQL
// over the ring snapshot and sweep history tables.
type DBHandler struct {
	db *sql.DB
}

// NewDBHandler creates a new database handler.
func NewDBHandler(db *sql.DB) *DBHandler {
	return &DBHandler{db: db}
}

// RegisterRoutes registers database routes with Huma.
func (h *DBHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/tables", h.ListTables, huma.OperationTags("db"))
	huma.Post(api, "/api/v1/query", h.Query, huma.OperationTags("db"))
	huma.Get(api, "/api/v1/rings/{id}/history", h.SweepHistory, huma.OperationTags("db"))
}

// SweepRun is one recorded sweep lifecycle event.
type SweepRun struct {
	Event string    `json:"event" doc:"Lifecycle event (sweep-started, sweep-stopped)"`
	At    time.Time `json:"at" doc:"Event timestamp"`
}

// SweepHistoryInput selects one ring's history page.
type SweepHistoryInput struct {
	ID     string `path:"id" doc:"Ring ID"`
	Offset int    `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
	Limit  int    `query:"limit" minimum:"1" maximum:"500" default:"50" doc:"Page size"`
}

// SweepHistoryOutput is a paginated page of sweep run events.
type SweepHistoryOutput struct {
	Body humastar.PageBody[SweepRun]
}

// SweepHistory returns the recorded sweep lifecycle events for one ring,
// newest first, with pagination Link headers.
func (h *DBHandler) SweepHistory(ctx context.Context, input *SweepHistoryInput) (*SweepHistoryOutput, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}

	var total int
	if err := h.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sweep_runs WHERE ring = ?`, input.ID,
	).Scan(&total); err != nil {
		return nil, huma.Error500InternalServerError("Failed to count history", err)
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT event, at FROM sweep_runs WHERE ring = ? ORDER BY at DESC LIMIT ? OFFSET ?`,
		input.ID, input.Limit, input.Offset)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to read history", err)
	}
	defer rows.Close()

	runs := []SweepRun{}
	for rows.Next() {
		var run SweepRun
		if err := rows.Scan(&run.Event, &run.At); err == nil {
			runs = append(runs, run)
		}
	}

	return &SweepHistoryOutput{Body: humastar.PageBody[SweepRun]{
		Total: total, Offset: input.Offset, Limit: input.Limit, Data: runs,
	}}, nil
}

// TablesOutput is the response for listing tables.
type TablesOutput struct {
	Body struct {
		Tables []string `json:"tables" doc:"List of table names"`
	}
}

// ListTables returns all DuckDB tables.
func (h *DBHandler) ListTables(ctx context.Context, input *struct{}) (*TablesOutput, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}

	rows, err := h.db.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list tables", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			tables = append(tables, name)
		}
	}

	if tables == nil {
		tables = []string{}
	}

	return &TablesOutput{
		Body: struct {
			Tables []string `json:"tables" doc:"List of table names"`
		}{
			Tables: tables,
		},
	}, nil
}

// QueryInput is the input for SQL queries.
type QueryInput struct {
	Body struct {
		Query string `json:"query" required:"true" doc:"SQL query to execute"`
	}
}

// QueryOutput is the response for SQL queries.
type QueryOutput struct {
	Body struct {
		Columns []string                 `json:"columns" doc:"Column names"`
		Rows    []map[string]interface{} `json:"rows" doc:"Query results"`
		Count   int                      `json:"count" doc:"Number of rows returned"`
	}
}

// Query executes a SQL query against DuckDB.
func (h *DBHandler) Query(ctx context.Context, input *QueryInput) (*QueryOutput, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}

	rows, err := h.db.QueryContext(ctx, input.Body.Query)
	if err != nil {
		return nil, huma.Error400BadRequest("Query failed: " + err.Error())
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get columns", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			continue
		}

		row := make(map[string]interface{})
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	if results == nil {
		results = []map[string]interface{}{}
	}

	return &QueryOutput{
		Body: struct {
			Columns []string                 `json:"columns" doc:"Column names"`
			Rows    []map[string]interface{} `json:"rows" doc:"Query results"`
			Count   int                      `json:"count" doc:"Number of rows returned"`
		}{
			Columns: columns,
			Rows:    results,
			Count:   len(results),
		},
	}, nil
}

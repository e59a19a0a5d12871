package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shadojus/amorph/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// UpsertSpecies creates or replaces a species keyed by its slug. The created
// timestamp is kept on update. Transaction conflicts are retried.
func (c *Client) UpsertSpecies(ctx context.Context, rec models.Record) (models.Record, error) {
	row, err := toRow(rec)
	if err != nil {
		return models.Record{}, fmt.Errorf("upsert species: %w", err)
	}
	if row.Slug == "" {
		return models.Record{}, fmt.Errorf("upsert species: missing slug")
	}

	sql := `
		UPSERT type::record("species", $slug) SET
			slug = $slug,
			name = $name,
			perspectives = $perspectives,
			fields = $fields,
			search_text = $search_text,
			updated = time::now(),
			created = IF created THEN created ELSE time::now() END
		RETURN AFTER
	`
	vars := map[string]any{
		"slug":         row.Slug,
		"name":         row.Name,
		"perspectives": row.Perspectives,
		"fields":       row.Fields,
		"search_text":  row.SearchText,
	}
	var results *[]surrealdb.QueryResult[[]speciesRow]
	err = retryConflicts(ctx, func() error {
		var qerr error
		results, qerr = surrealdb.Query[[]speciesRow](ctx, c.db, sql, vars)
		return queryError("upsert species", qerr)
	})
	if err != nil {
		return models.Record{}, err
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return models.Record{}, fmt.Errorf("upsert species: no result returned")
	}
	return (*results)[0].Result[0].record()
}

// GetSpecies retrieves a species by slug. Returns ErrNotFound if missing.
func (c *Client) GetSpecies(ctx context.Context, slug string) (models.Record, error) {
	results, err := surrealdb.Query[[]speciesRow](ctx, c.db, `
		SELECT * FROM type::record("species", $slug)
	`, map[string]any{"slug": slug})
	if err != nil {
		return models.Record{}, queryError("get species", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return models.Record{}, fmt.Errorf("get species %q: %w", slug, ErrNotFound)
	}
	return (*results)[0].Result[0].record()
}

// GetFields returns the named fields of a species, in the species' field
// order. An empty names list returns every field.
func (c *Client) GetFields(ctx context.Context, slug string, names []string) (models.Record, error) {
	rec, err := c.GetSpecies(ctx, slug)
	if err != nil {
		return models.Record{}, err
	}
	return only(rec, names), nil
}

// SearchSpecies runs a BM25 search over names and flattened field text,
// best match first. An empty query lists species by name.
func (c *Client) SearchSpecies(ctx context.Context, query string, limit int) ([]models.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return c.listSpecies(ctx, limit)
	}

	sql := `
		SELECT *, (search::score(0) * 2) + search::score(1) AS score
		FROM species
		WHERE name @0@ $q OR search_text @1@ $q
		ORDER BY score DESC
		LIMIT $limit
	`
	results, err := surrealdb.Query[[]speciesRow](ctx, c.db, sql, map[string]any{
		"q":     query,
		"limit": limit,
	})
	if err != nil {
		return nil, queryError("search species", err)
	}
	return rowsToRecords(results)
}

// ListSpecies returns every species ordered by name.
func (c *Client) ListSpecies(ctx context.Context) ([]models.Record, error) {
	return c.listSpecies(ctx, 0)
}

func (c *Client) listSpecies(ctx context.Context, limit int) ([]models.Record, error) {
	sql := `SELECT * FROM species ORDER BY name ASC`
	vars := map[string]any{}
	if limit > 0 {
		sql += ` LIMIT $limit`
		vars["limit"] = limit
	}
	results, err := surrealdb.Query[[]speciesRow](ctx, c.db, sql, vars)
	if err != nil {
		return nil, queryError("list species", err)
	}
	return rowsToRecords(results)
}

// DeleteSpecies removes a species. Returns ErrNotFound if it did not exist.
func (c *Client) DeleteSpecies(ctx context.Context, slug string) error {
	results, err := surrealdb.Query[[]speciesRow](ctx, c.db, `
		DELETE type::record("species", $slug) RETURN BEFORE
	`, map[string]any{"slug": slug})
	if err != nil {
		return queryError("delete species", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return fmt.Errorf("delete species %q: %w", slug, ErrNotFound)
	}
	return nil
}

func rowsToRecords(results *[]surrealdb.QueryResult[[]speciesRow]) ([]models.Record, error) {
	if results == nil || len(*results) == 0 {
		return []models.Record{}, nil
	}
	rows := (*results)[0].Result
	out := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

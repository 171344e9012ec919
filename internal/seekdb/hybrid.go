package seekdb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// rrfK is the rank offset of Reciprocal Rank Fusion. 60 is the value from
// the original RRF paper and what seekdb uses by default.
const rrfK = 60

// HybridParams configures a hybrid search over a collection: a keyword leg
// and a vector leg, fused by RRF.
type HybridParams struct {
	Collection      string
	FulltextKeyword string
	FulltextWhere   map[string]any
	FulltextN       int
	KNNEmbedding    []float64
	KNNWhere        map[string]any
	KNNN            int
	NResults        int
}

// HybridResult carries the fused ranking with the matching rows.
type HybridResult struct {
	IDs       []string  `json:"ids"`
	Documents []string  `json:"documents"`
	Metadatas []string  `json:"metadatas"`
	Scores    []float64 `json:"scores"`
}

// fulltextLegSQL selects candidate ids by keyword and metadata filter.
func fulltextLegSQL(p HybridParams) (string, error) {
	var conds []string
	if p.FulltextKeyword != "" {
		clause, err := documentClause(map[string]any{"$contains": p.FulltextKeyword})
		if err != nil {
			return "", err
		}
		conds = append(conds, clause)
	}
	if len(p.FulltextWhere) > 0 {
		clause, err := metadataClause(p.FulltextWhere)
		if err != nil {
			return "", err
		}
		conds = append(conds, clause)
	}
	if len(conds) == 0 {
		return "", nil
	}
	n := p.FulltextN
	if n <= 0 {
		n = 10
	}
	return fmt.Sprintf("SELECT id FROM %s WHERE %s LIMIT %d",
		quoteIdent(p.Collection), strings.Join(conds, " AND "), n), nil
}

// knnLegSQL selects candidate ids ordered by vector distance.
func knnLegSQL(p HybridParams) (string, error) {
	if len(p.KNNEmbedding) == 0 {
		return "", nil
	}
	n := p.KNNN
	if n <= 0 {
		n = 10
	}
	sql := fmt.Sprintf("SELECT id FROM %s", quoteIdent(p.Collection))
	if len(p.KNNWhere) > 0 {
		clause, err := metadataClause(p.KNNWhere)
		if err != nil {
			return "", err
		}
		sql += " WHERE " + clause
	}
	sql += fmt.Sprintf(" ORDER BY l2_distance(embedding, %s) APPROXIMATE LIMIT %d",
		vectorLiteral(p.KNNEmbedding), n)
	return sql, nil
}

// fuseRRF combines ranked id lists into a single ranking by reciprocal rank
// fusion. Ties break on id so the output is deterministic.
func fuseRRF(legs [][]string) ([]string, []float64) {
	scores := make(map[string]float64)
	for _, leg := range legs {
		for rank, id := range leg {
			scores[id] += 1.0 / float64(rrfK+rank+1)
		}
	}
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	fused := make([]float64, len(ids))
	for i, id := range ids {
		fused[i] = scores[id]
	}
	return ids, fused
}

func runLeg(ctx context.Context, ex Executor, query string) ([]string, error) {
	res := ex.Execute(ctx, query)
	if !res.Success {
		msg := "query failed"
		if res.Error != nil {
			msg = *res.Error
		}
		return nil, errors.New(msg)
	}
	ids := make([]string, 0, len(res.Data))
	for _, row := range res.Data {
		if len(row) > 0 {
			ids = append(ids, row[0])
		}
	}
	return ids, nil
}

// HybridSearch runs the keyword and vector legs, fuses their rankings with
// RRF and fetches the winning rows.
func HybridSearch(ctx context.Context, ex Executor, p HybridParams) (*HybridResult, error) {
	if err := ValidateIdentifier(p.Collection, "collection name"); err != nil {
		return nil, err
	}

	var legs [][]string
	ftSQL, err := fulltextLegSQL(p)
	if err != nil {
		return nil, err
	}
	if ftSQL != "" {
		ids, err := runLeg(ctx, ex, ftSQL)
		if err != nil {
			return nil, fmt.Errorf("full-text leg: %w", err)
		}
		legs = append(legs, ids)
	}
	knnSQL, err := knnLegSQL(p)
	if err != nil {
		return nil, err
	}
	if knnSQL != "" {
		ids, err := runLeg(ctx, ex, knnSQL)
		if err != nil {
			return nil, fmt.Errorf("knn leg: %w", err)
		}
		legs = append(legs, ids)
	}
	if len(legs) == 0 {
		return nil, &ValidationError{Field: "fulltext_search_keyword", Reason: "or knn_query_embeddings must be provided"}
	}

	ids, scores := fuseRRF(legs)
	n := p.NResults
	if n <= 0 {
		n = 5
	}
	if len(ids) > n {
		ids = ids[:n]
		scores = scores[:n]
	}

	out := &HybridResult{IDs: ids, Scores: scores}
	if len(ids) == 0 {
		return out, nil
	}

	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = quoteLiteral(id)
	}
	fetch := fmt.Sprintf("SELECT id, document, metadata FROM %s WHERE id IN (%s)",
		quoteIdent(p.Collection), strings.Join(quoted, ", "))
	res := ex.Execute(ctx, fetch)
	if !res.Success {
		msg := "fetch failed"
		if res.Error != nil {
			msg = *res.Error
		}
		return nil, errors.New(msg)
	}

	byID := make(map[string][]string, len(res.Data))
	for _, row := range res.Data {
		if len(row) >= 3 {
			byID[row[0]] = row
		}
	}
	out.Documents = make([]string, len(ids))
	out.Metadatas = make([]string, len(ids))
	for i, id := range ids {
		if row, ok := byID[id]; ok {
			out.Documents[i] = row[1]
			out.Metadatas[i] = row[2]
		}
	}
	return out, nil
}

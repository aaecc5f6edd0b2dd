// Package semantic implements spec.md §4.5 (semantic search client)
// and §4.6 (multi-query orchestrator).
//
// Grounded on original_source/services/semantic_search_service.py
// (search_by_query, search_by_query_with_filter) and
// original_source/retrieval/qdrant_vector_store.py for the Qdrant
// call shape.
package semantic

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/FACorreiaa/loci-route/internal/app/domain/poi"
)

// Embedder turns free text into a dense vector. The embedding model
// itself is out of scope (spec.md §1 Non-goals); this interface is
// the seam a real model client plugs into.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Hit is a single semantic search result: a POI joined with its
// similarity score.
type Hit struct {
	POI        poi.POI
	Similarity float64
}

// Client wraps a Qdrant collection and the POI info store used to
// hydrate raw vector hits into full POI records.
type Client struct {
	qdrant         *qdrant.Client
	collectionName string
	embedder       Embedder
	store          *poi.Store
}

func NewClient(qc *qdrant.Client, collectionName string, embedder Embedder, store *poi.Store) *Client {
	return &Client{qdrant: qc, collectionName: collectionName, embedder: embedder, store: store}
}

// Search is the unfiltered entry point of spec.md §4.5: embed the
// query, run top-k ANN search with no constraint, then hydrate every
// hit from the POI info store.
func (c *Client) Search(ctx context.Context, query string, topK uint64) ([]Hit, error) {
	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semantic: embed query: %w", err)
	}

	points, err := c.qdrant.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &topK,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: qdrant query: %w", err)
	}

	return c.hydrate(ctx, points, nil)
}

// SearchByIDs is the ID-filtered entry point of spec.md §4.5: embed
// the query and run top-k ANN search constrained to idList. An empty
// idList is a caller error, returned rather than raised.
//
// shortlistHint, when non-nil, is preferred over re-reading the POI
// store for fields that the spatial shortlist already carries
// (distance, opening hours) — a pure hydration shortcut, grounded on
// search_by_query_with_filter's "khỏi cần query db vì spatial results
// đã có sẵn" shortcut.
func (c *Client) SearchByIDs(ctx context.Context, query string, idList []uuid.UUID, topK uint64, shortlistHint map[uuid.UUID]poi.POI) ([]Hit, error) {
	if len(idList) == 0 {
		return nil, fmt.Errorf("semantic: empty id list provided")
	}

	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("semantic: embed query: %w", err)
	}

	ids := make([]*qdrant.PointId, 0, len(idList))
	for _, id := range idList {
		ids = append(ids, qdrant.NewIDUUID(id.String()))
	}

	points, err := c.qdrant.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewHasID(ids...)},
		},
		Limit: &topK,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: qdrant filtered query: %w", err)
	}

	return c.hydrate(ctx, points, shortlistHint)
}

// hydrate joins raw Qdrant hits back to full POI records, preferring
// shortlistHint when present and falling back to a batched store
// lookup for the remainder.
func (c *Client) hydrate(ctx context.Context, points []*qdrant.ScoredPoint, shortlistHint map[uuid.UUID]poi.POI) ([]Hit, error) {
	if len(points) == 0 {
		return nil, nil
	}

	needLookup := make([]uuid.UUID, 0, len(points))
	idOf := make(map[*qdrant.ScoredPoint]uuid.UUID, len(points))

	for _, p := range points {
		id, err := uuid.Parse(pointIDString(p.GetId()))
		if err != nil {
			continue
		}
		idOf[p] = id
		if shortlistHint != nil {
			if _, ok := shortlistHint[id]; ok {
				continue
			}
		}
		needLookup = append(needLookup, id)
	}

	var fromStore map[uuid.UUID]poi.POI
	if len(needLookup) > 0 && c.store != nil {
		rows, err := c.store.GetByIDs(ctx, needLookup)
		if err != nil {
			return nil, fmt.Errorf("semantic: hydrate from store: %w", err)
		}
		fromStore = make(map[uuid.UUID]poi.POI, len(rows))
		for _, row := range rows {
			fromStore[row.ID] = row
		}
	}

	hits := make([]Hit, 0, len(points))
	for _, p := range points {
		id, ok := idOf[p]
		if !ok {
			continue
		}
		record, found := poi.POI{}, false
		if shortlistHint != nil {
			record, found = shortlistHint[id]
		}
		if !found {
			record, found = fromStore[id]
		}
		if !found {
			continue
		}
		hits = append(hits, Hit{POI: record, Similarity: float64(p.GetScore())})
	}

	return hits, nil
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uid := id.GetUuid(); uid != "" {
		return uid
	}
	return fmt.Sprintf("%d", id.GetNum())
}

// sortDeterministic orders hits by (-similarity, id) ascending, the
// tie-break spec.md §4.6 step 4 requires before handing off to the
// route planner.
func sortDeterministic(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].POI.ID.String() < hits[j].POI.ID.String()
	})
}

package rag

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/jdfortress/benchrag/internal/core"
	"github.com/jdfortress/benchrag/internal/logger"
)

// Field names for the benchmark chunk collection
const (
	FieldID     = "id"
	FieldText   = "text"
	FieldSource = "source"
	FieldVector = "vector"
)

// DefaultCollection is the collection holding the benchmark corpus.
const DefaultCollection = "benchmark_chunks"

// MilvusStore wraps the Milvus client as the pipeline's vector store.
// The connection is established once at startup and reused across queries.
type MilvusStore struct {
	client     *milvusclient.Client
	collection string
	dim        int
}

// NewMilvusStore connects to Milvus at the given address.
func NewMilvusStore(ctx context.Context, addr, collection string, dim int) (*MilvusStore, error) {
	logger.Info("Connecting to Milvus at %s (collection %s, dim %d)", addr, collection, dim)

	if collection == "" {
		collection = DefaultCollection
	}
	if dim <= 0 {
		dim = core.DefaultEmbeddingDim
	}

	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{Address: addr})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus: %w", err)
	}

	return &MilvusStore{
		client:     c,
		collection: collection,
		dim:        dim,
	}, nil
}

// EnsureCollection creates the chunk collection with a cosine HNSW index
// if it does not exist yet, and loads it into memory for searching.
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	hasOpt := milvusclient.NewHasCollectionOption(s.collection)
	exists, err := s.client.HasCollection(ctx, hasOpt)
	if err != nil {
		return fmt.Errorf("failed to check if collection exists: %w", err)
	}

	if !exists {
		schema := &entity.Schema{
			CollectionName: s.collection,
			Description:    "Security benchmark document chunks",
			Fields: []*entity.Field{
				{
					Name:       FieldID,
					DataType:   entity.FieldTypeVarChar,
					PrimaryKey: true,
					AutoID:     false,
					TypeParams: map[string]string{
						"max_length": "255",
					},
				},
				{
					Name:     FieldText,
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "65535",
					},
				},
				{
					Name:     FieldSource,
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "1024",
					},
				},
				{
					Name:     FieldVector,
					DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{
						"dim": fmt.Sprintf("%d", s.dim),
					},
				},
			},
		}

		createOpt := milvusclient.NewCreateCollectionOption(s.collection, schema)
		if err := s.client.CreateCollection(ctx, createOpt); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		idx := index.NewHNSWIndex(entity.COSINE, 16, 200)
		indexOpt := milvusclient.NewCreateIndexOption(s.collection, FieldVector, idx)
		if _, err := s.client.CreateIndex(ctx, indexOpt); err != nil {
			return fmt.Errorf("failed to create index on vector field: %w", err)
		}

		logger.Info("Created collection with cosine HNSW index: %s", s.collection)
	}

	loadOpt := milvusclient.NewLoadCollectionOption(s.collection)
	if _, err := s.client.LoadCollection(ctx, loadOpt); err != nil {
		return fmt.Errorf("failed to load collection %s: %w", s.collection, err)
	}

	return nil
}

// Nearest runs the store's own ANN search and returns up to limit
// candidate chunks, including each chunk's stored embedding so the
// retriever can re-score them with a canonical metric.
func (s *MilvusStore) Nearest(ctx context.Context, vector []float32, limit int) ([]core.Chunk, error) {
	if limit <= 0 {
		limit = 10
	}

	searchOpt := milvusclient.NewSearchOption(s.collection, limit, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField(FieldVector).
		WithOutputFields(FieldID, FieldText, FieldSource, FieldVector)

	results, err := s.client.Search(ctx, searchOpt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	if len(results) == 0 || results[0].ResultCount == 0 {
		return []core.Chunk{}, nil
	}

	rs := results[0]
	chunks := make([]core.Chunk, 0, rs.ResultCount)

	textCol := rs.GetColumn(FieldText)
	sourceCol := rs.GetColumn(FieldSource)
	vectorCol, _ := rs.GetColumn(FieldVector).(*column.ColumnFloatVector)

	for i := 0; i < rs.ResultCount; i++ {
		id, err := rs.IDs.GetAsString(i)
		if err != nil {
			logger.Warn("Skipping result %d: unreadable id: %v", i, err)
			continue
		}

		chunk := core.Chunk{ID: id}

		if textCol != nil {
			if text, err := textCol.GetAsString(i); err == nil {
				chunk.Text = text
			}
		}
		if sourceCol != nil {
			if source, err := sourceCol.GetAsString(i); err == nil {
				chunk.Source = source
			}
		}
		if vectorCol != nil && i < len(vectorCol.Data()) {
			chunk.Embedding = vectorCol.Data()[i]
		}

		chunks = append(chunks, chunk)
	}

	logger.Debug("Milvus returned %d candidates (limit %d)", len(chunks), limit)
	return chunks, nil
}

// Close closes the connection to Milvus.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

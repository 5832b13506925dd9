// Package qdrant implements vectordb.Service on top of the official Qdrant Go
// client.
//
// Float points are stored in a single cosine collection. Every point carries
// the float id under vectordb.FloatIDKey and the embedded text under
// vectordb.DocumentKey, so the reconciler can look a float up by id with
// SearchByMetadata and the router can return the matching document.
//
// Qdrant accepts only UUIDs and unsigned integers as point ids. Any other id
// passed to Insert or Delete is mapped to a deterministic name-based UUID, so
// re-inserting the same id overwrites the same point.
//
// Basic usage:
//
//	client, err := qdrant.NewQdrantClient(qdrant.DefaultConfig(), log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	hits, err := client.Search(ctx, vectordb.SearchRequest{
//	    CollectionName: "argo_floats",
//	    Vector:         vec,
//	    TopK:           10,
//	})
package qdrant

// Package vectordb holds the store-agnostic types for the float vector
// collection: search requests and results, filter sets and the Service
// contract implemented by the qdrant package.
//
// Filters are composed from conditions:
//
//	filters := vectordb.NewFilterSet(
//	    vectordb.Must(
//	        vectordb.NewMatch("region", "Southern Ocean"),
//	        vectordb.Between("latitude", -70, -50),
//	    ),
//	)
//	results, err := store.Search(ctx, vectordb.SearchRequest{
//	    CollectionName: "argo_floats",
//	    Vector:         queryVector,
//	    TopK:           10,
//	    Filters:        filters,
//	})
//
// Every point written for a float carries the float_id payload key, which is
// what ByFloatID and the reconciler rely on.
package vectordb

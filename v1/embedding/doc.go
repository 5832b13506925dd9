// Package embedding turns float descriptions and query texts into vectors.
//
// Two providers are available: the OpenAI embeddings API (default,
// text-embedding-ada-002, 1536 dimensions) and any OpenAI-compatible HTTP
// inference service selected by EMBEDDING_ENDPOINT. Client sits in front of
// either one, splits inputs into batches, and retries transient failures
// (network errors, 429 and 5xx) with exponential backoff. Other 4xx answers
// fail immediately.
//
//	client, err := embedding.NewClient(embedding.NewConfig(), log)
//	if err != nil {
//	    return err
//	}
//	vecs, err := client.Embed(ctx, []string{"floats near the equator"})
//
// A missing API key surfaces as ErrMissingCredentials.
package embedding

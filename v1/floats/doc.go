// Package floats defines the float metadata record shared by the relational
// store, the vector store and the ingestion paths, along with the text and
// payload derived from it for embedding.
package floats

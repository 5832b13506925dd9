package dualstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/logger"
	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

type fakeStructured struct {
	floats   []floats.Float
	profiles []floats.Profile
	err      error
	countErr error
}

func (f *fakeStructured) SaveBatch(_ context.Context, fs []floats.Float, ps []floats.Profile) (int, int, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.floats = append(f.floats, fs...)
	f.profiles = append(f.profiles, ps...)
	return len(fs), len(ps), nil
}

func (f *fakeStructured) CountFloats(context.Context) (int64, error) {
	return int64(len(f.floats)), f.countErr
}

type fakeVectors struct {
	inputs []vectordb.EmbeddingInput
	err    error
	count  uint64
}

func (f *fakeVectors) Insert(_ context.Context, _ string, in []vectordb.EmbeddingInput) error {
	if f.err != nil {
		return f.err
	}
	f.inputs = append(f.inputs, in...)
	f.count += uint64(len(in))
	return nil
}

func (f *fakeVectors) Count(context.Context, string) (uint64, error) {
	return f.count, nil
}

type fakeEmbedder struct{ err error }

func (f fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func records() []floats.Record {
	return []floats.Record{
		{Float: floats.Float{FloatID: "2902746", Region: "Indian Ocean"}, Profiles: []floats.Profile{{ProfileID: "p1", VariableName: "TEMP"}}},
		{Float: floats.Float{FloatID: "5904471", Region: "Southern Ocean"}},
	}
}

func TestIngestSuccess(t *testing.T) {
	sql, vec := &fakeStructured{}, &fakeVectors{}
	s := NewService(DefaultConfig(), sql, vec, fakeEmbedder{}, logger.NewNop())

	res := s.Ingest(context.Background(), records())
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 2, res.SQLCount)
	assert.Equal(t, 1, res.ProfileCount)
	assert.Equal(t, 2, res.VectorCount)

	require.Len(t, vec.inputs, 2)
	assert.Equal(t, "2902746", vec.inputs[0].Payload[vectordb.FloatIDKey])
	assert.Equal(t, "2902746", sql.profiles[0].FloatID)
}

func TestIngestRepeatedFloatWritesOnce(t *testing.T) {
	sql, vec := &fakeStructured{}, &fakeVectors{}
	s := NewService(DefaultConfig(), sql, vec, fakeEmbedder{}, logger.NewNop())

	batch := append(records(), floats.Record{
		Float:    floats.Float{FloatID: "2902746", Region: "Arabian Sea"},
		Profiles: []floats.Profile{{ProfileID: "p2", VariableName: "PSAL"}},
	})
	res := s.Ingest(context.Background(), batch)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 2, res.SQLCount)
	assert.Equal(t, 2, res.ProfileCount)
	assert.Equal(t, 2, res.VectorCount)

	require.Len(t, sql.floats, 2)
	assert.Equal(t, "Arabian Sea", sql.floats[0].Region)
	require.Len(t, vec.inputs, 2)
}

func TestIngestVectorFailureIsPartial(t *testing.T) {
	sql := &fakeStructured{}
	s := NewService(DefaultConfig(), sql, &fakeVectors{}, fakeEmbedder{err: errors.New("rate limited")}, logger.NewNop())

	res := s.Ingest(context.Background(), records())
	assert.Equal(t, StatusPartial, res.Status)
	assert.Equal(t, 2, res.SQLCount)
	assert.Zero(t, res.VectorCount)
	assert.Contains(t, res.Message, "rate limited")
	assert.Len(t, sql.floats, 2)
}

func TestIngestStructuredFailureIsError(t *testing.T) {
	vec := &fakeVectors{}
	s := NewService(DefaultConfig(), &fakeStructured{err: errors.New("duplicate key")}, vec, fakeEmbedder{}, logger.NewNop())

	res := s.Ingest(context.Background(), records())
	assert.Equal(t, StatusError, res.Status)
	assert.Empty(t, vec.inputs, "vector store must not be written when the structured write fails")
}

func TestIngestEmpty(t *testing.T) {
	s := NewService(DefaultConfig(), &fakeStructured{}, &fakeVectors{}, fakeEmbedder{}, logger.NewNop())
	assert.Equal(t, StatusSuccess, s.Ingest(context.Background(), nil).Status)
}

func TestStats(t *testing.T) {
	sql, vec := &fakeStructured{}, &fakeVectors{}
	s := NewService(DefaultConfig(), sql, vec, fakeEmbedder{}, logger.NewNop())
	s.Ingest(context.Background(), records())

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncHealthy, st.SyncStatus)

	sql.floats = append(sql.floats, floats.Float{FloatID: "extra"})
	st, err = s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncOutOfSync, st.SyncStatus)
	assert.Equal(t, int64(3), st.SQLCount)
	assert.Equal(t, uint64(2), st.VectorCount)
}

func TestStatsError(t *testing.T) {
	s := NewService(DefaultConfig(), &fakeStructured{countErr: errors.New("down")}, &fakeVectors{}, fakeEmbedder{}, logger.NewNop())
	_, err := s.Stats(context.Background())
	assert.ErrorContains(t, err, "down")
}

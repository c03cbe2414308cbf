package redisstore

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/docstore"
)

func TestKeys(t *testing.T) {
	s := New(nil, "")
	assert.Equal(t, "docs:gallery", s.setKey("gallery"))
	assert.Equal(t, "docs:gallery:42", s.docKey("gallery", "42"))
}

func TestMapErr(t *testing.T) {
	assert.True(t, docstore.IsNotFound(mapErr(redis.Nil, "get")))
	assert.True(t, docstore.IsPermissionDenied(mapErr(errors.New("NOPERM this user has no permissions"), "list")))
	assert.False(t, docstore.IsPermissionDenied(mapErr(errors.New("i/o timeout"), "list")))
}

func TestFieldCodec(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	enc, err := encodeFields(map[string]any{"name": "x", "createdAt": docstore.At(at), "n": 3})
	require.NoError(t, err)

	raw := map[string]string{}
	for k, v := range enc {
		raw[k] = v.(string)
	}
	dec, err := decodeFields(raw)
	require.NoError(t, err)
	assert.Equal(t, "x", dec["name"])
	ts, ok := dec["createdAt"].(docstore.Timestamp)
	require.True(t, ok)
	assert.True(t, ts.Equal(at))
	assert.EqualValues(t, 3, dec["n"])
}

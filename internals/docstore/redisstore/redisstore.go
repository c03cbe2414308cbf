package redisstore

import (
	"context"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"schooladmin_backend/internals/docstore"
)

// Store keeps each collection as a set of ids plus one hash per document,
// every hash field holding a JSON-encoded value.
type Store struct {
	Client *redis.Client
	Prefix string
}

func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "docs"
	}
	return &Store{Client: client, Prefix: prefix}
}

func (s *Store) setKey(collection string) string {
	return s.Prefix + ":" + collection
}

func (s *Store) docKey(collection, id string) string {
	return s.Prefix + ":" + collection + ":" + id
}

func mapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return docstore.ErrNotFound
	}
	if strings.HasPrefix(err.Error(), "NOPERM") {
		return errors.Wrapf(docstore.ErrPermissionDenied, "%s: %s", op, err.Error())
	}
	return errors.Wrap(err, op)
}

func encodeFields(data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(data))
	for k, v := range data {
		enc, err := docstore.MarshalValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = enc
	}
	return out, nil
}

func decodeFields(raw map[string]string) (map[string]any, error) {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		dec, err := docstore.UnmarshalValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = dec
	}
	return out, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	ids, err := s.Client.SMembers(ctx, s.setKey(collection)).Result()
	if err != nil {
		return nil, mapErr(err, "list "+collection)
	}
	if len(ids) == 0 {
		return []docstore.Document{}, nil
	}

	pipe := s.Client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.docKey(collection, id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, mapErr(err, "list "+collection)
	}

	out := make([]docstore.Document, 0, len(ids))
	for i, cmd := range cmds {
		raw, err := cmd.Result()
		if err != nil || len(raw) == 0 {
			continue
		}
		data, err := decodeFields(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, docstore.Document{ID: ids[i], Data: data})
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	raw, err := s.Client.HGetAll(ctx, s.docKey(collection, id)).Result()
	if err != nil {
		return docstore.Document{}, mapErr(err, "get "+collection)
	}
	if len(raw) == 0 {
		return docstore.Document{}, docstore.ErrNotFound
	}
	data, err := decodeFields(raw)
	if err != nil {
		return docstore.Document{}, err
	}
	return docstore.Document{ID: id, Data: data}, nil
}

// Query scans the collection; admin-sized collections keep this cheap.
func (s *Store) Query(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	want, err := docstore.MarshalValue(value)
	if err != nil {
		return nil, err
	}
	var out []docstore.Document
	for _, d := range docs {
		v, ok := d.Data[field]
		if !ok {
			continue
		}
		got, err := docstore.MarshalValue(v)
		if err == nil && got == want {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	fields, err := encodeFields(data)
	if err != nil {
		return err
	}
	key := s.docKey(collection, id)
	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
		}
		pipe.SAdd(ctx, s.setKey(collection), id)
		return nil
	})
	return mapErr(err, "set "+collection)
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	key := s.docKey(collection, id)
	n, err := s.Client.Exists(ctx, key).Result()
	if err != nil {
		return mapErr(err, "update "+collection)
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	enc, err := encodeFields(fields)
	if err != nil {
		return err
	}
	if len(enc) == 0 {
		return nil
	}
	return mapErr(s.Client.HSet(ctx, key, enc).Err(), "update "+collection)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, s.setKey(collection), id)
		pipe.Del(ctx, s.docKey(collection, id))
		return nil
	})
	return mapErr(err, "delete "+collection)
}

package services_test

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"
)

type fakeObjectStore struct {
	objects  map[string]string
	listErr  error
	fetchErr map[string]error
}

func (f *fakeObjectStore) List(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	keys := make([]string, 0, len(f.objects))
	for key := range f.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeObjectStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := f.fetchErr[key]; err != nil {
		return nil, err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

type fakeDocumentStore struct {
	docs      map[string]map[string]interface{}
	upsertErr error
	findErr   error
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: map[string]map[string]interface{}{}}
}

func (f *fakeDocumentStore) UpsertRaw(ctx context.Context, key string, doc map[string]interface{}) (bool, error) {
	if f.upsertErr != nil {
		return false, f.upsertErr
	}
	if _, exists := f.docs[key]; exists {
		return false, nil
	}
	f.docs[key] = doc
	return true, nil
}

func (f *fakeDocumentStore) FindAllRaw(ctx context.Context) ([]map[string]interface{}, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	keys := make([]string, 0, len(f.docs))
	for key := range f.docs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	docs := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		docs = append(docs, f.docs[key])
	}
	return docs, nil
}

func (f *fakeDocumentStore) Close(ctx context.Context) error {
	return nil
}

type executedQuery struct {
	query string
	args  []interface{}
}

type fakeExecutor struct {
	executed []executedQuery
	execErr  error
}

func (f *fakeExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}
	f.executed = append(f.executed, executedQuery{query: query, args: args})
	return fakeResult{}, nil
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

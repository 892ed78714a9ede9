package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Blobs хранилище содержимого в памяти, реализует blobstorage.Provider
type Blobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
	failGet bool
	deleted []string
}

func NewBlobs() *Blobs {
	return &Blobs{
		objects: map[string][]byte{},
	}
}

func (b *Blobs) Put(ctx context.Context, content []byte, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut {
		return "", errors.Wrap(ErrInjected, "blobs.Put")
	}
	ref := uuid.NewString()
	b.objects[ref] = append([]byte(nil), content...)
	return ref, nil
}

func (b *Blobs) Get(ctx context.Context, ref string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failGet {
		return nil, errors.Wrap(ErrInjected, "blobs.Get")
	}
	content, ok := b.objects[ref]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), content...), nil
}

func (b *Blobs) Delete(ctx context.Context, ref string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[ref]; !ok {
		return false, nil
	}
	delete(b.objects, ref)
	b.deleted = append(b.deleted, ref)
	return true, nil
}

func (b *Blobs) FailPut(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failPut = fail
}

func (b *Blobs) FailGet(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failGet = fail
}

func (b *Blobs) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

func (b *Blobs) Has(ref string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[ref]
	return ok
}

// Deleted ссылки, удаленные через Delete
func (b *Blobs) Deleted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

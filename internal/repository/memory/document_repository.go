// Package memory holds the in-process stores. Documents live for the
// process lifetime only; restarts intentionally clear the corpus.
package memory

import (
	"sort"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"shareholder-qa-sim/internal/model"
)

type IDocumentRepository interface {
	Save(doc model.Document)
	FindById(id uuid.UUID) (model.Document, bool)
	FindByIds(ids []uuid.UUID) []model.Document
	FindAll() []model.Document
	Delete(id uuid.UUID) bool
}

type documentRepository struct {
	cache *gocache.Cache
}

func NewDocumentRepository() IDocumentRepository {
	return &documentRepository{
		cache: gocache.New(gocache.NoExpiration, gocache.NoExpiration),
	}
}

func (r *documentRepository) Save(doc model.Document) {
	r.cache.Set(doc.Id.String(), doc, gocache.NoExpiration)
}

func (r *documentRepository) FindById(id uuid.UUID) (model.Document, bool) {
	v, ok := r.cache.Get(id.String())
	if !ok {
		return model.Document{}, false
	}
	return v.(model.Document), true
}

// FindByIds resolves ids in order, silently skipping unknown ones; the
// caller decides whether a partial result is acceptable.
func (r *documentRepository) FindByIds(ids []uuid.UUID) []model.Document {
	docs := make([]model.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := r.FindById(id); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

func (r *documentRepository) FindAll() []model.Document {
	items := r.cache.Items()
	docs := make([]model.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, item.Object.(model.Document))
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs
}

func (r *documentRepository) Delete(id uuid.UUID) bool {
	if _, ok := r.cache.Get(id.String()); !ok {
		return false
	}
	r.cache.Delete(id.String())
	return true
}

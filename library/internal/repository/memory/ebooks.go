package memory

import (
	"bytes"
	"context"
	"io"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/pkg/errors"
)

type storedEbook struct {
	meta    model.Ebook
	content []byte
}

func (s *Store) CreateEbook(_ context.Context, e model.Ebook, content io.Reader) (model.Ebook, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return model.Ebook{}, errors.Wrap(err, "read e-book")
	}
	e.Size = int64(len(data))

	s.mu.Lock()
	defer s.mu.Unlock()
	e.UploadedAt = s.now()
	s.ebooks = append(s.ebooks, storedEbook{meta: e, content: data})
	return e, nil
}

func (s *Store) ListEbooks(_ context.Context, category string) ([]model.Ebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// uploads are appended in time order, so walk back for newest first
	out := make([]model.Ebook, 0, len(s.ebooks))
	for i := len(s.ebooks) - 1; i >= 0; i-- {
		if e := s.ebooks[i].meta; category == "" || e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) OpenEbook(_ context.Context, id string) (model.Ebook, io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.ebooks {
		if e.meta.ID == id {
			return e.meta, io.NopCloser(bytes.NewReader(e.content)), nil
		}
	}
	return model.Ebook{}, nil, errors.Wrap(errs.ErrNotFound, "e-book")
}

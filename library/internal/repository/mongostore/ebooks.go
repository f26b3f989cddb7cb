package mongostore

import (
	"context"
	"io"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ebookBucket holds the files; the ebooks collection holds the catalog
// entry pointing at each file.
const ebookBucket = "ebook_files"

var _ repository.EbookStore = (*Store)(nil)

func (s *Store) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(ebookBucket))
	if err != nil {
		return nil, errors.Wrap(err, "gridfs bucket")
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = b.SetReadDeadline(deadline)
		_ = b.SetWriteDeadline(deadline)
	}
	return b, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (s *Store) CreateEbook(ctx context.Context, e model.Ebook, content io.Reader) (model.Ebook, error) {
	b, err := s.bucket(ctx)
	if err != nil {
		return model.Ebook{}, err
	}

	src := &countingReader{r: content}
	meta := bson.M{"ebook_id": e.ID, "title": e.Title, "author": e.Author, "category": e.Category, "format": e.Format}
	fileID, err := b.UploadFromStream(e.FileName(), src, options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return model.Ebook{}, errors.Wrap(err, "upload e-book")
	}
	e.Size = src.n
	e.UploadedAt = s.now()

	if _, err := s.c(ebooksCollection).InsertOne(ctx, newEbookDoc(e, fileID)); err != nil {
		if delErr := b.Delete(fileID); delErr != nil {
			s.log.Warn("orphaned e-book file", zap.String("file_id", fileID.Hex()), zap.Error(delErr))
		}
		return model.Ebook{}, err
	}
	return e, nil
}

func (s *Store) ListEbooks(ctx context.Context, category string) ([]model.Ebook, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "upload_date", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.c(ebooksCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []ebookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Ebook, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *Store) OpenEbook(ctx context.Context, id string) (model.Ebook, io.ReadCloser, error) {
	var doc ebookDoc
	if err := s.c(ebooksCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return model.Ebook{}, nil, notFound(err, "e-book")
	}
	b, err := s.bucket(ctx)
	if err != nil {
		return model.Ebook{}, nil, err
	}
	stream, err := b.OpenDownloadStream(doc.FileID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return model.Ebook{}, nil, errors.Wrap(errs.ErrNotFound, "e-book file")
		}
		return model.Ebook{}, nil, errors.Wrap(err, "open e-book")
	}
	return doc.model(), stream, nil
}

// Package mongostore keeps the library in MongoDB. Workflows run in
// multi-document transactions, which need a replica set.
package mongostore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	usersCollection         = "users"
	booksCollection         = "books"
	loansCollection         = "loans"
	reservationsCollection  = "reservations"
	notificationsCollection = "notifications"
	finesCollection         = "fines"
	countersCollection      = "counters"
	resetsCollection        = "password_resets"
	ebooksCollection        = "ebooks"
)

type Store struct {
	db  *mongo.Database
	log *zap.Logger
	now func() time.Time
}

var _ repository.Repository = (*Store)(nil)

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:  db,
		log: log.Named("mongo"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) c(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	idx := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		reservationsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "book_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "book_id", Value: 1}, {Key: "seq", Value: 1}}},
		},
		loansCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
		},
		finesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		ebooksCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "upload_date", Value: -1}}},
		},
	}
	for coll, models := range idx {
		if _, err := s.c(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "indexes %s", coll)
		}
	}
	return nil
}

// WithTx runs fn inside a session transaction. The driver may call fn more
// than once on transient errors, so fn must only touch the store.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	sess, err := s.db.Client().StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

func notFound(err error, entity string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errors.Wrap(errs.ErrNotFound, entity)
	}
	return err
}

func paging(page, size int) *options.FindOptions {
	opts := options.Find()
	if page != 0 && size != 0 {
		opts.SetSkip(int64((page - 1) * size)).SetLimit(int64(size))
	}
	return opts
}

func (s *Store) exists(ctx context.Context, coll string, filter bson.M) (bool, error) {
	n, err := s.c(coll).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

// users

func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = s.now()
	if _, err := s.c(usersCollection).InsertOne(ctx, newUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, errors.Wrap(errs.ErrConflict, "user already exists")
		}
		return model.User{}, err
	}
	return user, nil
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (model.User, error) {
	var doc userDoc
	if err := s.c(usersCollection).FindOne(ctx, filter).Decode(&doc); err != nil {
		return model.User{}, notFound(err, "user")
	}
	return doc.model(), nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (model.User, error) {
	return s.findUser(ctx, bson.M{"_id": userID})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findUser(ctx, bson.M{"email": strings.ToLower(email)})
}

func (s *Store) AddUserCost(ctx context.Context, userID string, delta decimal.Decimal) error {
	res, err := s.c(usersCollection).UpdateByID(ctx, userID, bson.M{"$inc": bson.M{"cost": toDecimal128(delta)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(errs.ErrNotFound, "user")
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	res, err := s.c(usersCollection).DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(errs.ErrNotFound, "user")
	}
	for _, coll := range []string{loansCollection, reservationsCollection, notificationsCollection, finesCollection} {
		if _, err := s.c(coll).DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
			return errors.Wrapf(err, "cascade %s", coll)
		}
	}
	if _, err := s.c(resetsCollection).DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return errors.Wrap(err, "cascade password reset")
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, page, size int) ([]model.User, error) {
	opts := paging(page, size).SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c(usersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.updateOne(ctx, usersCollection, "user", bson.M{"_id": userID}, bson.M{"$set": bson.M{"password_hash": passwordHash}})
}

func (s *Store) SetRole(ctx context.Context, email, role string) error {
	return s.updateOne(ctx, usersCollection, "user", bson.M{"email": strings.ToLower(email)}, bson.M{"$set": bson.M{"role": role}})
}

func (s *Store) SavePasswordReset(ctx context.Context, r model.PasswordReset) error {
	doc := resetDoc{UserID: r.UserID, CodeHash: r.CodeHash, ExpiresAt: r.ExpiresAt, Attempts: r.Attempts}
	_, err := s.c(resetsCollection).ReplaceOne(ctx, bson.M{"_id": r.UserID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) GetPasswordReset(ctx context.Context, userID string) (model.PasswordReset, error) {
	var doc resetDoc
	if err := s.c(resetsCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		return model.PasswordReset{}, notFound(err, "password reset")
	}
	return model.PasswordReset{UserID: doc.UserID, CodeHash: doc.CodeHash, ExpiresAt: doc.ExpiresAt, Attempts: doc.Attempts}, nil
}

func (s *Store) DeletePasswordReset(ctx context.Context, userID string) error {
	_, err := s.c(resetsCollection).DeleteOne(ctx, bson.M{"_id": userID})
	return err
}

func (s *Store) updateOne(ctx context.Context, coll, entity string, filter, update bson.M) error {
	res, err := s.c(coll).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(errs.ErrNotFound, entity)
	}
	return nil
}

// books

func (s *Store) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	book.CreatedAt = s.now()
	if _, err := s.c(booksCollection).InsertOne(ctx, newBookDoc(book)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Book{}, errors.Wrap(errs.ErrConflict, "book already exists")
		}
		return model.Book{}, err
	}
	return book, nil
}

func (s *Store) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	var doc bookDoc
	if err := s.c(booksCollection).FindOne(ctx, bson.M{"_id": bookID}).Decode(&doc); err != nil {
		return model.Book{}, notFound(err, "book")
	}
	return doc.model(), nil
}

// LockBook bumps the version so that a concurrent transaction touching the
// same book hits a write conflict.
func (s *Store) LockBook(ctx context.Context, bookID string) (model.Book, error) {
	var doc bookDoc
	err := s.c(booksCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": bookID},
		bson.M{"$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return model.Book{}, notFound(err, "book")
	}
	return doc.model(), nil
}

func (s *Store) AddAvailableCopies(ctx context.Context, bookID string, delta int) (model.Book, error) {
	var doc bookDoc
	err := s.c(booksCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": bookID, "available_copies": bson.M{"$gte": -delta}},
		bson.M{"$inc": bson.M{"available_copies": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.model(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return model.Book{}, err
	}
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return model.Book{}, err
	}
	return model.Book{}, errs.ErrUnavailable
}

func (s *Store) SetBookStatus(ctx context.Context, bookID string, status model.BookStatus) error {
	return s.updateOne(ctx, booksCollection, "book", bson.M{"_id": bookID}, bson.M{"$set": bson.M{"status": status}})
}

func (s *Store) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	if book.AvailableCopies < 0 {
		return model.Book{}, errs.ErrUnavailable
	}
	doc := newBookDoc(book)
	var updated bookDoc
	err := s.c(booksCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": book.ID},
		bson.M{"$set": bson.M{
			"title":            doc.Title,
			"author":           doc.Author,
			"category":         doc.Category,
			"language":         doc.Language,
			"pages":            doc.Pages,
			"total_copies":     doc.TotalCopies,
			"available_copies": doc.AvailableCopies,
			"price":            doc.Price,
			"status":           doc.Status,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return model.Book{}, notFound(err, "book")
	}
	return updated.model(), nil
}

func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	res, err := s.c(booksCollection).DeleteOne(ctx, bson.M{"_id": bookID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(errs.ErrNotFound, "book")
	}
	_, err = s.c(reservationsCollection).DeleteMany(ctx, bson.M{"book_id": bookID})
	return err
}

func (s *Store) ListBooks(ctx context.Context, f model.BookFilter) (model.ListBooks, error) {
	filter := bson.M{}
	if f.Query != "" {
		re := primitiveRegex(f.Query)
		filter["$or"] = bson.A{bson.M{"title": re}, bson.M{"author": re}}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	opts := paging(f.Page, f.Size).SetSort(bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c(booksCollection).Find(ctx, filter, opts)
	if err != nil {
		return model.ListBooks{}, err
	}
	var docs []bookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return model.ListBooks{}, err
	}
	books := make([]model.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.model())
	}
	return model.ListBooks{
		Paging: model.Paging{Page: f.Page, PageSize: f.Size, TotalElements: len(books)},
		Items:  books,
	}, nil
}

func primitiveRegex(q string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
}

// loans

func (s *Store) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	loan.CreatedAt = s.now()
	doc := newLoanDoc(loan)
	if _, err := s.c(loansCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Loan{}, errors.Wrap(errs.ErrConflict, "loan")
		}
		return model.Loan{}, err
	}
	return doc.model(), nil
}

func (s *Store) CloseLoan(ctx context.Context, userID, bookID, loanID string, returnedAt time.Time) (model.Loan, error) {
	match := bson.M{"_id": loanID, "user_id": userID, "book_id": bookID}
	var doc loanDoc
	err := s.c(loansCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": loanID, "user_id": userID, "book_id": bookID, "status": model.LoanBorrowed},
		bson.M{"$set": bson.M{"status": model.LoanReturned, "returned_at": returnedAt}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.model(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return model.Loan{}, err
	}
	ok, err := s.exists(ctx, loansCollection, match)
	if err != nil {
		return model.Loan{}, err
	}
	if ok {
		return model.Loan{}, errs.ErrAlreadyReturned
	}
	return model.Loan{}, errors.Wrap(errs.ErrNotFound, "loan")
}

func loanFilter(f model.LoanFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.BookID != "" {
		filter["book_id"] = f.BookID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	due := bson.M{}
	if f.DueBefore != nil {
		due["$lt"] = model.DateOf(*f.DueBefore)
	}
	if f.DueAfter != nil {
		due["$gte"] = model.DateOf(*f.DueAfter)
	}
	if len(due) > 0 {
		filter["due_date"] = due
	}
	return filter
}

func (s *Store) CountLoans(ctx context.Context, f model.LoanFilter) (int, error) {
	n, err := s.c(loansCollection).CountDocuments(ctx, loanFilter(f))
	return int(n), err
}

func (s *Store) ListLoans(ctx context.Context, f model.LoanFilter) ([]model.Loan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "issued_date", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := s.c(loansCollection).Find(ctx, loanFilter(f), opts)
	if err != nil {
		return nil, err
	}
	var docs []loanDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	loans := make([]model.Loan, 0, len(docs))
	for _, d := range docs {
		loans = append(loans, d.model())
	}
	return loans, nil
}

// fines

func (s *Store) CreateFine(ctx context.Context, fine model.Fine) (model.Fine, error) {
	fine.CreatedAt = s.now()
	doc := fineDoc{
		ID:        fine.ID,
		LoanID:    fine.LoanID,
		UserID:    fine.UserID,
		Amount:    toDecimal128(fine.Amount),
		Reason:    fine.Reason,
		Status:    string(fine.Status),
		CreatedAt: fine.CreatedAt,
	}
	if _, err := s.c(finesCollection).InsertOne(ctx, doc); err != nil {
		return model.Fine{}, err
	}
	return fine, nil
}

func (s *Store) ListFines(ctx context.Context, f model.FineFilter) (model.ListFines, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	opts := paging(f.Page, f.Size).SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.c(finesCollection).Find(ctx, filter, opts)
	if err != nil {
		return model.ListFines{}, err
	}
	var docs []fineDoc
	if err := cur.All(ctx, &docs); err != nil {
		return model.ListFines{}, err
	}
	fines := make([]model.Fine, 0, len(docs))
	for _, d := range docs {
		fines = append(fines, d.model())
	}
	return model.ListFines{
		Paging: model.Paging{Page: f.Page, PageSize: f.Size, TotalElements: len(fines)},
		Items:  fines,
	}, nil
}

func (s *Store) SettleFine(ctx context.Context, fineID string, status model.FineStatus, at time.Time) (model.Fine, error) {
	var doc fineDoc
	err := s.c(finesCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": fineID, "status": model.FinePending},
		bson.M{"$set": bson.M{"status": status, "settled_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.model(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return model.Fine{}, err
	}
	ok, err := s.exists(ctx, finesCollection, bson.M{"_id": fineID})
	if err != nil {
		return model.Fine{}, err
	}
	if ok {
		return model.Fine{}, errors.Wrap(errs.ErrConflict, "fine already settled")
	}
	return model.Fine{}, errors.Wrap(errs.ErrNotFound, "fine")
}

// reservations

func (s *Store) nextSeq(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.c(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	return counter.Seq, err
}

func (s *Store) CreateReservation(ctx context.Context, r model.Reservation) (model.Reservation, error) {
	seq, err := s.nextSeq(ctx, reservationsCollection)
	if err != nil {
		return model.Reservation{}, errors.Wrap(err, "reservation seq")
	}
	r.Seq = seq
	r.CreatedAt = s.now()
	doc := reservationDoc{
		ID:            r.ID,
		Seq:           r.Seq,
		UserID:        r.UserID,
		BookID:        r.BookID,
		ReservedDate:  r.ReservedDate,
		QueuePosition: r.QueuePosition,
		CreatedAt:     r.CreatedAt,
	}
	if _, err := s.c(reservationsCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Reservation{}, errors.Wrap(errs.ErrConflict, "You have already reserved this book")
		}
		return model.Reservation{}, err
	}
	return r, nil
}

func reservationFilter(f model.ReservationFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.BookID != "" {
		filter["book_id"] = f.BookID
	}
	return filter
}

func (s *Store) CountReservations(ctx context.Context, f model.ReservationFilter) (int, error) {
	n, err := s.c(reservationsCollection).CountDocuments(ctx, reservationFilter(f))
	return int(n), err
}

func (s *Store) PopReservation(ctx context.Context, bookID string) (model.Reservation, error) {
	var doc reservationDoc
	err := s.c(reservationsCollection).FindOneAndDelete(ctx,
		bson.M{"book_id": bookID},
		options.FindOneAndDelete().SetSort(bson.D{{Key: "seq", Value: 1}}),
	).Decode(&doc)
	if err != nil {
		return model.Reservation{}, notFound(err, "reservation")
	}
	return doc.model(), nil
}

func (s *Store) DeleteReservation(ctx context.Context, reservationID string) (model.Reservation, error) {
	var doc reservationDoc
	err := s.c(reservationsCollection).FindOneAndDelete(ctx, bson.M{"_id": reservationID}).Decode(&doc)
	if err != nil {
		return model.Reservation{}, notFound(err, "reservation")
	}
	return doc.model(), nil
}

func (s *Store) ListReservations(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	cur, err := s.c(reservationsCollection).Find(ctx, reservationFilter(f),
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []reservationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]model.Reservation, 0, len(docs))
	for _, d := range docs {
		r := d.model()
		if b, err := s.GetBook(ctx, r.BookID); err == nil {
			r.BookTitle, r.Author = b.Title, b.Author
		}
		items = append(items, r)
	}
	return items, nil
}

// notifications

func (s *Store) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	n.CreatedAt = s.now()
	doc := notificationDoc{ID: n.ID, UserID: n.UserID, Message: n.Message, IsRead: n.IsRead, CreatedAt: n.CreatedAt}
	if _, err := s.c(notificationsCollection).InsertOne(ctx, doc); err != nil {
		return model.Notification{}, err
	}
	return n, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}
	cur, err := s.c(notificationsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []notificationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]model.Notification, 0, len(docs))
	for _, d := range docs {
		items = append(items, model.Notification{
			ID: d.ID, UserID: d.UserID, Message: d.Message, IsRead: d.IsRead, CreatedAt: d.CreatedAt,
		})
	}
	return items, nil
}

func (s *Store) DeleteNotifications(ctx context.Context, userID string) error {
	_, err := s.c(notificationsCollection).DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

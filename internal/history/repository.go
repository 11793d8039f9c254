// File: internal/history/repository.go
package history

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// HistoryCollection is the Firestore collection holding diagnosis records.
const HistoryCollection = "diagnose_history"

// Repository defines data access for the diagnosis history.
type Repository interface {
	// Create appends a record and returns the store-assigned id. There is no
	// retry; a failed append surfaces to the caller.
	Create(ctx context.Context, record *Record) (string, error)
	// FindByUser returns all records for a user, newest first, ties broken by
	// document id ascending.
	FindByUser(ctx context.Context, userID string) ([]Record, error)
	// FindAll returns every record in the collection, newest first. Used by
	// the search index rebuild command.
	FindAll(ctx context.Context) ([]Record, error)
	// SubscribeByUser streams the full ordered result set on every change.
	// The returned stop function cancels the stream; no callbacks are invoked
	// after stop returns.
	SubscribeByUser(ctx context.Context, userID string, onSnapshot func([]Record), onError func(error)) (stop func(), err error)
}

type firestoreRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreRepository creates a history repository backed by Firestore.
func NewFirestoreRepository(client *firestore.Client, logger *zap.Logger) Repository {
	return &firestoreRepository{
		client: client,
		logger: logger.Named("history_repository"),
	}
}

func (r *firestoreRepository) Create(ctx context.Context, record *Record) (string, error) {
	docRef, _, err := r.client.Collection(HistoryCollection).Add(ctx, record)
	if err != nil {
		r.logger.Error("Failed to append history record",
			zap.String("user_id", record.UserID),
			zap.Error(err),
		)
		return "", fmt.Errorf("appending history record: %w", err)
	}
	return docRef.ID, nil
}

// userQuery builds the ordered per-user query. Descending timestamp with a
// document-id tie break needs a composite index on (user_id, timestamp).
func (r *firestoreRepository) userQuery(userID string) firestore.Query {
	return r.client.Collection(HistoryCollection).
		Where("user_id", "==", userID).
		OrderBy("timestamp", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Asc)
}

func docsToRecords(docs []*firestore.DocumentSnapshot, logger *zap.Logger) []Record {
	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		var rec Record
		if err := doc.DataTo(&rec); err != nil {
			logger.Warn("Skipping malformed history document",
				zap.String("doc_id", doc.Ref.ID),
				zap.Error(err),
			)
			continue
		}
		rec.ID = doc.Ref.ID
		records = append(records, rec)
	}
	return records
}

func (r *firestoreRepository) FindByUser(ctx context.Context, userID string) ([]Record, error) {
	docs, err := r.userQuery(userID).Documents(ctx).GetAll()
	if err != nil {
		r.logger.Error("Failed to fetch history records", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("fetching history for user %s: %w", userID, err)
	}
	return docsToRecords(docs, r.logger), nil
}

func (r *firestoreRepository) FindAll(ctx context.Context) ([]Record, error) {
	docs, err := r.client.Collection(HistoryCollection).
		OrderBy("timestamp", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		r.logger.Error("Failed to fetch all history records", zap.Error(err))
		return nil, fmt.Errorf("fetching all history records: %w", err)
	}
	return docsToRecords(docs, r.logger), nil
}

func (r *firestoreRepository) SubscribeByUser(ctx context.Context, userID string, onSnapshot func([]Record), onError func(error)) (func(), error) {
	if onSnapshot == nil {
		return nil, fmt.Errorf("onSnapshot callback is required")
	}

	streamCtx, cancel := context.WithCancel(ctx)
	iter := r.userQuery(userID).Snapshots(streamCtx)

	// Callbacks run under the mutex, and stop takes the mutex before setting
	// the flag, so stop blocks until an in-flight callback returns and no
	// callback can start afterwards.
	var mu sync.Mutex
	stopped := false

	stop := func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		cancel()
		iter.Stop()
	}

	emitError := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		if onError != nil {
			onError(err)
		}
	}

	go func() {
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				r.logger.Warn("History snapshot stream failed",
					zap.String("user_id", userID),
					zap.Error(err),
				)
				emitError(err)
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				r.logger.Warn("Failed to read snapshot documents",
					zap.String("user_id", userID),
					zap.Error(err),
				)
				emitError(err)
				continue
			}

			records := docsToRecords(docs, r.logger)
			mu.Lock()
			if stopped {
				mu.Unlock()
				return
			}
			onSnapshot(records)
			mu.Unlock()
		}
	}()

	return stop, nil
}

package greeting

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/janisto/servlet-greeting/internal/platform/logging"
)

const (
	greetingsCollection = "greetings"
	textField           = "text"
)

// firestoreGreeting maps to the Firestore document structure.
type firestoreGreeting struct {
	Text string `firestore:"text"`
}

// FirestoreStore implements Provider by reading greetings/{documentID}.
type FirestoreStore struct {
	client     *firestore.Client
	documentID string
}

// NewFirestoreStore creates a Firestore-backed provider for one greeting document.
func NewFirestoreStore(client *firestore.Client, documentID string) *FirestoreStore {
	return &FirestoreStore{client: client, documentID: documentID}
}

// SayHello reads the text field of the configured document. A missing
// document or missing text field is reported as ErrUnavailable.
func (s *FirestoreStore) SayHello(ctx context.Context) (string, error) {
	doc, err := s.client.Collection(greetingsCollection).Doc(s.documentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			applog.LogWarn(ctx, "greeting document missing", zap.String("document", s.documentID))
			return "", fmt.Errorf("%w: document %s not found", ErrUnavailable, s.documentID)
		}
		return "", fmt.Errorf("%w: read document %s: %w", ErrUnavailable, s.documentID, err)
	}
	if _, err := doc.DataAt(textField); err != nil {
		return "", fmt.Errorf("%w: document %s has no %s field", ErrUnavailable, s.documentID, textField)
	}

	var g firestoreGreeting
	if err := doc.DataTo(&g); err != nil {
		return "", fmt.Errorf("%w: decode document %s: %w", ErrUnavailable, s.documentID, err)
	}
	return g.Text, nil
}

// Put stores text as the greeting for the configured document.
// Used to seed the collection from tooling and tests.
func (s *FirestoreStore) Put(ctx context.Context, text string) error {
	_, err := s.client.Collection(greetingsCollection).Doc(s.documentID).Set(ctx, firestoreGreeting{Text: text})
	if err != nil {
		return fmt.Errorf("write greeting %s: %w", s.documentID, err)
	}
	return nil
}

var _ Provider = (*FirestoreStore)(nil)

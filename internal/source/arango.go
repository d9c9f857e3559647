package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/arangodb/shared"
	"github.com/ortelius/vulnwatch-backend/database"
)

const advisoriesQuery = `
	FOR a IN @@collection
		SORT a.published_date DESC
		RETURN a
`

// ArangoSource reads the advisory collection. It never writes.
type ArangoSource struct {
	db database.DBConnection
}

// NewArangoSource returns a source over an initialized connection.
func NewArangoSource(db database.DBConnection) *ArangoSource {
	return &ArangoSource{db: db}
}

// Name identifies the source in logs and sync status.
func (s *ArangoSource) Name() string {
	return "arangodb:" + database.AdvisoryCollection
}

// Load returns every advisory document. Documents whose fields do not decode are
// logged and skipped; a failure to read the cursor itself aborts the load.
func (s *ArangoSource) Load(ctx context.Context) ([]Record, error) {
	cursor, err := s.db.Database.Query(ctx, advisoriesQuery, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"@collection": database.AdvisoryCollection,
		},
	})
	if err != nil {
		return nil, queryError(fmt.Errorf("query advisories: %w", err))
	}
	defer cursor.Close()

	var records []Record
	for cursor.HasMore() {
		var r Record
		_, err := cursor.ReadDocument(ctx, &r)
		if err != nil {
			if isDecodeError(err) {
				logger.Sugar().Warnf("Skipping unreadable advisory document: %v", err)
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("read advisories cursor: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}

// queryError marks rejected queries and missing or forbidden collections as
// unrecoverable. Transport failures and server-side timeouts stay retryable.
func queryError(err error) error {
	if shared.IsInvalidRequest(err) || shared.IsUnauthorized(err) || shared.IsForbidden(err) || shared.IsNotFound(err) {
		return Unrecoverable(err)
	}
	return err
}

// isDecodeError reports whether err came from mapping one document onto Record.
// The cursor has already consumed the document in that case.
func isDecodeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

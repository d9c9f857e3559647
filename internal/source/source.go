// Package source loads raw advisory records and normalizes them into the
// validated sequence the engine works on.
package source

import (
	"context"
	"errors"

	"github.com/ortelius/vulnwatch-backend/util"
)

var logger = util.Logger() // setup the logger

// Source yields the raw advisory records of one backing store.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Record, error)
}

// ErrUnrecoverable matches load failures that retrying cannot fix, such as a missing
// file, a malformed document or a rejected query.
var ErrUnrecoverable = errors.New("unrecoverable source error")

type unrecoverableError struct {
	err error
}

func (e unrecoverableError) Error() string        { return e.err.Error() }
func (e unrecoverableError) Unwrap() error        { return e.err }
func (e unrecoverableError) Is(target error) bool { return target == ErrUnrecoverable }

// Unrecoverable marks err so that errors.Is(err, ErrUnrecoverable) holds. The
// message and the wrapped chain are unchanged.
func Unrecoverable(err error) error {
	if err == nil {
		return nil
	}
	return unrecoverableError{err: err}
}

// Record is an advisory as stored, before severity coercion and validation.
type Record struct {
	Key              string  `json:"_key,omitempty" yaml:"_key,omitempty" bson:"_key,omitempty"`
	ID               string  `json:"id" yaml:"id" bson:"id"`
	Vendor           string  `json:"vendor" yaml:"vendor" bson:"vendor"`
	CveID            string  `json:"cve_id" yaml:"cve_id" bson:"cve_id"`
	Severity         string  `json:"severity" yaml:"severity" bson:"severity"`
	CVSSVector       string  `json:"cvss_vector,omitempty" yaml:"cvss_vector,omitempty" bson:"cvss_vector,omitempty"`
	Summary          string  `json:"summary" yaml:"summary" bson:"summary"`
	Product          string  `json:"product" yaml:"product" bson:"product"`
	PublishedDate    string  `json:"published_date" yaml:"published_date" bson:"published_date"`
	URL              string  `json:"url" yaml:"url" bson:"url"`
	AffectedVersions *string `json:"affected_versions,omitempty" yaml:"affected_versions,omitempty" bson:"affected_versions,omitempty"`
	InsertedAt       string  `json:"inserted_at" yaml:"inserted_at" bson:"inserted_at"`
}

// Identity is the record id, falling back to the document key.
func (r Record) Identity() string {
	return util.GetStringOrDefault(r.ID, r.Key)
}

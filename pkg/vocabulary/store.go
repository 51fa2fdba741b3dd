package vocabulary

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/kaumanns/evolve-a-query/pkg/errors"
	"github.com/kaumanns/evolve-a-query/pkg/logging"
)

const wordKeyPrefix = "word:"

// Store persists vocabulary word counts in BadgerDB, so repeated seeding runs
// accumulate the word pool incrementally instead of starting over.
type Store struct {
	db *badger.DB
}

// badgerLoggerAdapter routes badger's internal logging through our logger.
type badgerLoggerAdapter struct{}

var _ badger.Logger = badgerLoggerAdapter{}

func (badgerLoggerAdapter) Errorf(msg string, items ...interface{}) {
	logging.GetLogger().Error(context.Background(), "badger: %s", fmt.Sprintf(msg, items...))
}

func (badgerLoggerAdapter) Warningf(msg string, items ...interface{}) {
	logging.GetLogger().Warn(context.Background(), "badger: %s", fmt.Sprintf(msg, items...))
}

func (badgerLoggerAdapter) Infof(msg string, items ...interface{}) {
	logging.GetLogger().Debug(context.Background(), "badger: %s", fmt.Sprintf(msg, items...))
}

func (badgerLoggerAdapter) Debugf(msg string, items ...interface{}) {
	logging.GetLogger().Debug(context.Background(), "badger: %s", fmt.Sprintf(msg, items...))
}

// OpenStore opens a vocabulary store at the given path, creating the
// directory if needed. With inMemory set, the store lives entirely in memory;
// used by tests.
func OpenStore(path string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, errors.Wrap(err, errors.IndexUnavailable, "cannot create vocabulary store directory")
		}
		opts = badger.DefaultOptions(path)
	}

	opts.Logger = badgerLoggerAdapter{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.IndexUnavailable, "cannot open vocabulary store")
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the vocabulary's word counts, overwriting previous counts for
// the same words.
func (s *Store) Save(v *Vocabulary) error {
	batch := s.db.NewWriteBatch()
	defer batch.Cancel()

	for _, word := range v.Words() {
		var value [8]byte
		binary.BigEndian.PutUint64(value[:], uint64(v.Count(word)))

		if err := batch.Set(makeWordKey(word), value[:]); err != nil {
			return errors.Wrap(err, errors.Unknown, "cannot write vocabulary entry")
		}
	}

	if err := batch.Flush(); err != nil {
		return errors.Wrap(err, errors.Unknown, "cannot flush vocabulary batch")
	}

	return nil
}

// Load reads all persisted word counts into a fresh vocabulary.
func (s *Store) Load() (*Vocabulary, error) {
	v := New()

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(wordKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			word := string(item.Key()[len(wordKeyPrefix):])

			err := item.Value(func(value []byte) error {
				if len(value) != 8 {
					return errors.WithFields(
						errors.New(errors.ValidationFailed, "malformed vocabulary entry"),
						errors.Fields{"word": word},
					)
				}
				v.Add(word, int(binary.BigEndian.Uint64(value)))
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return v, nil
}

func makeWordKey(word string) []byte {
	return []byte(wordKeyPrefix + word)
}

package store

import (
	"context"
	"fmt"
	"strings"
)

type Options struct {
	Driver        string
	BadgerPath    string
	MongoURI      string
	MongoDatabase string
}

// Open returns the DocumentStore selected by opts.Driver ("badger" or "mongo").
func Open(ctx context.Context, opts Options) (DocumentStore, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "badger":
		s, err := OpenBadger(opts.BadgerPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mongo", "mongodb":
		s, err := OpenMongo(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

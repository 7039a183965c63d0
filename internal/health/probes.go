package health

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/iterator"
)

func RedisProbe(client *redis.Client) Probe {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// FirestoreProbe reads at most one document from collection.
func FirestoreProbe(client *firestore.Client, collection string) Probe {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		iter := client.Collection(collection).Limit(1).Documents(ctx)
		defer iter.Stop()

		_, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		return err
	}
}

// Package redis stores cart snapshots as JSON blobs in Redis, one key per
// user namespace, overwritten wholesale on every save.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nexashop/storefront/internal/domains/cart/domain"
	"github.com/nexashop/storefront/internal/domains/cart/ports"
)

const keyPrefix = "storefront:cart:"

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is the Redis-backed cart persistence adapter.
type SnapshotStore struct {
	client *goredis.Client
}

// NewSnapshotStore wires a Redis client. Caller manages client lifecycle.
func NewSnapshotStore(client *goredis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

// snapshotBlob is the serialized form; both collections live in one blob so
// a save is a single atomic overwrite.
type snapshotBlob struct {
	Cart     []lineRecord  `json:"cart"`
	Wishlist []entryRecord `json:"wishlist"`
}

type lineRecord struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Stock     *int64  `json:"stock,omitempty"`
	Category  string  `json:"category,omitempty"`
	Image     string  `json:"image,omitempty"`
	Quantity  int64   `json:"quantity"`
}

type entryRecord struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Stock     *int64  `json:"stock,omitempty"`
	Category  string  `json:"category,omitempty"`
	Image     string  `json:"image,omitempty"`
}

func (s *SnapshotStore) Load(ctx context.Context, namespace string) (*domain.State, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, key(namespace)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	var blob snapshotBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return blob.toDomain(), nil
}

func (s *SnapshotStore) Save(ctx context.Context, namespace string, state domain.State) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	payload, err := json.Marshal(toBlob(state))
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := s.client.Set(ctx, key(namespace), payload, 0).Err(); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Delete(ctx context.Context, namespace string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if err := s.client.Del(ctx, key(namespace)).Err(); err != nil {
		return fmt.Errorf("delete cart snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis snapshot store not configured")
	}
	return nil
}

func key(namespace string) string {
	return keyPrefix + namespace
}

func toBlob(state domain.State) snapshotBlob {
	blob := snapshotBlob{
		Cart:     make([]lineRecord, 0, len(state.Lines)),
		Wishlist: make([]entryRecord, 0, len(state.Wishlist)),
	}
	for _, line := range state.Lines {
		blob.Cart = append(blob.Cart, lineRecord{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Stock:     line.Stock,
			Category:  line.Category,
			Image:     line.Image,
			Quantity:  line.Quantity,
		})
	}
	for _, entry := range state.Wishlist {
		blob.Wishlist = append(blob.Wishlist, entryRecord{
			ProductID: entry.ProductID,
			Title:     entry.Title,
			Price:     entry.Price,
			Stock:     entry.Stock,
			Category:  entry.Category,
			Image:     entry.Image,
		})
	}
	return blob
}

func (b snapshotBlob) toDomain() *domain.State {
	state := domain.NewState()
	for _, record := range b.Cart {
		state.Lines = append(state.Lines, domain.Line{
			ProductRef: domain.ProductRef{
				ProductID: record.ProductID,
				Title:     record.Title,
				Price:     record.Price,
				Stock:     record.Stock,
				Category:  record.Category,
				Image:     record.Image,
			},
			Quantity: record.Quantity,
		})
	}
	for _, record := range b.Wishlist {
		state.Wishlist = append(state.Wishlist, domain.ProductRef{
			ProductID: record.ProductID,
			Title:     record.Title,
			Price:     record.Price,
			Stock:     record.Stock,
			Category:  record.Category,
			Image:     record.Image,
		})
	}
	return state
}

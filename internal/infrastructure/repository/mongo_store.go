package repository

import (
	"context"
	"fmt"
	"time"

	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/infrastructure/repository/entity"
	"shopify-orders-gateway/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTokenStore implements TokenStore using MongoDB
type MongoTokenStore struct {
	shopsCollection *mongo.Collection
}

// NewMongoTokenStore creates a new MongoDB token store
func NewMongoTokenStore(db *mongo.Database) ports.TokenStore {
	return &MongoTokenStore{
		shopsCollection: db.Collection("shops"),
	}
}

// Save saves or updates a shop record, keyed by domain
func (s *MongoTokenStore) Save(ctx context.Context, record *domain.ShopRecord) error {
	doc := entity.MongoShopDocFromDomain(record)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"domain": record.Domain}
	update := bson.M{"$set": doc}

	_, err := s.shopsCollection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save shop: %w", err)
	}

	return nil
}

// Get retrieves a shop record by domain
func (s *MongoTokenStore) Get(ctx context.Context, shopDomain string) (*domain.ShopRecord, error) {
	var doc entity.MongoShopDoc
	filter := bson.M{"domain": shopDomain}

	err := s.shopsCollection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return doc.ToDomain(), nil
}

// Remove deletes a shop record by domain
func (s *MongoTokenStore) Remove(ctx context.Context, shopDomain string) error {
	filter := bson.M{"domain": shopDomain}

	_, err := s.shopsCollection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove shop: %w", err)
	}

	return nil
}

// List retrieves all shop records
func (s *MongoTokenStore) List(ctx context.Context) ([]*domain.ShopRecord, error) {
	cursor, err := s.shopsCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.ShopRecord
	for cursor.Next(ctx) {
		var doc entity.MongoShopDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode shop: %w", err)
		}
		records = append(records, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return records, nil
}

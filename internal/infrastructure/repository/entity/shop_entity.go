package entity

import (
	"time"

	"shopify-orders-gateway/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoShopDoc represents a shop's OAuth grant in MongoDB
type MongoShopDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Domain      string             `bson:"domain"`
	AccessToken string             `bson:"accessToken"`
	InstalledAt time.Time          `bson:"installedAt"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain record
func (d *MongoShopDoc) ToDomain() *domain.ShopRecord {
	return &domain.ShopRecord{
		Domain:      d.Domain,
		AccessToken: d.AccessToken,
		InstalledAt: d.InstalledAt,
	}
}

// MongoShopDocFromDomain converts a domain record to a MongoDB document
func MongoShopDocFromDomain(record *domain.ShopRecord) *MongoShopDoc {
	return &MongoShopDoc{
		Domain:      record.Domain,
		AccessToken: record.AccessToken,
		InstalledAt: record.InstalledAt,
	}
}

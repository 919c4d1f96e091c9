package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Download describes where a purchased product can be fetched from
type Download struct {
	URL     string `json:"url" bson:"url" validate:"required"`
	Version string `json:"version,omitempty" bson:"version,omitempty"`
}

// Ratings holds the aggregate review score of a product
type Ratings struct {
	Average float64 `json:"average" bson:"average"`
	Count   int     `json:"count" bson:"count"`
}

// Product represents a sellable (or free) catalog item
type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id" gorm:"primaryKey;type:char(24);serializer:objectid"`
	Title       string             `json:"title" bson:"title" gorm:"type:varchar(255);not null" validate:"required"`
	ProductsID  string             `json:"productsId" bson:"productsId" gorm:"column:products_id;type:varchar(255);uniqueIndex;not null" validate:"required"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail" gorm:"type:text" validate:"required"`
	Description string             `json:"description" bson:"description" gorm:"type:text"`
	Status      string             `json:"status" bson:"status" gorm:"type:varchar(16);index;not null" validate:"oneof=publish draft"`
	Author      *Author            `json:"author,omitempty" bson:"author,omitempty" gorm:"type:text;serializer:json"`
	Tags        []Tag              `json:"tags" bson:"tags" gorm:"type:text;serializer:json" validate:"dive"`
	Frameworks  []Framework        `json:"frameworks" bson:"frameworks" gorm:"type:text;serializer:json" validate:"dive"`
	Category    *Category          `json:"category" bson:"category" gorm:"type:text;serializer:json" validate:"required"`
	Type        *Type              `json:"type" bson:"type" gorm:"type:text;serializer:json" validate:"required"`
	Images      []string           `json:"images" bson:"images" gorm:"type:text;serializer:json" validate:"dive,required"`
	PaymentType string             `json:"paymentType" bson:"paymentType" gorm:"type:varchar(8);not null" validate:"oneof=free paid"`
	Price       float64            `json:"price" bson:"price" gorm:"not null;default:0" validate:"gte=0"`
	Discount    float64            `json:"discount" bson:"discount" gorm:"default:0" validate:"gte=0,lte=100"`
	Stock       int                `json:"stock" bson:"stock" gorm:"default:0" validate:"gte=0"`
	Sold        int                `json:"sold" bson:"sold" gorm:"default:0" validate:"gte=0"`
	Download    *Download          `json:"download,omitempty" bson:"download,omitempty" gorm:"type:text;serializer:json"`
	Ratings     Ratings            `json:"ratings" bson:"ratings" gorm:"type:text;serializer:json"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TableName pins the table to the Mongo collection name.
func (Product) TableName() string { return "products" }

func (p Product) RecordID() primitive.ObjectID { return p.ID }

func (p Product) Slug() string { return p.ProductsID }

func (p Product) SearchText() (string, string) { return p.Title, p.Description }

func (p Product) Published() bool { return p.Status == StatusPublish }

func (p Product) Created() time.Time { return p.CreatedAt }

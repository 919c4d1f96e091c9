package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article represents a published or draft piece of content
type Article struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id" gorm:"primaryKey;type:char(24);serializer:objectid"`
	Title       string             `json:"title" bson:"title" gorm:"type:varchar(255);not null" validate:"required"`
	ArticlesID  string             `json:"articlesId" bson:"articlesId" gorm:"column:articles_id;type:varchar(255);uniqueIndex;not null" validate:"required"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail" gorm:"type:text" validate:"required"`
	Description string             `json:"description" bson:"description" gorm:"type:text"`
	Content     string             `json:"content" bson:"content" gorm:"type:text"`
	Status      string             `json:"status" bson:"status" gorm:"type:varchar(16);index;not null" validate:"oneof=publish draft"`
	Author      *Author            `json:"author,omitempty" bson:"author,omitempty" gorm:"type:text;serializer:json"`
	Tags        []Tag              `json:"tags" bson:"tags" gorm:"type:text;serializer:json" validate:"dive"`
	Category    *Category          `json:"category" bson:"category" gorm:"type:text;serializer:json" validate:"required"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TableName pins the table to the Mongo collection name.
func (Article) TableName() string { return "articles" }

func (a Article) RecordID() primitive.ObjectID { return a.ID }

func (a Article) Slug() string { return a.ArticlesID }

func (a Article) SearchText() (string, string) { return a.Title, a.Description }

func (a Article) Published() bool { return a.Status == StatusPublish }

func (a Article) Created() time.Time { return a.CreatedAt }

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publication states of a catalog record.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// Payment types of a product.
const (
	PaymentFree = "free"
	PaymentPaid = "paid"
)

// Record is implemented by every persisted catalog item (Article, Product).
type Record interface {
	RecordID() primitive.ObjectID
	Slug() string
	SearchText() (title, description string)
	Published() bool
	Created() time.Time
}

// Tag is an embedded label; records own zero or more of them.
type Tag struct {
	Title  string `json:"title" bson:"title" validate:"required"`
	TagsID string `json:"tagsId" bson:"tagsId" validate:"required"`
}

// Category is stored inline on each record rather than referenced.
type Category struct {
	Title      string `json:"title" bson:"title" validate:"required"`
	CategoryID string `json:"categoryId" bson:"categoryId" validate:"required"`
}

// Type is the product kind, embedded the same way as Category.
type Type struct {
	Title  string `json:"title" bson:"title" validate:"required"`
	TypeID string `json:"typeId" bson:"typeId" validate:"required"`
}

// Framework is a technology a product is built with.
type Framework struct {
	Title        string `json:"title" bson:"title" validate:"required"`
	FrameworksID string `json:"frameworksId" bson:"frameworksId" validate:"required"`
}

// Author references the user who wrote or published a record.
type Author struct {
	Name  string `json:"name" bson:"name" validate:"required"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}

package store

import (
	"context"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm/schema"
)

func init() {
	schema.RegisterSerializer("objectid", ObjectIDSerializer{})
}

// ObjectIDSerializer stores a primitive.ObjectID as its 24 character hex form
// so both backends share the same id space.
type ObjectIDSerializer struct{}

func (ObjectIDSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	var oid primitive.ObjectID
	switch v := dbValue.(type) {
	case nil:
	case string:
		parsed, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return fmt.Errorf("invalid object id %q: %w", v, err)
		}
		oid = parsed
	case []byte:
		parsed, err := primitive.ObjectIDFromHex(string(v))
		if err != nil {
			return fmt.Errorf("invalid object id %q: %w", v, err)
		}
		oid = parsed
	default:
		return fmt.Errorf("unsupported object id value %T", dbValue)
	}
	field.ReflectValueOf(ctx, dst).Set(reflect.ValueOf(oid))
	return nil
}

func (ObjectIDSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	switch v := fieldValue.(type) {
	case primitive.ObjectID:
		return v.Hex(), nil
	case *primitive.ObjectID:
		if v == nil {
			return nil, nil
		}
		return v.Hex(), nil
	default:
		return nil, fmt.Errorf("unsupported object id field %T", fieldValue)
	}
}

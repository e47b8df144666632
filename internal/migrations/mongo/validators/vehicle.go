package validators

import "go.mongodb.org/mongo-driver/bson"

var VehicleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "brand", "price_per_day", "available", "image"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"brand": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"price_per_day": bson.M{
				"bsonType":         []string{"double", "int", "long", "decimal"},
				"minimum":          0,
				"exclusiveMinimum": true,
			},
			"available": bson.M{
				"bsonType": "bool",
			},
			"image": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},
		},
	},
}

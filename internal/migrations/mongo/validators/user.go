package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"username", "email", "phone", "password_hash", "role", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},
			"username": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},
			"email": bson.M{
				"bsonType": "string",
				"pattern":  "^[^@\\s]+@[^@\\s]+$",
			},
			"phone": bson.M{
				"bsonType":  "string",
				"minLength": 8,
				"maxLength": 20,
			},
			"password_hash": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"user", "admin"},
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var NotificationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"title", "message", "type", "status", "created_at"},
		"properties": bson.M{
			"type": bson.M{
				"bsonType": "string",
				"enum":     []string{"info", "warning", "error"},
			},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"unread", "read"},
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

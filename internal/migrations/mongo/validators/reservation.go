package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"user_id",
			"train_number",
			"seat_count",
			"status",
			"user_name",
			"schedule_date",
			"source",
			"destination",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"user_id": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"train_number": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"seat_count": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"confirmed"},
			},

			"user_name": bson.M{
				"bsonType": "string",
			},

			"schedule_date": bson.M{
				"bsonType": "string",
			},

			"source": bson.M{
				"bsonType": "string",
			},

			"destination": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

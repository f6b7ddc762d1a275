package validators

import "go.mongodb.org/mongo-driver/bson"

var TrainValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"source",
			"destination",
			"schedule_date",
			"seats_available",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"source": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 64,
			},

			"destination": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 64,
			},

			"schedule_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			// The conditional decrement keeps this non-negative; the schema
			// rejects any other writer that would not.
			"seats_available": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},
		},
	},
}

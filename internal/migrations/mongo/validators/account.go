package validators

import "go.mongodb.org/mongo-driver/bson"

var integer = []string{"int", "long"}

var AccountValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"user_name",
			"email",
			"role",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"user_name": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 32,
			},

			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"role": bson.M{
				"bsonType": "string",
				"enum": []string{
					"passenger",
					"admin",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

// CredentialValidator keys credentials by user id, so each account has at
// most one.
var CredentialValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "password_hash"},
		"additionalProperties": false,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},
			"password_hash": bson.M{
				"bsonType":  "string",
				"minLength": 59,
				"maxLength": 60,
			},
		},
	},
}

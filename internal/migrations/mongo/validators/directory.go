package validators

import "go.mongodb.org/mongo-driver/bson"

var ServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "slots"},
		"additionalProperties": true,
		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"slots": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 96,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 1,
					"maxLength": 50,
				},
			},
			"price": bson.M{
				"bsonType": numberTypes,
				"minimum":  0,
			},
		},
	},
}

// UserValidator leaves profile fields open, only the key and role are constrained.
var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email"},
		"additionalProperties": true,
		"properties": bson.M{
			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"", "admin"},
			},
		},
	},
}

var DoctorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "specialty"},
		"additionalProperties": true,
		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},
			"specialty": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"img": bson.M{
				"bsonType":  "string",
				"maxLength": 2048,
			},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var numberTypes = []string{"double", "int", "long", "decimal"}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"treatment",
			"formattedDate",
			"name",
			"userName",
			"paid",
			"createdAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"treatment": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"formattedDate": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 40,
			},

			"slot": bson.M{
				"bsonType":  "string",
				"maxLength": 50,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"userName": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{7,14}$`,
			},

			"price": bson.M{
				"bsonType": numberTypes,
				"minimum":  0,
			},

			"paid": bson.M{
				"bsonType": "bool",
			},

			"transactionId": bson.M{
				"bsonType":  "string",
				"maxLength": 255,
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var PaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"bookingId", "transactionId", "createdAt"},
		"additionalProperties": true,
		"properties": bson.M{
			"bookingId": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"transactionId": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 255,
			},
			"payload": bson.M{
				"bsonType": "object",
			},
			"createdAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}

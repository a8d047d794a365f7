package storage

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the credential-store document. Password holds only the bcrypt
// digest; the reset fields are present only while a reset request is
// outstanding.
type User struct {
	ID               bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string        `bson:"name" json:"name"`
	Email            string        `bson:"email" json:"email"`
	Age              int           `bson:"age,omitempty" json:"age,omitempty"`
	Password         string        `bson:"password" json:"-"`
	Role             string        `bson:"role" json:"role"`
	ResetToken       *string       `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpiry *time.Time    `bson:"resetTokenExpiry,omitempty" json:"-"`
	CreatedAt        time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt        time.Time     `bson:"updatedAt" json:"updated_at"`
}

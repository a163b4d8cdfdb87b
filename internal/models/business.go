package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LegalEntity string

const (
	LegalEntitySoleProprietorship LegalEntity = "sole_proprietorship"
	LegalEntityLLC                LegalEntity = "llc"
	LegalEntityCorporation        LegalEntity = "corporation"
	LegalEntityPartnership        LegalEntity = "partnership"
	LegalEntityNonProfit          LegalEntity = "non_profit"
)

type Address struct {
	Street  string `bson:"street" json:"street" validate:"required"`
	City    string `bson:"city" json:"city" validate:"required"`
	State   string `bson:"state" json:"state" validate:"required"`
	Zip     string `bson:"zip" json:"zip" validate:"required"`
	Country string `bson:"country" json:"country" validate:"required"`
}

// Business is one business location owned by exactly one user. The owner id
// is stamped by the store on creation and never taken from the caller.
type Business struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Name        string             `bson:"name" json:"name"`
	Address     Address            `bson:"address" json:"address"`
	Phone       string             `bson:"phone" json:"phone"`
	Description string             `bson:"description" json:"description"`
	Type        string             `bson:"type" json:"type"`
	LegalEntity LegalEntity        `bson:"legal_entity" json:"legal_entity"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// BusinessInput is what a caller may supply on create. Linkage and
// timestamp fields are set server-side.
type BusinessInput struct {
	Name        string      `json:"name" validate:"required"`
	Address     Address     `json:"address" validate:"required"`
	Phone       string      `json:"phone" validate:"required"`
	Description string      `json:"description"`
	Type        string      `json:"type" validate:"required"`
	LegalEntity LegalEntity `json:"legal_entity" validate:"required,oneof=sole_proprietorship llc corporation partnership non_profit"`
}

type BusinessUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Address     *Address     `json:"address,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Description *string      `json:"description,omitempty"`
	Type        *string      `json:"type,omitempty"`
	LegalEntity *LegalEntity `json:"legal_entity,omitempty" validate:"omitempty,oneof=sole_proprietorship llc corporation partnership non_profit"`
}

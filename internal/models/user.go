package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile is the single per-user profile document. There is exactly one
// per user id; all writes after creation are merges so unspecified fields
// keep their prior values.
type UserProfile struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email                  string             `bson:"email" json:"email" validate:"required,email"`
	PasswordHash           string             `bson:"password_hash" json:"-"`
	FirstName              string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName               string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	HasCompletedOnboarding bool               `bson:"has_completed_onboarding" json:"has_completed_onboarding"`
	IsSubscribed           bool               `bson:"is_subscribed" json:"is_subscribed"`
	SubscriptionPackageID  string             `bson:"subscription_package_id,omitempty" json:"subscription_package_id,omitempty"`
	SubscriptionStartDate  *time.Time         `bson:"subscription_start_date,omitempty" json:"subscription_start_date,omitempty"`
	TrialEndDate           *time.Time         `bson:"trial_end_date,omitempty" json:"trial_end_date,omitempty"`
	HasTrialUsed           bool               `bson:"has_trial_used" json:"has_trial_used"`
	CreatedAt              time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProfileUpdate carries a partial merge-write. Nil fields are left untouched
// in the stored document.
type ProfileUpdate struct {
	FirstName              *string    `json:"first_name,omitempty"`
	LastName               *string    `json:"last_name,omitempty"`
	HasCompletedOnboarding *bool      `json:"has_completed_onboarding,omitempty"`
	IsSubscribed           *bool      `json:"is_subscribed,omitempty"`
	SubscriptionPackageID  *string    `json:"subscription_package_id,omitempty"`
	SubscriptionStartDate  *time.Time `json:"subscription_start_date,omitempty"`
	TrialEndDate           *time.Time `json:"trial_end_date,omitempty"`
	HasTrialUsed           *bool      `json:"has_trial_used,omitempty"`
}

// AuthToken records an issued JWT by hash so sign-out can revoke it.
type AuthToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	TokenHash string             `bson:"token_hash" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	IsRevoked bool               `bson:"is_revoked" json:"is_revoked"`
	UserAgent string             `bson:"user_agent" json:"user_agent"`
	IPAddress string             `bson:"ip_address" json:"ip_address"`
}

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	User      UserProfile `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

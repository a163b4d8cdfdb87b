package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ComplianceStatus string

const (
	StatusTodo      ComplianceStatus = "TODO"
	StatusUpcoming  ComplianceStatus = "UPCOMING"
	StatusCompleted ComplianceStatus = "COMPLETED"
)

type ComplianceCategory string

const (
	CategoryTaxes              ComplianceCategory = "Taxes"
	CategoryLicenses           ComplianceCategory = "Licenses"
	CategorySafety             ComplianceCategory = "Safety"
	CategoryHREmployeeLaw      ComplianceCategory = "HR & Employee Law"
	CategoryBusinessInsurance  ComplianceCategory = "Business Insurance"
	CategoryRegulatoryGuidance ComplianceCategory = "Advanced Regulatory Guidance"
	CategoryEnvironmental      ComplianceCategory = "Environmental"
	CategoryHealthSafety       ComplianceCategory = "Health & Safety"
	CategoryPermits            ComplianceCategory = "Permits"
)

// ComplianceCategories lists every category in its fixed order, used for
// dashboard grouping with stable keys.
var ComplianceCategories = []ComplianceCategory{
	CategoryTaxes,
	CategoryLicenses,
	CategorySafety,
	CategoryHREmployeeLaw,
	CategoryBusinessInsurance,
	CategoryRegulatoryGuidance,
	CategoryEnvironmental,
	CategoryHealthSafety,
	CategoryPermits,
}

// ComplianceItem is one trackable regulatory obligation tied to a business.
// Owner and business ids always match the containing business.
type ComplianceItem struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID           primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	BusinessID        primitive.ObjectID `bson:"business_id" json:"business_id"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description" json:"description"`
	Category          ComplianceCategory `bson:"category" json:"category"`
	Status            ComplianceStatus   `bson:"status" json:"status"`
	DueDate           time.Time          `bson:"due_date" json:"due_date"`
	Frequency         string             `bson:"frequency,omitempty" json:"frequency,omitempty"`
	IssuingAuthority  string             `bson:"issuing_authority" json:"issuing_authority"`
	RelevantLaws      []string           `bson:"relevant_laws" json:"relevant_laws"`
	RequiredDocuments []string           `bson:"required_documents" json:"required_documents"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Attachments       []string           `bson:"attachments,omitempty" json:"attachments,omitempty"`
	LastCompletedDate *time.Time         `bson:"last_completed_date,omitempty" json:"last_completed_date,omitempty"`
	NextReviewDate    *time.Time         `bson:"next_review_date,omitempty" json:"next_review_date,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

type ComplianceItemUpdate struct {
	Title             *string             `json:"title,omitempty"`
	Description       *string             `json:"description,omitempty"`
	Category          *ComplianceCategory `json:"category,omitempty"`
	Status            *ComplianceStatus   `json:"status,omitempty" validate:"omitempty,oneof=TODO UPCOMING COMPLETED"`
	DueDate           *time.Time          `json:"due_date,omitempty"`
	Frequency         *string             `json:"frequency,omitempty"`
	IssuingAuthority  *string             `json:"issuing_authority,omitempty"`
	RelevantLaws      *[]string           `json:"relevant_laws,omitempty"`
	RequiredDocuments *[]string           `json:"required_documents,omitempty"`
	Notes             *string             `json:"notes,omitempty"`
	Attachments       *[]string           `json:"attachments,omitempty"`
	LastCompletedDate *time.Time          `json:"last_completed_date,omitempty"`
	NextReviewDate    *time.Time          `json:"next_review_date,omitempty"`
}

// ComplianceDraft is the structured shape the generative endpoint returns
// during extraction. Dates arrive as ISO strings or empty; normalization to
// typed fields happens at the boundary before anything is persisted.
type ComplianceDraft struct {
	Title             string   `json:"title" jsonschema_description:"Concise title of the obligation"`
	Description       string   `json:"description" jsonschema_description:"Detailed explanation of the requirement"`
	Category          string   `json:"category" jsonschema_description:"One of the fixed compliance categories"`
	Status            string   `json:"status" jsonschema_description:"TODO or UPCOMING"`
	DueDate           string   `json:"dueDate" jsonschema_description:"ISO 8601 date or empty"`
	NextReviewDate    string   `json:"nextReviewDate" jsonschema_description:"ISO 8601 date or empty"`
	Frequency         string   `json:"frequency" jsonschema_description:"Recurrence label such as Annually"`
	IssuingAuthority  string   `json:"issuingAuthority" jsonschema_description:"Government body or organization"`
	RelevantLaws      []string `json:"relevantLaws"`
	RequiredDocuments []string `json:"requiredDocuments"`
	Notes             string   `json:"notes"`
	Attachments       []string `json:"attachments"`
	LastCompletedDate string   `json:"lastCompletedDate" jsonschema_description:"ISO 8601 date or empty"`
}

package mongodb

import "fmt"

// Scope keys mirror the document paths the data model is organized around.
// Every write publishes its scope to the change hub; every live list
// subscription watches one of these keys.

func ProfileScope(userID string) string {
	return fmt.Sprintf("users/%s/data/profile", userID)
}

func BusinessesScope(userID string) string {
	return fmt.Sprintf("users/%s/businesses", userID)
}

func ComplianceScope(userID, businessID string) string {
	return fmt.Sprintf("users/%s/businesses/%s/complianceItems", userID, businessID)
}

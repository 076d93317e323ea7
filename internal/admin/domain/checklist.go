package domain

import (
	"fmt"
	"strings"
)

// RequiredFields is the fixed verification checklist, in review order. Every
// item must be individually toggled before approval.
var RequiredFields = []string{
	"branding", "name", "category", "description", "address",
	"hours", "phone", "email", "bankName", "account", "ifsc",
	"doc", "video",
}

// fieldLabels maps checklist ids to the labels shown to vendors.
var fieldLabels = map[string]string{
	"branding":    "Store Logo/Branding",
	"name":        "Store Name",
	"category":    "Business Category",
	"description": "Store Description",
	"address":     "Business Address",
	"hours":       "Operating Hours",
	"phone":       "Phone Number",
	"email":       "Email Address",
	"bankName":    "Bank Name",
	"account":     "Account Number",
	"ifsc":        "IFSC/Routing Code",
	"doc":         "Government ID",
	"video":       "Liveness Video Probe",
}

// FieldLabel returns the human label for a checklist id, or the id itself
// when unknown.
func FieldLabel(id string) string {
	if l, ok := fieldLabels[id]; ok {
		return l
	}
	return id
}

// AllVerified reports whether every checklist item has been toggled.
func AllVerified(verified map[string]bool) bool {
	for _, f := range RequiredFields {
		if !verified[f] {
			return false
		}
	}
	return true
}

// UnverifiedLabels returns the labels of unchecked items, in checklist order.
func UnverifiedLabels(verified map[string]bool) []string {
	var out []string
	for _, f := range RequiredFields {
		if !verified[f] {
			out = append(out, FieldLabel(f))
		}
	}
	return out
}

// DefaultRejectionNote backs an empty admin note in the synthesized message.
const DefaultRejectionNote = "Does not meet verification criteria."

// SynthesizeRejection builds the vendor-facing rejection message: the admin's
// note plus a bulleted list of the flagged items. With nothing flagged the
// list degrades to a general failure line.
func SynthesizeRejection(adminNote string, unverifiedLabels []string) string {
	if adminNote == "" {
		adminNote = DefaultRejectionNote
	}
	items := "General Review Failed"
	if len(unverifiedLabels) > 0 {
		items = strings.Join(unverifiedLabels, "\n- ")
	}
	return strings.TrimSpace(fmt.Sprintf(`
Application Rejected.

Reason from Admin:
"%s"

Action Required:
Please correct or update the following details which were found to be incomplete or incorrect:
- %s

Please update these details in your onboarding form and resubmit.
`, adminNote, items))
}

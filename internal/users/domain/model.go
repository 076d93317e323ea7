package domain

import "time"

// Platform roles. Roles are a set; normal flows only ever append.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Address is one entry of a user's ordered address list.
type Address struct {
	ID          string `firestore:"id" json:"id"`
	Label       string `firestore:"label" json:"label"`
	AddressLine string `firestore:"addressLine" json:"address_line"`
	PhoneNumber string `firestore:"phoneNumber" json:"phone_number"`
}

// KYCDocuments is identity material cached on the user after a first upload
// so later store applications can reuse it without re-uploading.
type KYCDocuments struct {
	VideoURL string `firestore:"videoUrl" json:"video_url"`
	DocURL   string `firestore:"docUrl" json:"doc_url"`
}

// RoleProfile is the status stub attached when a role is applied for.
type RoleProfile struct {
	StoreName      string `firestore:"storeName,omitempty" json:"store_name,omitempty"`
	ManagedStoreID string `firestore:"managedStoreId,omitempty" json:"managed_store_id,omitempty"`
	Status         string `firestore:"status" json:"status"`
}

// User is a platform identity stored in the users collection.
type User struct {
	UID         string        `firestore:"uid" json:"uid"`
	Email       string        `firestore:"email,omitempty" json:"email,omitempty"`
	DisplayName string        `firestore:"displayName,omitempty" json:"display_name,omitempty"`
	PhoneNumber string        `firestore:"phoneNumber,omitempty" json:"phone_number,omitempty"`
	PhotoURL    string        `firestore:"photoURL,omitempty" json:"photo_url,omitempty"`
	Roles       []string      `firestore:"roles" json:"roles"`
	Addresses   []Address     `firestore:"addresses" json:"addresses"`
	KYC         *KYCDocuments `firestore:"kycDocuments,omitempty" json:"kyc_documents,omitempty"`

	VendorProfile  *RoleProfile `firestore:"vendorProfile,omitempty" json:"vendor_profile,omitempty"`
	ManagerProfile *RoleProfile `firestore:"managerProfile,omitempty" json:"manager_profile,omitempty"`

	IsBanned    bool       `firestore:"isBanned" json:"is_banned"`
	CreatedAt   time.Time  `firestore:"createdAt,serverTimestamp" json:"created_at"`
	VendorSince *time.Time `firestore:"vendorSince,omitempty" json:"vendor_since,omitempty"`
}

// SelfAssignable reports whether a user may request the role for their own
// account. Vendor and staff begin as pending applications; customer is the
// default on signup; admin is only ever granted by another admin.
func SelfAssignable(role string) bool {
	switch role {
	case RoleVendor, RoleStaff:
		return true
	}
	return false
}

// HasRole reports membership in the role set.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

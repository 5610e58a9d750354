package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// MembershipStatus controls whether a user list accepts new members.
type MembershipStatus string

// UploadKeyType selects what a customer-match list is matched on.
type UploadKeyType string

const (
	// MembershipOpen lets the list accept new members.
	MembershipOpen MembershipStatus = "OPEN"

	// UploadKeyContactInfo matches on hashed contact attributes such as email.
	UploadKeyContactInfo UploadKeyType = "CONTACT_INFO"

	// DefaultMembershipLifespanDays is how long members stay in a created list.
	DefaultMembershipLifespanDays = 30
)

// AudienceResource is a customer-match user list on the ads platform.
// Name is the natural key; ResourceName is assigned remotely and immutable.
type AudienceResource struct {
	Name                   string
	ResourceName           string
	Description            string
	MembershipStatus       MembershipStatus
	UploadKeyType          UploadKeyType
	MembershipLifespanDays int
}

// NewAudience returns an audience named name with the fixed policy defaults
// used whenever adsync creates a list.
func NewAudience(name string) AudienceResource {
	return AudienceResource{
		Name:                   name,
		Description:            fmt.Sprintf("%s for marketing", name),
		MembershipStatus:       MembershipOpen,
		UploadKeyType:          UploadKeyContactInfo,
		MembershipLifespanDays: DefaultMembershipLifespanDays,
	}
}

// LookupStatus is the outcome of searching an audience by name.
type LookupStatus int

const (
	// LookupNotFound means no audience has the requested name.
	LookupNotFound LookupStatus = iota
	// LookupFound means an audience with the requested name exists.
	LookupFound
	// LookupFailed means the search itself was rejected.
	LookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupFailed:
		return "failed"
	default:
		return "not_found"
	}
}

// AudienceLookup is the result of a search by name.
type AudienceLookup struct {
	Status       LookupStatus
	ResourceName string
	Failure      *RemoteFailure
}

// Found returns a lookup for an existing audience.
func Found(resourceName string) AudienceLookup {
	return AudienceLookup{Status: LookupFound, ResourceName: resourceName}
}

// NotFound returns a lookup for a missing audience.
func NotFound() AudienceLookup {
	return AudienceLookup{Status: LookupNotFound}
}

// Failed returns a lookup for a rejected search.
func Failed(f *RemoteFailure) AudienceLookup {
	return AudienceLookup{Status: LookupFailed, Failure: f}
}

// IdentifierRecord is one input row.
type IdentifierRecord struct {
	// Row is the 1-based data row number in the source, for diagnostics.
	Row int
	// Email is the raw contact attribute. Empty when the cell was missing.
	Email string
}

// HashedIdentifier is the hex SHA-256 digest of a normalized contact attribute.
type HashedIdentifier string

// NormalizeIdentifier trims surrounding whitespace and lowercases raw.
// The ads platform hashes its own copy the same way before matching.
func NormalizeIdentifier(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// HashIdentifier normalizes raw and returns its hex SHA-256 digest.
func HashIdentifier(raw string) HashedIdentifier {
	sum := sha256.Sum256([]byte(NormalizeIdentifier(raw)))
	return HashedIdentifier(hex.EncodeToString(sum[:]))
}

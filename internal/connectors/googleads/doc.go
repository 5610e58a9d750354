// Package googleads implements driven.AudiencePlatform over the Google Ads
// REST API.
//
// Only the calls adsync needs are covered: searching user lists by name,
// creating a customer-match user list, and creating, populating and running
// an offline user data job. Every request carries the developer token and,
// when configured, the manager account in login-customer-id.
//
// Rejections come back as *domain.RemoteFailure with the GoogleAdsFailure
// details flattened into violations.
package googleads

// Package services contains typed wrappers over the REST gateway for
// listings, categories, users and the admin dashboard, plus the local bid
// placement rule.
package services

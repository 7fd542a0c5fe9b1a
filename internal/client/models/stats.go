package models

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers        int `json:"totalUsers"`
	PendingUsers      int `json:"pendingUsers"`
	ActiveUsers       int `json:"activeUsers"`
	TotalListings     int `json:"totalListings"`
	PendingListings   int `json:"pendingListings"`
	ActiveListings    int `json:"activeListings"`
	CompletedListings int `json:"completedListings"`
	TotalCategories   int `json:"totalCategories"`
	TotalBids         int `json:"totalBids"`
}

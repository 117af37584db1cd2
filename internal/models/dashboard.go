package models

// ServiceState is the outcome of one system status probe.
type ServiceState struct {
	Status  string `json:"status"`  // "operational" or "down"
	Latency string `json:"latency"` // "good" or "bad"
}

// SystemStatus groups the dashboard's service probes.
type SystemStatus struct {
	Database        ServiceState `json:"database"`
	API             ServiceState `json:"api"`
	ContentDelivery ServiceState `json:"contentDelivery"`
}

// Dashboard is the payload of the admin overview page.
type Dashboard struct {
	TotalBlogs        int          `json:"totalBlogs"`
	TotalPublications int          `json:"totalPublications"`
	TotalUsers        int          `json:"totalUsers"`
	RecentBlogs       []Article    `json:"recentBlogs"`
	RecentPosts       []Listing    `json:"recentPosts"`
	SystemStatus      SystemStatus `json:"systemStatus"`
}

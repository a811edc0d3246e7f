package domain

// MonthlyBucket is one calendar month of an aggregate series. Month is "YYYY-MM".
type MonthlyBucket struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// FinancialSummary aggregates an owner's payments for the finances and dashboard views.
type FinancialSummary struct {
	TotalRevenue     float64               `json:"totalRevenue"`
	PendingRevenue   float64               `json:"pendingRevenue"`
	PaidToday        float64               `json:"paidToday"`
	DueToday         float64               `json:"dueToday"`
	MonthlyRevenue   []MonthlyBucket       `json:"monthlyRevenue"`
	PaymentsByStatus map[PaymentStatus]int `json:"paymentsByStatus"`
}

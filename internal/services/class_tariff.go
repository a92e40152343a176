package services

import (
	"mutualaid_app/internal/models"
)

// ClassTariff defines the monthly due and assistance limit for one class
type ClassTariff struct {
	Monthly float64 `json:"monthly"`
	Limit   float64 `json:"limit"`
}

// ClassTariffs maps each membership class to its tariff. The table is
// injected into MembershipService so tests can run alternative tariffs.
type ClassTariffs map[models.MembershipClass]ClassTariff

// DefaultClassTariffs returns the production tariff table
func DefaultClassTariffs() ClassTariffs {
	return ClassTariffs{
		models.MembershipClassA: {Monthly: 25.00, Limit: 2000.00},
		models.MembershipClassB: {Monthly: 50.00, Limit: 3000.00},
		models.MembershipClassC: {Monthly: 75.00, Limit: 5000.00},
		models.MembershipClassD: {Monthly: 100.00, Limit: 10000.00},
	}
}

// For returns the tariff for a class, or a zero tariff for unknown classes
func (t ClassTariffs) For(class models.MembershipClass) ClassTariff {
	return t[class]
}

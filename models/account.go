package models

// Account is the dedicated virtual bank account PaymentPoint assigned to a
// user. One per user, never modified after creation.
type Account struct {
	UserID        string `gorm:"primaryKey;type:varchar(64);not null" json:"userId"`
	AccountNumber string `gorm:"type:varchar(20);uniqueIndex;not null" json:"accountNumber"` // primary lookup key
	AccountName   string `gorm:"type:varchar(255)" json:"accountName"`
	BankName      string `gorm:"type:varchar(128)" json:"bankName"`
	IsActive      bool   `gorm:"not null" json:"isActive"`

	Timestamps
}
